package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mbh206/aifinacker/internal/cli"
	"github.com/mbh206/aifinacker/internal/model"
	"github.com/mbh206/aifinacker/internal/rates"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	flagAddDate        string
	flagAddSubcategory string
	flagAddDescription string
	flagAddTags        string
	flagAddCurrency    string
)

var addCmd = &cobra.Command{
	Use:   "add <amount> <category>",
	Short: "Record a single expense",
	Args:  cobra.ExactArgs(2),
	RunE:  runAdd,
}

func init() {
	addCmd.Flags().StringVar(&flagAddDate, "date", "", "Expense date (YYYY-MM-DD, default: today)")
	addCmd.Flags().StringVar(&flagAddSubcategory, "subcategory", "", "Subcategory")
	addCmd.Flags().StringVar(&flagAddDescription, "description", "", "Description")
	addCmd.Flags().StringVar(&flagAddTags, "tags", "", "Semicolon-separated tags")
	addCmd.Flags().StringVar(&flagAddCurrency, "currency", "", "Currency of the amount (default: base currency)")
	rootCmd.AddCommand(addCmd)
}

func runAdd(_ *cobra.Command, args []string) error {
	amount, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", args[0], err)
	}
	if amount <= 0 {
		return errors.New("amount must be greater than zero")
	}

	date := time.Now()
	if flagAddDate != "" {
		date, err = time.Parse("2006-01-02", flagAddDate)
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", flagAddDate, err)
		}
	}

	cfg := loadConfig()
	base := cfg.General.BaseCurrency

	expense := model.ExpenseRecord{
		ID:          uuid.NewString(),
		AccountID:   cfg.General.AccountID,
		Amount:      amount,
		Category:    args[1],
		Subcategory: flagAddSubcategory,
		Date:        date,
		Description: flagAddDescription,
	}
	if flagAddTags != "" {
		for _, tag := range strings.Split(flagAddTags, ";") {
			if tag = strings.TrimSpace(tag); tag != "" {
				expense.Tags = append(expense.Tags, tag)
			}
		}
	}

	currency := strings.ToUpper(flagAddCurrency)
	if currency != "" && currency != base {
		client := rates.NewClient(cfg.Rates.BaseURL)
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		table, err := client.Latest(ctx, base, []string{currency})
		if err != nil {
			return fmt.Errorf("fetching exchange rate for %s: %w", currency, err)
		}
		rate, ok := table.Rates[currency]
		if !ok {
			return fmt.Errorf("no exchange rate available for %s", currency)
		}
		expense.OriginalAmount = amount
		expense.OriginalCurrency = currency
		expense.ExchangeRate = rate
		expense.Amount = amount * rate
	}

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := db.SaveExpense(expense); err != nil {
		return fmt.Errorf("saving expense: %w", err)
	}

	fmt.Printf("  Recorded %s in %s on %s\n",
		cli.FormatMoney(expense.Amount, base),
		expense.Category,
		expense.Date.Format("2006-01-02"))
	if expense.OriginalCurrency != "" {
		fmt.Printf("  %s\n", cli.Mutedf("converted from %.2f %s at %.4f",
			expense.OriginalAmount, expense.OriginalCurrency, expense.ExchangeRate))
	}
	return nil
}
