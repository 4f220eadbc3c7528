package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/mbh206/aifinacker/internal/analytics"
	"github.com/mbh206/aifinacker/internal/cli"
	"github.com/mbh206/aifinacker/internal/model"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	flagBudgetCategory  string
	flagBudgetStart     string
	flagBudgetEnd       string
	flagBudgetNotes     string
	flagBudgetRecurring string
)

var budgetsCmd = &cobra.Command{
	Use:   "budgets",
	Short: "Budget status table",
	RunE:  runBudgets,
}

var budgetsAddCmd = &cobra.Command{
	Use:   "add <name> <amount>",
	Short: "Create a budget",
	Args:  cobra.ExactArgs(2),
	RunE:  runBudgetsAdd,
}

var budgetsRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Delete a budget by ID",
	Args:  cobra.ExactArgs(1),
	RunE:  runBudgetsRemove,
}

func init() {
	budgetsAddCmd.Flags().StringVar(&flagBudgetCategory, "budget-category", model.CategoryAll, "Category to cap (default: all spending)")
	budgetsAddCmd.Flags().StringVar(&flagBudgetStart, "start", "", "Start date (YYYY-MM-DD, default: first of this month)")
	budgetsAddCmd.Flags().StringVar(&flagBudgetEnd, "end", "", "End date (YYYY-MM-DD, default: last day of this month)")
	budgetsAddCmd.Flags().StringVar(&flagBudgetNotes, "notes", "", "Free-form notes")
	budgetsAddCmd.Flags().StringVar(&flagBudgetRecurring, "recurring", "", "Repeat cadence: monthly or yearly")

	budgetsCmd.AddCommand(budgetsAddCmd)
	budgetsCmd.AddCommand(budgetsRemoveCmd)
	rootCmd.AddCommand(budgetsCmd)
}

func runBudgets(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	expenses, budgets, err := loadRecords(cfg)
	if err != nil {
		return err
	}

	if len(budgets) == 0 {
		fmt.Println("\n  No budgets yet.")
		fmt.Println("  Create one with: aifinacker budgets add <name> <amount>")
		return nil
	}

	now := time.Now()
	currency := cfg.General.BaseCurrency
	statuses := analytics.EvaluateAll(budgets, expenses, now)
	portfolio := analytics.Portfolio(budgets, expenses, now)

	fmt.Println()
	fmt.Println(cli.RenderTitle("BUDGETS"))
	fmt.Println()

	rows := make([][]string, 0, len(statuses))
	for _, st := range statuses {
		rows = append(rows, []string{
			cli.ShortLabel(st.Budget.Name, 20),
			st.Budget.Category,
			cli.FormatMoney(st.Spent, currency),
			cli.FormatMoney(st.Budget.Amount, currency),
			cli.FormatPercent(st.PercentUsed),
			cli.RenderUsageBar(st.PercentUsed, 14),
			cli.RenderStatus(st.Status),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Budget", "Category", "Spent", "Limit", "Used", "", "Status"},
		Rows:    rows,
	}))

	fmt.Printf("\n  %s\n", cli.Mutedf("%d active · %s budgeted · %s spent",
		portfolio.ActiveBudgets,
		cli.FormatMoney(portfolio.TotalBudgeted, currency),
		cli.FormatMoney(portfolio.TotalSpent, currency)))
	if portfolio.OverBudget > 0 {
		fmt.Printf("  %s\n", cli.Warnf("%d budget(s) over their limit", portfolio.OverBudget))
	}

	return nil
}

func runBudgetsAdd(_ *cobra.Command, args []string) error {
	name := args[0]
	amount, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", args[1], err)
	}
	if amount <= 0 {
		return errors.New("budget amount must be greater than zero")
	}

	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)

	if flagBudgetStart != "" {
		start, err = time.Parse("2006-01-02", flagBudgetStart)
		if err != nil {
			return fmt.Errorf("invalid start date %q: %w", flagBudgetStart, err)
		}
	}
	if flagBudgetEnd != "" {
		end, err = time.Parse("2006-01-02", flagBudgetEnd)
		if err != nil {
			return fmt.Errorf("invalid end date %q: %w", flagBudgetEnd, err)
		}
	}
	if end.Before(start) {
		return errors.New("end date must not be before start date")
	}

	var recurring model.RecurringPeriod
	switch flagBudgetRecurring {
	case "":
		recurring = model.RecurringNone
	case "monthly":
		recurring = model.RecurringMonthly
	case "yearly":
		recurring = model.RecurringYearly
	default:
		return fmt.Errorf("invalid recurring cadence %q (monthly or yearly)", flagBudgetRecurring)
	}

	cfg := loadConfig()
	budget := model.BudgetRecord{
		ID:        uuid.NewString(),
		AccountID: cfg.General.AccountID,
		Name:      name,
		Category:  flagBudgetCategory,
		Amount:    amount,
		StartDate: start,
		EndDate:   end,
		Notes:     flagBudgetNotes,
		IsActive:  true,
		Recurring: recurring,
	}

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := db.SaveBudget(budget); err != nil {
		return fmt.Errorf("saving budget: %w", err)
	}

	fmt.Printf("  Created budget %q: %s for %s (%s to %s)\n",
		name,
		cli.FormatMoney(amount, cfg.General.BaseCurrency),
		budget.Category,
		start.Format("2006-01-02"),
		end.Format("2006-01-02"))
	fmt.Printf("  ID: %s\n", budget.ID)
	return nil
}

func runBudgetsRemove(_ *cobra.Command, args []string) error {
	cfg := loadConfig()
	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := db.DeleteBudget(args[0]); err != nil {
		return fmt.Errorf("deleting budget: %w", err)
	}
	fmt.Printf("  Deleted budget %s\n", args[0])
	return nil
}
