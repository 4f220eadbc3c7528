package cmd

import (
	"fmt"
	"time"

	"github.com/mbh206/aifinacker/internal/analytics"
	"github.com/mbh206/aifinacker/internal/cli"

	"github.com/spf13/cobra"
)

var (
	flagTopCategories int
	flagCatMonthly    bool
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Spending by category",
	RunE:  runCategories,
}

func init() {
	categoriesCmd.Flags().IntVar(&flagTopCategories, "top", 8, "Show top N categories, folding the rest into Other")
	categoriesCmd.Flags().BoolVar(&flagCatMonthly, "monthly", false, "Show a per-month sparkline for each category")
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	expenses, _, err := loadRecords(cfg)
	if err != nil {
		return err
	}

	now := time.Now()
	filtered, window := applyFilters(cfg, expenses, now)
	currency := cfg.General.BaseCurrency

	totals := analytics.TopWithOverflow(analytics.CategoryTotals(filtered), flagTopCategories)
	if len(totals) == 0 {
		fmt.Println("\n  No expenses in the selected window.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("CATEGORIES  Last %d months", months(cfg))))
	fmt.Println()

	sparklines := map[string]string{}
	if flagCatMonthly {
		for _, cm := range analytics.CategorySeries(filtered, window, flagTopCategories) {
			values := make([]float64, len(cm.Points))
			for i, p := range cm.Points {
				values[i] = p.Amount
			}
			sparklines[cm.Category] = cli.RenderSparkline(values)
		}
	}

	maxTotal := totals[0].Total
	rows := make([][]string, 0, len(totals))
	for _, ct := range totals {
		row := []string{
			cli.ShortLabel(ct.Category, 22),
			cli.FormatMoney(ct.Total, currency),
			cli.FormatShare(ct.Share),
			cli.FormatNumber(int64(ct.Count)),
			cli.RenderHorizontalBar(ct.Total, maxTotal, 20),
		}
		if flagCatMonthly {
			row = append(row, sparklines[ct.Category])
		}
		rows = append(rows, row)
	}

	headers := []string{"Category", "Spent", "Share", "Count", ""}
	if flagCatMonthly {
		headers = append(headers, "Trend")
	}

	fmt.Print(cli.RenderTable(cli.Table{Headers: headers, Rows: rows}))
	return nil
}
