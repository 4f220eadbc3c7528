package cmd

import (
	"fmt"
	"time"

	"github.com/mbh206/aifinacker/internal/analytics"
	"github.com/mbh206/aifinacker/internal/cli"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Spending summary with budget portfolio",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	expenses, budgets, err := loadRecords(cfg)
	if err != nil {
		return err
	}

	if len(expenses) == 0 {
		fmt.Println("\n  No expenses recorded yet.")
		fmt.Println("  Add one with `aifinacker add` or `aifinacker import <path>`.")
		return nil
	}

	now := time.Now()
	filtered, _ := applyFilters(cfg, expenses, now)
	currency := cfg.General.BaseCurrency

	if len(filtered) == 0 {
		fmt.Println("\n  No expenses in the selected window.")
		return nil
	}

	total := analytics.TotalSpent(filtered)
	monthSpent := analytics.TotalSpent(analytics.FilterByWindow(filtered, analytics.ThisMonth(now)))
	lastMonthSpent := analytics.TotalSpent(analytics.FilterByWindow(filtered, analytics.LastMonth(now)))
	portfolio := analytics.Portfolio(budgets, expenses, now)
	totals := analytics.CategoryTotals(filtered)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SPENDING  Last %d months", months(cfg))))
	fmt.Println()

	rows := [][]string{
		{"Total Spent", cli.FormatMoney(total, currency)},
		{"Expenses", cli.FormatNumber(int64(len(filtered)))},
		cli.SeparatorRow,
		{"This Month", cli.FormatMoney(monthSpent, currency)},
	}

	lastMonthStr := cli.FormatMoney(lastMonthSpent, currency)
	if lastMonthSpent > 0 {
		lastMonthStr += fmt.Sprintf("  (%s)", cli.FormatDelta(monthSpent, lastMonthSpent, currency))
	}
	rows = append(rows, []string{"Last Month", lastMonthStr})

	if len(totals) > 0 {
		rows = append(rows, cli.SeparatorRow,
			[]string{"Top Category", fmt.Sprintf("%s  (%s)", totals[0].Category, cli.FormatShare(totals[0].Share))})
	}

	rows = append(rows, cli.SeparatorRow,
		[]string{"Active Budgets", cli.FormatNumber(int64(portfolio.ActiveBudgets))},
		[]string{"Budgeted", cli.FormatMoney(portfolio.TotalBudgeted, currency)},
		[]string{"Budget Spend", cli.FormatMoney(portfolio.TotalSpent, currency)},
	)
	if portfolio.OverBudget > 0 {
		rows = append(rows, []string{"Over Budget", cli.Warnf("%d", portfolio.OverBudget)})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	return nil
}
