package cmd

import (
	"fmt"
	"time"

	"github.com/mbh206/aifinacker/internal/analytics"
	"github.com/mbh206/aifinacker/internal/cli"

	"github.com/spf13/cobra"
)

var monthlyCmd = &cobra.Command{
	Use:   "monthly",
	Short: "Monthly spending table with trend",
	RunE:  runMonthly,
}

func init() {
	rootCmd.AddCommand(monthlyCmd)
}

func runMonthly(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	expenses, _, err := loadRecords(cfg)
	if err != nil {
		return err
	}

	now := time.Now()
	filtered, window := applyFilters(cfg, expenses, now)
	currency := cfg.General.BaseCurrency

	series := analytics.MovingAverage(
		analytics.MonthlySeries(filtered, window), analytics.DefaultMovingWindow)
	if len(series) == 0 {
		fmt.Println("\n  No expenses in the selected window.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("MONTHLY SPENDING  Last %d months", months(cfg))))
	fmt.Println()

	rows := make([][]string, 0, len(series))
	for i, p := range series {
		change := ""
		if i > 0 {
			change = cli.FormatChange(analytics.MonthOverMonthChange(series[:i+1]))
		}
		rows = append(rows, []string{
			p.Label,
			cli.FormatMoney(p.Amount, currency),
			cli.FormatMoney(p.Trend, currency),
			change,
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Month", "Spent", "3-mo Avg", "MoM"},
		Rows:    rows,
	}))

	values := make([]float64, len(series))
	for i, p := range series {
		values[i] = p.Amount
	}
	fmt.Printf("\n  %s\n", cli.RenderSparkline(values))

	return nil
}
