package cmd

import (
	"fmt"
	"time"

	"github.com/mbh206/aifinacker/internal/cli"
	"github.com/mbh206/aifinacker/internal/config"
	"github.com/mbh206/aifinacker/internal/model"

	"github.com/spf13/cobra"
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Spending insights and warnings",
	RunE:  runInsights,
}

func init() {
	rootCmd.AddCommand(insightsCmd)
}

func runInsights(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	expenses, budgets, err := loadRecords(cfg)
	if err != nil {
		return err
	}

	now := time.Now()
	filtered, _ := applyFilters(cfg, expenses, now)

	heur := config.ResolveHeuristics(cfg)
	insights := heur.Generate(filtered, budgets, now)

	fmt.Println()
	fmt.Println(cli.RenderTitle("INSIGHTS"))
	fmt.Println()

	if len(insights) == 0 {
		fmt.Println("  Nothing unusual in this window.")
		return nil
	}

	for _, in := range insights {
		badge := in.Priority.String()
		switch in.Priority {
		case model.PriorityHigh:
			badge = cli.Warnf("[%s]", badge)
		default:
			badge = cli.Mutedf("[%s]", badge)
		}
		fmt.Printf("  %s %s\n", badge, in.Title)
		fmt.Printf("      %s\n", in.Message)
		if in.Actionable && in.ActionRef != "" {
			fmt.Printf("      %s\n", cli.Mutedf("see: %s", in.ActionRef))
		}
		fmt.Println()
	}
	return nil
}
