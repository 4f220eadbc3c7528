package cmd

import (
	"fmt"
	"strings"

	"github.com/mbh206/aifinacker/internal/cli"
	"github.com/mbh206/aifinacker/internal/config"
	"github.com/mbh206/aifinacker/internal/rates"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the active configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()

	fmt.Println()
	fmt.Println(cli.RenderTitle("CONFIGURATION"))
	fmt.Println()

	if config.Exists() {
		fmt.Printf("  File: %s\n", config.Path())
	} else {
		fmt.Printf("  File: %s %s\n", config.Path(), cli.Mutedf("(not created yet, using defaults)"))
	}
	fmt.Println()

	fmt.Println("  [general]")
	fmt.Printf("    base_currency  = %s\n", cfg.General.BaseCurrency)
	fmt.Printf("    default_months = %d\n", cfg.General.DefaultMonths)
	if cfg.General.AccountID != "" {
		fmt.Printf("    account_id     = %s\n", cfg.General.AccountID)
	}
	fmt.Printf("    data_dir       = %s\n", config.DataDir(cfg))

	fmt.Println()
	fmt.Println("  [rates]")
	base := cfg.Rates.BaseURL
	if base == "" {
		base = rates.DefaultBaseURL
	}
	fmt.Printf("    base_url = %s\n", base)

	fmt.Println()
	fmt.Println("  [appearance]")
	fmt.Printf("    theme = %s\n", cfg.Appearance.Theme)

	fmt.Println()
	fmt.Println("  [heuristics]")
	heur := config.ResolveHeuristics(cfg)
	fmt.Printf("    increase_percent     = %.0f\n", heur.IncreasePercent)
	fmt.Printf("    increase_noise_floor = %.0f\n", heur.IncreaseNoiseFloor)
	fmt.Printf("    top_category_share   = %.2f\n", heur.TopCategoryShare)
	fmt.Printf("    savings_watchlist    = %s\n", strings.Join(heur.SavingsWatchlist, ", "))
	fmt.Printf("    savings_monthly_avg  = %.0f\n", heur.SavingsMonthlyAvg)
	fmt.Printf("    savings_min_tx_count = %d\n", heur.SavingsMinTxCount)
	fmt.Printf("    savings_fallback_avg = %.0f\n", heur.SavingsFallbackAvg)
	fmt.Printf("    trailing_months      = %d\n", heur.TrailingMonths)

	fmt.Println()
	fmt.Printf("  %s\n", cli.Mutedf("Run 'aifinacker setup' to change these interactively."))
	return nil
}
