package cmd

import (
	"os"
	"time"

	"github.com/mbh206/aifinacker/internal/analytics"
	"github.com/mbh206/aifinacker/internal/config"
	"github.com/mbh206/aifinacker/internal/model"
	"github.com/mbh206/aifinacker/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagMonths   int
	flagCategory string
	flagAccount  string
	flagDataDir  string
	flagQuiet    bool
)

var rootCmd = &cobra.Command{
	Use:   "aifinacker",
	Short: "Personal finance analytics CLI",
	Long:  "Track expenses and budgets: spending summaries, trends, and insights.",
	RunE:  runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().IntVarP(&flagMonths, "months", "n", 0, "Time window in months (default from config)")
	rootCmd.PersistentFlags().StringVarP(&flagCategory, "category", "c", "", "Filter to category (substring match)")
	rootCmd.PersistentFlags().StringVarP(&flagAccount, "account", "a", "", "Filter to account")
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Override data directory")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// loadConfig reads the config file with the --data-dir override applied.
func loadConfig() config.Config {
	cfg, _ := config.Load()
	if flagDataDir != "" {
		cfg.General.DataDir = flagDataDir
	}
	return cfg
}

// months resolves the effective window length: flag first, then config.
func months(cfg config.Config) int {
	if flagMonths > 0 {
		return flagMonths
	}
	if cfg.General.DefaultMonths > 0 {
		return cfg.General.DefaultMonths
	}
	return 6
}

// openStore opens the records database for the current config.
func openStore(cfg config.Config) (*store.Store, error) {
	return store.Open(config.DBPath(cfg))
}

// loadRecords is the shared data loading path used by read-only commands.
func loadRecords(cfg config.Config) ([]model.ExpenseRecord, []model.BudgetRecord, error) {
	db, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = db.Close() }()

	expenses, err := db.ListExpenses()
	if err != nil {
		return nil, nil, err
	}
	budgets, err := db.ListBudgets()
	if err != nil {
		return nil, nil, err
	}
	return expenses, budgets, nil
}

// applyFilters returns expenses narrowed by the global flags, plus the
// window they were narrowed to.
func applyFilters(cfg config.Config, expenses []model.ExpenseRecord, now time.Time) ([]model.ExpenseRecord, analytics.Window) {
	filtered := expenses
	if flagCategory != "" {
		filtered = analytics.FilterByCategory(filtered, flagCategory)
	}
	if flagAccount != "" {
		filtered = analytics.FilterByAccount(filtered, flagAccount)
	}

	window := analytics.LastNMonths(now, months(cfg))
	return analytics.FilterByWindow(filtered, window), window
}
