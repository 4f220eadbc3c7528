package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mbh206/aifinacker/internal/cli"
	"github.com/mbh206/aifinacker/internal/rates"
	"github.com/mbh206/aifinacker/internal/source"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Import expenses from CSV exports",
	Long:  "Imports one CSV file, or every CSV file under a directory (recursively).",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(_ *cobra.Command, args []string) error {
	cfg := loadConfig()
	base := cfg.General.BaseCurrency

	opts := source.Options{
		BaseCurrency: base,
		AccountID:    cfg.General.AccountID,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	table, err := rates.NewClient(cfg.Rates.BaseURL).Latest(ctx, base, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  %s\n", cli.Warnf("exchange rates unavailable, foreign-currency rows will be skipped: %v", err))
	} else {
		opts.Rates = table.Rates
	}

	var progressFn source.ProgressFunc
	if !flagQuiet {
		progressFn = func(current, total int) {
			fmt.Fprintf(os.Stderr, "\r  Parsing [%d/%d]", current, total)
		}
	}

	result, err := source.Load(args[0], opts, progressFn)
	if !flagQuiet {
		fmt.Fprint(os.Stderr, "\r\033[K")
	}
	if err != nil {
		return fmt.Errorf("loading %s: %w", args[0], err)
	}

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := db.SaveExpenses(result.Expenses); err != nil {
		return fmt.Errorf("saving expenses: %w", err)
	}

	fmt.Printf("\n  Imported %s expense(s) from %d of %d file(s)\n",
		cli.FormatNumber(int64(len(result.Expenses))), result.ParsedFiles, result.TotalFiles)
	if result.Credits > 0 {
		fmt.Printf("  %s\n", cli.Mutedf("%d credit row(s) skipped", result.Credits))
	}
	if result.RowErrors > 0 {
		fmt.Printf("  %s\n", cli.Warnf("%d row(s) could not be parsed", result.RowErrors))
	}
	if result.FileErrors > 0 {
		fmt.Printf("  %s\n", cli.Warnf("%d file(s) could not be read", result.FileErrors))
	}
	return nil
}
