package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mbh206/aifinacker/internal/cli"
	"github.com/mbh206/aifinacker/internal/config"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive first-run configuration",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	reader := bufio.NewReader(os.Stdin)
	cfg := config.DefaultConfig()
	if config.Exists() {
		if loaded, err := config.Load(); err == nil {
			cfg = loaded
		}
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("SETUP"))
	fmt.Println()

	currencies := []string{"USD", "EUR", "GBP", "JPY", "CAD", "AUD"}
	fmt.Println("  Base currency:")
	for i, c := range currencies {
		marker := " "
		if c == cfg.General.BaseCurrency {
			marker = "*"
		}
		fmt.Printf("   %s %d. %s\n", marker, i+1, c)
	}
	fmt.Print("  Choice [keep current]: ")
	if choice, ok := readChoice(reader, len(currencies)); ok {
		cfg.General.BaseCurrency = currencies[choice-1]
	}

	fmt.Println()
	monthChoices := []int{3, 6, 12}
	fmt.Println("  Default reporting window (months):")
	for i, m := range monthChoices {
		marker := " "
		if m == cfg.General.DefaultMonths {
			marker = "*"
		}
		fmt.Printf("   %s %d. %d months\n", marker, i+1, m)
	}
	fmt.Print("  Choice [keep current]: ")
	if choice, ok := readChoice(reader, len(monthChoices)); ok {
		cfg.General.DefaultMonths = monthChoices[choice-1]
	}

	fmt.Println()
	themes := []string{"dark", "light", "terminal"}
	fmt.Println("  Theme:")
	for i, t := range themes {
		marker := " "
		if t == cfg.Appearance.Theme {
			marker = "*"
		}
		fmt.Printf("   %s %d. %s\n", marker, i+1, t)
	}
	fmt.Print("  Choice [keep current]: ")
	if choice, ok := readChoice(reader, len(themes)); ok {
		cfg.Appearance.Theme = themes[choice-1]
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Printf("  %s\n", cli.Mutedf("Import expenses with 'aifinacker import <path>' to get started."))
	return nil
}

// readChoice reads a 1-based menu selection. An empty or invalid line keeps
// the current value.
func readChoice(reader *bufio.Reader, max int) (int, bool) {
	line, err := reader.ReadString('\n')
	if err != nil {
		return 0, false
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return 0, false
	}
	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > max {
		return 0, false
	}
	return n, true
}
