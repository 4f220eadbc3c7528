package cmd

import (
	"fmt"

	"github.com/mbh206/aifinacker/internal/config"
	"github.com/mbh206/aifinacker/internal/tui"
	"github.com/mbh206/aifinacker/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive spending dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	theme.SetActive(cfg.Appearance.Theme)
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(config.DBPath(cfg), cfg, flagMonths, flagCategory, flagAccount)
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running dashboard: %w", err)
	}
	return nil
}
