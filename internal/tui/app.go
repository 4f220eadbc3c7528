// Package tui provides the interactive Bubble Tea dashboard for aifinacker.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/mbh206/aifinacker/internal/analytics"
	"github.com/mbh206/aifinacker/internal/config"
	"github.com/mbh206/aifinacker/internal/model"
	"github.com/mbh206/aifinacker/internal/store"
	"github.com/mbh206/aifinacker/internal/tui/components"
	"github.com/mbh206/aifinacker/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// DataLoadedMsg is sent when the record load finishes.
type DataLoadedMsg struct {
	Expenses []model.ExpenseRecord
	Budgets  []model.BudgetRecord
	LoadTime time.Duration
	Err      error
}

// App is the root Bubble Tea model.
type App struct {
	// Raw records
	expenses []model.ExpenseRecord
	budgets  []model.BudgetRecord
	loaded   bool
	loadTime time.Duration
	loadErr  error

	// Pre-computed for the current filter
	filtered  []model.ExpenseRecord
	totals    []model.CategoryTotal
	statuses  []model.BudgetStatus
	portfolio model.PortfolioStats
	series    []model.MonthlyPoint
	insights  []model.InsightRecord

	// Filter state
	months   int
	category string
	account  string

	// Settings
	currency string
	heur     analytics.Heuristics

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	spinner   spinner.Model

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals setupValues
	needSetup bool

	dbPath string
}

const (
	minTerminalWidth = 70
	maxContentWidth  = 150
	minContentHeight = 5
	topCategories    = 8
)

// NewApp creates a new TUI app model.
func NewApp(dbPath string, cfg config.Config, months int, category, account string) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	if months < 1 {
		months = cfg.General.DefaultMonths
	}
	if months < 1 {
		months = 6
	}

	return App{
		dbPath:    dbPath,
		months:    months,
		category:  category,
		account:   account,
		currency:  cfg.General.BaseCurrency,
		heur:      config.ResolveHeuristics(cfg),
		needSetup: !config.Exists(),
		spinner:   sp,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		loadDataCmd(a.dbPath),
		a.spinner.Tick,
	)
}

func (a *App) recompute() {
	now := time.Now()
	window := analytics.LastNMonths(now, a.months)

	filtered := a.expenses
	if a.category != "" {
		filtered = analytics.FilterByCategory(filtered, a.category)
	}
	if a.account != "" {
		filtered = analytics.FilterByAccount(filtered, a.account)
	}
	filtered = analytics.FilterByWindow(filtered, window)

	a.filtered = filtered
	a.totals = analytics.TopWithOverflow(analytics.CategoryTotals(filtered), topCategories)
	a.statuses = analytics.EvaluateAll(a.budgets, a.expenses, now)
	a.portfolio = analytics.Portfolio(a.budgets, a.expenses, now)
	a.series = analytics.MovingAverage(
		analytics.MonthlySeries(filtered, window), analytics.DefaultMovingWindow)
	a.insights = a.heur.Generate(filtered, a.budgets, now)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return a, tea.Quit
		}

		if !a.loaded {
			return a, nil
		}

		// First-run setup wizard intercepts all keys
		if a.needSetup && a.setupForm != nil {
			return a.updateSetupForm(msg)
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		switch key {
		case "q":
			return a, tea.Quit
		case "r":
			a.loaded = false
			return a, tea.Batch(loadDataCmd(a.dbPath), a.spinner.Tick)
		case "left", "h":
			a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		case "right", "l":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		case "1", "2", "3", "4":
			a.activeTab = int(key[0] - '1')
		default:
			if idx := components.TabIdxByKey(rune(key[0])); len(key) == 1 && idx >= 0 {
				a.activeTab = idx
			}
		}
		return a, nil

	case DataLoadedMsg:
		a.expenses = msg.Expenses
		a.budgets = msg.Budgets
		a.loadTime = msg.LoadTime
		a.loadErr = msg.Err
		a.loaded = true
		a.recompute()

		// Activate first-run setup after data loads
		if a.needSetup {
			a.setupForm = newSetupForm(len(a.expenses), &a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	if a.setupForm.State == huh.StateCompleted {
		if cfg, err := a.setupVals.apply(); err == nil {
			a.currency = cfg.General.BaseCurrency
			a.months = cfg.General.DefaultMonths
			a.heur = config.ResolveHeuristics(cfg)
		}
		a.recompute()
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	if a.setupForm.State == huh.StateAborted {
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	return a, cmd
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return fmt.Sprintf(
			"\n  Terminal too narrow (%d cols)\n\n  aifinacker needs at least %d columns.\n",
			a.width, minTerminalWidth)
	}

	if !a.loaded {
		return a.viewLoading()
	}

	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ aifinacker"))
	b.WriteString(subtitleStyle.Render(" · Spending Dashboard"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())
	b.WriteString(subtitleStyle.Render(" Loading records..."))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
		cardStyle.Render(b.String()))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	bindings := []struct{ key, desc string }{
		{"o t b i", "Jump to tab"},
		{"1-4", "Jump to tab by number"},
		{"← →", "Previous / Next tab"},
		{"r", "Reload records"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}
	for _, bind := range bindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-8s", bind.key)),
			descStyle.Render(bind.desc))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
		cardStyle.Render(b.String()))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	filterStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	accentStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)

	filterStr := filterStyle.Render(" ") + accentStyle.Render(fmt.Sprintf("%dmo", a.months))
	if a.category != "" {
		filterStr += filterStyle.Render(" │ ") + accentStyle.Render(a.category)
	}
	if a.account != "" {
		filterStr += filterStyle.Render(" │ ") + accentStyle.Render(a.account)
	}

	header := components.RenderTabBar(a.activeTab, w) + "\n" + filterStr

	statusBar := components.RenderStatusBar(w, len(a.filtered),
		fmt.Sprintf("%.0fms", float64(a.loadTime.Microseconds())/1000))

	headerH := lipgloss.Height(header)
	statusH := lipgloss.Height(statusBar)
	contentH := h - headerH - statusH
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch a.activeTab {
	case 0:
		content = a.renderOverviewTab(cw)
	case 1:
		content = a.renderTrendsTab(cw, contentH)
	case 2:
		content = a.renderBudgetsTab(cw)
	case 3:
		content = a.renderInsightsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

type setupValues struct {
	currency string
	months   string
}

// newSetupForm builds the first-run configuration form.
func newSetupForm(recordCount int, vals *setupValues) *huh.Form {
	vals.currency = "USD"
	vals.months = "6"

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to aifinacker").
				Description(fmt.Sprintf("Found %d expense records. A few quick settings:", recordCount)),
			huh.NewSelect[string]().
				Title("Base currency").
				Options(
					huh.NewOption("US Dollar (USD)", "USD"),
					huh.NewOption("Euro (EUR)", "EUR"),
					huh.NewOption("British Pound (GBP)", "GBP"),
					huh.NewOption("Japanese Yen (JPY)", "JPY"),
					huh.NewOption("Canadian Dollar (CAD)", "CAD"),
					huh.NewOption("Australian Dollar (AUD)", "AUD"),
				).
				Value(&vals.currency),
			huh.NewInput().
				Title("Default window (months)").
				Validate(validateMonths).
				Value(&vals.months),
		),
	)
}

func validateMonths(s string) error {
	n := 0
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d", &n); err != nil || n < 1 || n > 60 {
		return fmt.Errorf("enter a number between 1 and 60")
	}
	return nil
}

// apply persists the setup answers and returns the saved config.
func (v setupValues) apply() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	cfg.General.BaseCurrency = v.currency
	months := 0
	if _, err := fmt.Sscanf(strings.TrimSpace(v.months), "%d", &months); err == nil && months >= 1 {
		cfg.General.DefaultMonths = months
	}

	if err := config.Save(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// loadDataCmd loads all records from the store in a background command.
func loadDataCmd(dbPath string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()

		db, err := store.Open(dbPath)
		if err != nil {
			return DataLoadedMsg{LoadTime: time.Since(start), Err: err}
		}
		defer func() { _ = db.Close() }()

		expenses, err := db.ListExpenses()
		if err != nil {
			return DataLoadedMsg{LoadTime: time.Since(start), Err: err}
		}
		budgets, err := db.ListBudgets()
		if err != nil {
			return DataLoadedMsg{LoadTime: time.Since(start), Err: err}
		}

		return DataLoadedMsg{
			Expenses: expenses,
			Budgets:  budgets,
			LoadTime: time.Since(start),
		}
	}
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}
