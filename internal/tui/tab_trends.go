package tui

import (
	"fmt"
	"strings"

	"github.com/mbh206/aifinacker/internal/analytics"
	"github.com/mbh206/aifinacker/internal/cli"
	"github.com/mbh206/aifinacker/internal/tui/components"
	"github.com/mbh206/aifinacker/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderTrendsTab(cw, contentH int) string {
	t := theme.Active

	if len(a.series) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).
			Render("\n  No expenses in this window.")
	}

	values := make([]float64, len(a.series))
	labels := make([]string, len(a.series))
	trend := make([]float64, len(a.series))
	for i, p := range a.series {
		values[i] = p.Amount
		trend[i] = p.Trend
		// "2024-03" -> "Mar"
		labels[i] = p.Label
		if parts := strings.SplitN(p.Label, " ", 2); len(parts) == 2 {
			labels[i] = parts[0]
		}
	}

	chartH := contentH - 12
	if chartH < 4 {
		chartH = 4
	}
	if chartH > 12 {
		chartH = 12
	}

	inner := components.CardInnerWidth(cw)
	chart := components.BarChart(values, labels, t.Accent, inner, chartH)

	var b strings.Builder
	b.WriteString(components.ContentCard("Monthly Spending", chart, cw))
	b.WriteString("\n")

	// Moving average + month-over-month summary
	mom := analytics.MonthOverMonthChange(a.series)
	last := a.series[len(a.series)-1]

	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Bold(true)

	momStyle := lipgloss.NewStyle().Foreground(t.Green)
	if mom > 0 {
		momStyle = lipgloss.NewStyle().Foreground(t.Orange)
	}

	var body strings.Builder
	fmt.Fprintf(&body, "%s %s   %s %s   %s %s",
		mutedStyle.Render("Latest:"),
		valueStyle.Render(cli.FormatMoney(last.Amount, a.currency)),
		mutedStyle.Render("3-mo avg:"),
		valueStyle.Render(cli.FormatMoney(last.Trend, a.currency)),
		mutedStyle.Render("MoM:"),
		momStyle.Render(cli.FormatChange(mom)),
	)
	body.WriteString("\n")
	body.WriteString(mutedStyle.Render("Trend  "))
	body.WriteString(components.Sparkline(trend, t.Cyan))

	b.WriteString(components.ContentCard("Momentum", body.String(), cw))

	return b.String()
}
