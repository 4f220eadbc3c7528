package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/mbh206/aifinacker/internal/analytics"
	"github.com/mbh206/aifinacker/internal/cli"
	"github.com/mbh206/aifinacker/internal/tui/components"
	"github.com/mbh206/aifinacker/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	now := time.Now()

	monthSpent := analytics.TotalSpent(analytics.FilterByWindow(a.filtered, analytics.ThisMonth(now)))
	lastMonth := analytics.TotalSpent(analytics.FilterByWindow(a.filtered, analytics.LastMonth(now)))

	momDelta := ""
	if lastMonth > 0 {
		momDelta = cli.FormatChange((monthSpent - lastMonth) / lastMonth * 100)
	}

	budgetDelta := ""
	if a.portfolio.OverBudget > 0 {
		budgetDelta = fmt.Sprintf("%d over", a.portfolio.OverBudget)
	}

	cards := []struct{ Label, Value, Delta string }{
		{"Total Spent", cli.FormatMoney(analytics.TotalSpent(a.filtered), a.currency),
			fmt.Sprintf("last %d months", a.months)},
		{"This Month", cli.FormatMoney(monthSpent, a.currency), momDelta},
		{"Active Budgets", fmt.Sprintf("%d", a.portfolio.ActiveBudgets), budgetDelta},
		{"Insights", fmt.Sprintf("%d", len(a.insights)), ""},
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	// Top categories with horizontal bars
	inner := components.CardInnerWidth(cw)
	var catBody strings.Builder
	if len(a.totals) == 0 {
		catBody.WriteString(lipgloss.NewStyle().Foreground(t.TextDim).Render("No expenses in this window."))
	} else {
		maxTotal := a.totals[0].Total
		labelW := 0
		for _, ct := range a.totals {
			if n := lipgloss.Width(cli.ShortLabel(ct.Category, 18)); n > labelW {
				labelW = n
			}
		}
		barW := inner - labelW - 22
		if barW < 8 {
			barW = 8
		}

		labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
		amountStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
		shareStyle := lipgloss.NewStyle().Foreground(t.TextDim)
		barStyle := lipgloss.NewStyle().Foreground(t.Accent)

		for i, ct := range a.totals {
			filled := int(ct.Total / maxTotal * float64(barW))
			if filled < 1 && ct.Total > 0 {
				filled = 1
			}
			fmt.Fprintf(&catBody, "%s %s %s %s",
				labelStyle.Render(fmt.Sprintf("%-*s", labelW, cli.ShortLabel(ct.Category, 18))),
				barStyle.Render(strings.Repeat("█", filled)),
				amountStyle.Render(cli.FormatMoney(ct.Total, a.currency)),
				shareStyle.Render(cli.FormatShare(ct.Share)),
			)
			if i < len(a.totals)-1 {
				catBody.WriteString("\n")
			}
		}
	}
	b.WriteString(components.ContentCard("Top Categories", catBody.String(), cw))

	// Monthly sparkline footer
	if len(a.series) > 1 {
		values := make([]float64, len(a.series))
		for i, p := range a.series {
			values[i] = p.Amount
		}
		spark := components.Sparkline(values, t.Accent) + "  " +
			lipgloss.NewStyle().Foreground(t.TextDim).Render(
				fmt.Sprintf("%s – %s", a.series[0].Label, a.series[len(a.series)-1].Label))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Monthly Spending", spark, cw))
	}

	return b.String()
}
