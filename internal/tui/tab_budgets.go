package tui

import (
	"fmt"
	"strings"

	"github.com/mbh206/aifinacker/internal/cli"
	"github.com/mbh206/aifinacker/internal/tui/components"
	"github.com/mbh206/aifinacker/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderBudgetsTab(cw int) string {
	t := theme.Active

	if len(a.statuses) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).
			Render("\n  No budgets yet. Create one with: aifinacker budgets add")
	}

	inner := components.CardInnerWidth(cw)

	labelW := 0
	for _, st := range a.statuses {
		if n := lipgloss.Width(cli.ShortLabel(st.Budget.Name, 20)); n > labelW {
			labelW = n
		}
	}
	barW := inner - labelW - 10
	if barW < 10 {
		barW = 10
	}
	if barW > 40 {
		barW = 40
	}

	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	var body strings.Builder
	for i, st := range a.statuses {
		body.WriteString(components.UsageBar(
			cli.ShortLabel(st.Budget.Name, 20), st.PercentUsed, labelW, barW))
		body.WriteString("\n")
		detail := fmt.Sprintf("%*s %s of %s · %s · %d expenses",
			labelW, "",
			cli.FormatMoney(st.Spent, a.currency),
			cli.FormatMoney(st.Budget.Amount, a.currency),
			st.Status.String(),
			len(st.Matching))
		body.WriteString(mutedStyle.Render(detail))
		if i < len(a.statuses)-1 {
			body.WriteString("\n\n")
		}
	}

	var b strings.Builder
	b.WriteString(components.ContentCard("Budgets", body.String(), cw))
	b.WriteString("\n")

	summary := fmt.Sprintf("%d active · %s budgeted · %s spent",
		a.portfolio.ActiveBudgets,
		cli.FormatMoney(a.portfolio.TotalBudgeted, a.currency),
		cli.FormatMoney(a.portfolio.TotalSpent, a.currency))
	if a.portfolio.OverBudget > 0 {
		summary += lipgloss.NewStyle().Foreground(t.Red).
			Render(fmt.Sprintf(" · %d over budget", a.portfolio.OverBudget))
	}
	b.WriteString(components.ContentCard("Portfolio", mutedStyle.Render(summary), cw))

	return b.String()
}
