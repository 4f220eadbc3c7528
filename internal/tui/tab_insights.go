package tui

import (
	"strings"

	"github.com/mbh206/aifinacker/internal/model"
	"github.com/mbh206/aifinacker/internal/tui/components"
	"github.com/mbh206/aifinacker/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderInsightsTab(cw int) string {
	t := theme.Active

	if len(a.insights) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).
			Render("\n  Nothing noteworthy in this window.")
	}

	inner := components.CardInnerWidth(cw)

	titleStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Bold(true)
	msgStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Width(inner - 2)
	actionStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	var body strings.Builder
	for i, in := range a.insights {
		body.WriteString(priorityBadge(in.Priority))
		body.WriteString(" ")
		body.WriteString(titleStyle.Render(in.Title))
		body.WriteString("\n")
		body.WriteString(msgStyle.Render("  " + in.Message))
		if in.Actionable && in.ActionRef != "" {
			body.WriteString("\n")
			body.WriteString(actionStyle.Render("  → " + in.ActionRef))
		}
		if i < len(a.insights)-1 {
			body.WriteString("\n\n")
		}
	}

	return components.ContentCard("Insights", body.String(), cw)
}

func priorityBadge(p model.InsightPriority) string {
	t := theme.Active
	switch p {
	case model.PriorityHigh:
		return lipgloss.NewStyle().Foreground(t.Red).Bold(true).Render("●")
	case model.PriorityMedium:
		return lipgloss.NewStyle().Foreground(t.Yellow).Render("●")
	default:
		return lipgloss.NewStyle().Foreground(t.Blue).Render("●")
	}
}
