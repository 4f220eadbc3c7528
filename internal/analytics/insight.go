package analytics

import (
	"fmt"
	"strings"
	"time"

	"github.com/mbh206/aifinacker/internal/model"
)

// Heuristics holds the tunable constants behind insight generation. They are
// deliberately simple threshold classifiers chosen for explainability.
type Heuristics struct {
	// A category qualifies as an unusual increase when its month-over-month
	// rise exceeds IncreasePercent AND its current-month total exceeds
	// IncreaseNoiseFloor (a 25% jump on a $5 category must not fire).
	IncreasePercent    float64
	IncreaseNoiseFloor float64

	// TopCategoryShare is the fraction of total spend above which the
	// largest category gets called out.
	TopCategoryShare float64

	// Savings watch list and its qualification thresholds over the trailing
	// TrailingMonths window.
	SavingsWatchlist   []string
	SavingsMonthlyAvg  float64
	SavingsMinTxCount  int
	SavingsFallbackAvg float64
	TrailingMonths     int
}

// DefaultHeuristics returns the stock thresholds.
func DefaultHeuristics() Heuristics {
	return Heuristics{
		IncreasePercent:    25,
		IncreaseNoiseFloor: 100,
		TopCategoryShare:   0.25,
		SavingsWatchlist:   []string{"Subscriptions", "Entertainment", "Utilities", "Food"},
		SavingsMonthlyAvg:  200,
		SavingsMinTxCount:  3,
		SavingsFallbackAvg: 300,
		TrailingMonths:     3,
	}
}

// GenerateInsights runs all rule families against one snapshot and returns
// the insights in rule order. The rules are independent; insights are
// rebuilt from scratch on every pass. Insight IDs are derived from the rule
// and its subject so identical inputs yield identical output.
func GenerateInsights(expenses []model.ExpenseRecord, budgets []model.BudgetRecord, now time.Time) []model.InsightRecord {
	return DefaultHeuristics().Generate(expenses, budgets, now)
}

// Generate is GenerateInsights with caller-supplied thresholds.
func (h Heuristics) Generate(expenses []model.ExpenseRecord, budgets []model.BudgetRecord, now time.Time) []model.InsightRecord {
	var insights []model.InsightRecord

	if in, ok := h.overBudget(expenses, budgets, now); ok {
		insights = append(insights, in)
	}
	if in, ok := h.spendingIncrease(expenses, now); ok {
		insights = append(insights, in)
	}
	if in, ok := h.topCategory(expenses, now); ok {
		insights = append(insights, in)
	}
	insights = append(insights, h.savingsOpportunities(expenses, now)...)
	if len(budgets) == 0 {
		insights = append(insights, model.InsightRecord{
			ID:         "cold_start",
			Type:       model.InsightColdStart,
			Title:      "Create your first budget",
			Message:    "You have no budgets yet. Set a spending ceiling for a category to start tracking progress.",
			Priority:   model.PriorityMedium,
			Actionable: true,
			ActionRef:  "budgets add",
			At:         now,
		})
	}

	return insights
}

// overBudget emits one insight naming every active budget classified as
// over budget.
func (h Heuristics) overBudget(expenses []model.ExpenseRecord, budgets []model.BudgetRecord, now time.Time) (model.InsightRecord, bool) {
	var names []string
	for _, b := range budgets {
		if !b.ActiveAt(now) {
			continue
		}
		status := Evaluate(b, expenses, now)
		if status.Status != model.StatusOverBudget {
			continue
		}
		name := b.Category
		if name == model.CategoryAll {
			name = "Overall"
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return model.InsightRecord{}, false
	}

	title := "Budget exceeded"
	if len(names) > 1 {
		title = fmt.Sprintf("%d budgets exceeded", len(names))
	}
	return model.InsightRecord{
		ID:         "over_budget",
		Type:       model.InsightOverBudget,
		Title:      title,
		Message:    fmt.Sprintf("Spending has passed the limit for: %s.", strings.Join(names, ", ")),
		Priority:   model.PriorityHigh,
		Actionable: true,
		ActionRef:  "budgets",
		At:         now,
	}, true
}

// spendingIncrease compares each current-month category against the same
// category last month and flags the single largest qualifying rise.
func (h Heuristics) spendingIncrease(expenses []model.ExpenseRecord, now time.Time) (model.InsightRecord, bool) {
	current := CategoryTotals(FilterByWindow(expenses, ThisMonth(now)))
	previous := CategoryTotals(FilterByWindow(expenses, LastMonth(now)))

	prevTotals := make(map[string]float64, len(previous))
	for _, ct := range previous {
		prevTotals[ct.Category] = ct.Total
	}

	var (
		bestCategory string
		bestIncrease float64
		bestTotal    float64
		found        bool
	)
	// current is sorted descending by total with stable ties, so "first
	// encountered" is deterministic across passes.
	for _, ct := range current {
		prev := prevTotals[ct.Category]
		if prev == 0 {
			continue // no baseline, percent change is guarded to zero
		}
		increase := (ct.Total - prev) / prev * 100
		if increase <= h.IncreasePercent || ct.Total <= h.IncreaseNoiseFloor {
			continue
		}
		if !found || increase > bestIncrease {
			found = true
			bestCategory = ct.Category
			bestIncrease = increase
			bestTotal = ct.Total
		}
	}
	if !found {
		return model.InsightRecord{}, false
	}

	return model.InsightRecord{
		ID:       "spending_increase:" + bestCategory,
		Type:     model.InsightSpendingIncrease,
		Title:    fmt.Sprintf("%s spending is up %.1f%%", bestCategory, bestIncrease),
		Message: fmt.Sprintf("You spent %.2f on %s this month, a %.1f%% increase over last month.",
			bestTotal, bestCategory, bestIncrease),
		Priority:   model.PriorityMedium,
		Actionable: false,
		At:         now,
	}, true
}

// topCategory flags the largest current-month category when it dominates
// total spend.
func (h Heuristics) topCategory(expenses []model.ExpenseRecord, now time.Time) (model.InsightRecord, bool) {
	current := CategoryTotals(FilterByWindow(expenses, ThisMonth(now)))
	if len(current) == 0 {
		return model.InsightRecord{}, false
	}

	top := current[0]
	if top.Share <= h.TopCategoryShare {
		return model.InsightRecord{}, false
	}

	return model.InsightRecord{
		ID:       "top_category:" + top.Category,
		Type:     model.InsightTopCategory,
		Title:    top.Category + " leads your spending",
		Message: fmt.Sprintf("%s accounts for %.1f%% of this month's spending.",
			top.Category, top.Share*100),
		Priority:   model.PriorityLow,
		Actionable: false,
		At:         now,
	}, true
}

// savingsOpportunities checks the watch list over the trailing window and
// emits one insight per qualifying category. When nothing on the watch list
// qualifies it falls back to the single highest-average category overall,
// against the higher fallback threshold.
func (h Heuristics) savingsOpportunities(expenses []model.ExpenseRecord, now time.Time) []model.InsightRecord {
	months := h.TrailingMonths
	if months < 1 {
		months = 1
	}
	trailing := CategoryTotals(FilterByWindow(expenses, LastNMonths(now, months)))
	if len(trailing) == 0 {
		return nil
	}

	watched := make(map[string]bool, len(h.SavingsWatchlist))
	for _, c := range h.SavingsWatchlist {
		watched[c] = true
	}

	var insights []model.InsightRecord
	for _, ct := range trailing {
		if !watched[ct.Category] {
			continue
		}
		avg := ct.Total / float64(months)
		if avg <= h.SavingsMonthlyAvg || ct.Count <= h.SavingsMinTxCount {
			continue
		}
		insights = append(insights, model.InsightRecord{
			ID:       "savings_opportunity:" + ct.Category,
			Type:     model.InsightSavingsOpportunity,
			Title:    "Savings opportunity in " + ct.Category,
			Message: fmt.Sprintf("%s averages %.2f per month over the last %d months across %d transactions. Reviewing it could free up room.",
				ct.Category, avg, months, ct.Count),
			Priority:   model.PriorityMedium,
			Actionable: true,
			ActionRef:  "categories",
			At:         now,
		})
	}
	if len(insights) > 0 {
		return insights
	}

	// Fallback: the single highest trailing average, any category.
	top := trailing[0]
	avg := top.Total / float64(months)
	if avg <= h.SavingsFallbackAvg {
		return nil
	}
	return []model.InsightRecord{{
		ID:       "savings_opportunity:" + top.Category,
		Type:     model.InsightSavingsOpportunity,
		Title:    "Your biggest recurring spend is " + top.Category,
		Message: fmt.Sprintf("%s averages %.2f per month over the last %d months — your largest category.",
			top.Category, avg, months),
		Priority:   model.PriorityLow,
		Actionable: true,
		ActionRef:  "categories",
		At:         now,
	}}
}
