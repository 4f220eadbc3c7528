package analytics

import (
	"time"

	"github.com/mbh206/aifinacker/internal/model"
)

// Classification thresholds, in percent of the budget amount. These are the
// behavioral contract of the evaluator; presentation layers assume them.
const (
	ThresholdOverBudget = 100.0
	ThresholdNearLimit  = 90.0
	ThresholdOnTrack    = 75.0
)

// Evaluate computes spent/remaining/percent-used for one budget against the
// full expense snapshot and classifies it. Expenses count when their date
// falls inside the budget window (bounds inclusive) and the category
// matches (or the budget covers All).
func Evaluate(budget model.BudgetRecord, expenses []model.ExpenseRecord, now time.Time) model.BudgetStatus {
	window := Window{Start: budget.StartDate, End: budget.EndDate}

	var matching []model.ExpenseRecord
	var spent float64
	for _, e := range expenses {
		if !window.Contains(e.Date) || !budget.Matches(e) {
			continue
		}
		matching = append(matching, e)
		spent += e.Amount
	}

	remaining := budget.Amount - spent
	if remaining < 0 {
		remaining = 0
	}

	// Guard: a zero-amount budget reports 0% rather than dividing by zero.
	var percentUsed float64
	if budget.Amount > 0 {
		percentUsed = spent / budget.Amount * 100
	}

	return model.BudgetStatus{
		Budget:      budget,
		Spent:       spent,
		Remaining:   remaining,
		PercentUsed: percentUsed,
		Status:      classify(budget, percentUsed, now),
		Matching:    matching,
	}
}

// classify applies the status rules in priority order, first match wins.
func classify(budget model.BudgetRecord, percentUsed float64, now time.Time) model.BudgetStatusKind {
	switch {
	case budget.ExpiredAt(now):
		return model.StatusExpired
	case percentUsed >= ThresholdOverBudget:
		return model.StatusOverBudget
	case percentUsed >= ThresholdNearLimit:
		return model.StatusNearLimit
	case percentUsed >= ThresholdOnTrack:
		return model.StatusOnTrack
	default:
		return model.StatusUnderBudget
	}
}

// EvaluateAll evaluates every budget against the same snapshot and instant.
func EvaluateAll(budgets []model.BudgetRecord, expenses []model.ExpenseRecord, now time.Time) []model.BudgetStatus {
	statuses := make([]model.BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		statuses = append(statuses, Evaluate(b, expenses, now))
	}
	return statuses
}

// Portfolio rolls up the budgets that are active at now: merely non-expired
// budgets do not count.
func Portfolio(budgets []model.BudgetRecord, expenses []model.ExpenseRecord, now time.Time) model.PortfolioStats {
	var stats model.PortfolioStats
	for _, b := range budgets {
		if !b.ActiveAt(now) {
			continue
		}
		status := Evaluate(b, expenses, now)
		stats.ActiveBudgets++
		stats.TotalBudgeted += b.Amount
		stats.TotalSpent += status.Spent
		if status.Status == model.StatusOverBudget {
			stats.OverBudget++
		}
	}
	return stats
}
