package model

import "time"

// BudgetStatusKind classifies how far along a budget is.
type BudgetStatusKind int

// Status buckets, ordered from best to worst. Expired sorts last because it
// is time-driven rather than spend-driven.
const (
	StatusUnderBudget BudgetStatusKind = iota
	StatusOnTrack
	StatusNearLimit
	StatusOverBudget
	StatusExpired
)

// String returns the human-readable status label.
func (k BudgetStatusKind) String() string {
	switch k {
	case StatusUnderBudget:
		return "Under Budget"
	case StatusOnTrack:
		return "On Track"
	case StatusNearLimit:
		return "Near Limit"
	case StatusOverBudget:
		return "Over Budget"
	case StatusExpired:
		return "Expired"
	default:
		return "Unknown"
	}
}

// BudgetStatus is the evaluated state of one budget at a point in time.
// It is derived on demand and never persisted.
type BudgetStatus struct {
	Budget      BudgetRecord
	Spent       float64
	Remaining   float64
	PercentUsed float64
	Status      BudgetStatusKind
	Matching    []ExpenseRecord
}

// PortfolioStats is the rollup across all active budgets.
type PortfolioStats struct {
	ActiveBudgets int
	TotalBudgeted float64
	TotalSpent    float64
	OverBudget    int
}

// CategoryTotal is one aggregation bucket: a grouping key and its summed amount.
type CategoryTotal struct {
	Category string
	Total    float64
	Count    int
	Share    float64 // fraction of the grand total, 0-1
}

// MonthlyPoint is one element of a chronologically sorted monthly series.
// MonthKey is "YYYY-MM", which sorts lexicographically in date order.
type MonthlyPoint struct {
	MonthKey string
	Label    string
	Amount   float64
	Trend    float64 // trailing moving average, filled by MovingAverage
}

// CategoryMonthly is one category's monthly series for the breakdown view.
type CategoryMonthly struct {
	Category string
	Points   []MonthlyPoint
}

// InsightType identifies the rule family that produced an insight.
type InsightType string

const (
	InsightOverBudget         InsightType = "over_budget"
	InsightSpendingIncrease   InsightType = "spending_increase"
	InsightTopCategory        InsightType = "top_category"
	InsightSavingsOpportunity InsightType = "savings_opportunity"
	InsightColdStart          InsightType = "cold_start"
)

// InsightPriority orders insights for display.
type InsightPriority int

const (
	PriorityLow InsightPriority = iota
	PriorityMedium
	PriorityHigh
)

func (p InsightPriority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	default:
		return "low"
	}
}

// InsightRecord is one generated insight. Insights are rebuilt from scratch
// on every analytics pass and never merged across passes.
type InsightRecord struct {
	ID         string
	Type       InsightType
	Title      string
	Message    string
	Priority   InsightPriority
	Actionable bool
	ActionRef  string
	At         time.Time
}
