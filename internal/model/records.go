// Package model defines domain types for aifinacker records and derived analytics.
package model

import "time"

// CategoryAll is the budget category sentinel that matches every expense.
const CategoryAll = "All"

// ExpenseRecord is one recorded expense, normalized to the account's base
// currency before it reaches any analytics code.
type ExpenseRecord struct {
	ID        string
	AccountID string

	// Amount is in the account base currency, always >= 0.
	Amount float64

	// Original triple, kept for display when the expense was entered in a
	// foreign currency. Zero values when no conversion happened.
	OriginalAmount   float64
	OriginalCurrency string
	ExchangeRate     float64

	Category    string
	Subcategory string
	Date        time.Time
	Description string
	Tags        []string
}

// RecurringPeriod is the repeat cadence of a recurring budget.
type RecurringPeriod string

const (
	RecurringNone    RecurringPeriod = ""
	RecurringMonthly RecurringPeriod = "monthly"
	RecurringYearly  RecurringPeriod = "yearly"
)

// BudgetRecord is a spending ceiling for a category (or CategoryAll) over
// a date window.
type BudgetRecord struct {
	ID        string
	AccountID string
	Name      string
	Category  string // specific category key, or CategoryAll
	Amount    float64
	StartDate time.Time
	EndDate   time.Time
	Notes     string
	IsActive  bool
	Recurring RecurringPeriod
}

// ActiveAt reports whether the budget is active at the given instant.
func (b BudgetRecord) ActiveAt(now time.Time) bool {
	return b.IsActive && !now.Before(b.StartDate) && !now.After(b.EndDate)
}

// ExpiredAt reports whether the budget's window has fully elapsed.
func (b BudgetRecord) ExpiredAt(now time.Time) bool {
	return now.After(b.EndDate)
}

// Matches reports whether an expense counts against this budget's category.
func (b BudgetRecord) Matches(e ExpenseRecord) bool {
	return b.Category == CategoryAll || b.Category == e.Category
}
