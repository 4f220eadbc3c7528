package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/mbh206/aifinacker/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "records.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestExpenseRoundTrip(t *testing.T) {
	s := openTestStore(t)

	e := model.ExpenseRecord{
		ID:               "e1",
		AccountID:        "acc1",
		Amount:           42.5,
		OriginalAmount:   39.0,
		OriginalCurrency: "EUR",
		ExchangeRate:     1.0897,
		Category:         "Food",
		Subcategory:      "Groceries",
		Date:             time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Description:      "weekly shop",
		Tags:             []string{"recurring", "supermarket"},
	}

	if err := s.SaveExpense(e); err != nil {
		t.Fatalf("SaveExpense: %v", err)
	}

	got, err := s.ListExpenses()
	if err != nil {
		t.Fatalf("ListExpenses: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d expenses, want 1", len(got))
	}

	g := got[0]
	if g.ID != e.ID || g.Amount != e.Amount || g.Category != e.Category {
		t.Errorf("round trip mismatch: %+v", g)
	}
	if g.OriginalCurrency != "EUR" || g.ExchangeRate != 1.0897 {
		t.Errorf("original triple lost: %+v", g)
	}
	if !g.Date.Equal(e.Date) {
		t.Errorf("Date = %v, want %v", g.Date, e.Date)
	}
	if len(g.Tags) != 2 || g.Tags[0] != "recurring" {
		t.Errorf("Tags = %v, want [recurring supermarket]", g.Tags)
	}
}

func TestSaveExpenses_Batch(t *testing.T) {
	s := openTestStore(t)

	batch := []model.ExpenseRecord{
		{ID: "e1", Amount: 10, Category: "Food", Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{ID: "e2", Amount: 20, Category: "Travel", Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	if err := s.SaveExpenses(batch); err != nil {
		t.Fatalf("SaveExpenses: %v", err)
	}

	got, err := s.ListExpenses()
	if err != nil {
		t.Fatalf("ListExpenses: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d expenses, want 2", len(got))
	}
	// Listed oldest first.
	if got[0].ID != "e2" {
		t.Errorf("first listed = %s, want e2 (earlier date)", got[0].ID)
	}
}

func TestBudgetRoundTrip(t *testing.T) {
	s := openTestStore(t)

	b := model.BudgetRecord{
		ID:        "b1",
		Name:      "Food for March",
		Category:  "Food",
		Amount:    500,
		StartDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
		Recurring: model.RecurringMonthly,
	}

	if err := s.SaveBudget(b); err != nil {
		t.Fatalf("SaveBudget: %v", err)
	}

	got, err := s.ListBudgets()
	if err != nil {
		t.Fatalf("ListBudgets: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d budgets, want 1", len(got))
	}
	g := got[0]
	if g.Name != b.Name || g.Amount != 500 || !g.IsActive || g.Recurring != model.RecurringMonthly {
		t.Errorf("round trip mismatch: %+v", g)
	}

	if err := s.DeleteBudget("b1"); err != nil {
		t.Fatalf("DeleteBudget: %v", err)
	}
	_, budgets, err := s.Counts()
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if budgets != 0 {
		t.Errorf("budgets = %d after delete, want 0", budgets)
	}
}

func TestRevision_ChangesOnWrite(t *testing.T) {
	s := openTestStore(t)

	before, err := s.Revision()
	if err != nil {
		t.Fatalf("Revision: %v", err)
	}

	e := model.ExpenseRecord{ID: "e1", Amount: 5, Category: "Food", Date: time.Now()}
	if err := s.SaveExpense(e); err != nil {
		t.Fatalf("SaveExpense: %v", err)
	}

	after, err := s.Revision()
	if err != nil {
		t.Fatalf("Revision: %v", err)
	}
	if before == after {
		t.Error("revision unchanged after write")
	}
}
