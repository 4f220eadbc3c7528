package daemon

import (
	"math"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mbh206/aifinacker/internal/analytics"
	"github.com/mbh206/aifinacker/internal/model"
	"github.com/mbh206/aifinacker/internal/store"
)

func openTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "records.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	s := New(Config{
		DBPath:     "test",
		Months:     6,
		Interval:   10 * time.Second,
		Heuristics: analytics.DefaultHeuristics(),
	}, db)
	return s, db
}

func TestDiffSnapshots(t *testing.T) {
	prev := Snapshot{
		Expenses:   40,
		TotalSpent: 1200.50,
		OverBudget: 0,
		Insights:   2,
	}
	curr := Snapshot{
		Expenses:   45,
		TotalSpent: 1450.00,
		OverBudget: 1,
		Insights:   3,
	}

	delta := diffSnapshots(prev, curr)
	if delta.Expenses != 5 {
		t.Fatalf("Expenses delta = %d, want 5", delta.Expenses)
	}
	if math.Abs(delta.TotalSpent-249.50) > 1e-9 {
		t.Fatalf("TotalSpent delta = %.2f, want 249.50", delta.TotalSpent)
	}
	if delta.OverBudget != 1 {
		t.Fatalf("OverBudget delta = %d, want 1", delta.OverBudget)
	}
	if delta.isZero() {
		t.Fatal("delta unexpectedly reported as zero")
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	s, _ := openTestService(t)
	s.cfg.EventsBuffer = 2

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestPollOnce_SeedsSnapshot(t *testing.T) {
	s, db := openTestService(t)

	now := time.Now()
	if err := db.SaveExpenses([]model.ExpenseRecord{
		{ID: "e1", Amount: 120, Category: "Food", Date: now.AddDate(0, 0, -1)},
		{ID: "e2", Amount: 80, Category: "Transport", Date: now.AddDate(0, 0, -2)},
	}); err != nil {
		t.Fatal(err)
	}

	s.pollOnce()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.hasSnapshot {
		t.Fatal("expected a snapshot after first poll")
	}
	if s.snapshot.Expenses != 2 {
		t.Errorf("Expenses = %d, want 2", s.snapshot.Expenses)
	}
	if math.Abs(s.snapshot.TotalSpent-200) > 1e-9 {
		t.Errorf("TotalSpent = %v, want 200", s.snapshot.TotalSpent)
	}
	if s.snapshot.TopCategory != "Food" {
		t.Errorf("TopCategory = %q, want Food", s.snapshot.TopCategory)
	}
	if len(s.events) != 1 || s.events[0].Type != "snapshot" {
		t.Errorf("expected one seed snapshot event, got %+v", s.events)
	}
}

func TestPollOnce_SkipsWhenUnchanged(t *testing.T) {
	s, db := openTestService(t)

	if err := db.SaveExpense(model.ExpenseRecord{
		ID: "e1", Amount: 50, Category: "Food", Date: time.Now(),
	}); err != nil {
		t.Fatal(err)
	}

	s.pollOnce()
	s.pollOnce()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.pollCount != 2 {
		t.Errorf("pollCount = %d, want 2", s.pollCount)
	}
	// Second poll sees the same revision and must not emit another event.
	if len(s.events) != 1 {
		t.Errorf("events = %d, want 1", len(s.events))
	}
}

func TestPollOnce_EmitsDeltaOnNewRecords(t *testing.T) {
	s, db := openTestService(t)

	now := time.Now()
	if err := db.SaveExpense(model.ExpenseRecord{
		ID: "e1", Amount: 50, Category: "Food", Date: now,
	}); err != nil {
		t.Fatal(err)
	}
	s.pollOnce()

	if err := db.SaveExpense(model.ExpenseRecord{
		ID: "e2", Amount: 75, Category: "Food", Date: now,
	}); err != nil {
		t.Fatal(err)
	}
	s.pollOnce()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events = %d, want 2", len(s.events))
	}
	last := s.events[1]
	if last.Type != "records_delta" {
		t.Errorf("event type = %q, want records_delta", last.Type)
	}
	if last.Delta.Expenses != 1 {
		t.Errorf("Expenses delta = %d, want 1", last.Delta.Expenses)
	}
	if math.Abs(last.Delta.TotalSpent-75) > 1e-9 {
		t.Errorf("TotalSpent delta = %v, want 75", last.Delta.TotalSpent)
	}
}

func TestHandleStatus(t *testing.T) {
	s, db := openTestService(t)

	if err := db.SaveBudget(model.BudgetRecord{
		ID:        "b1",
		Name:      "Food May",
		Category:  "Food",
		Amount:    500,
		Recurring: model.RecurringMonthly,
		StartDate: time.Now().AddDate(0, 0, -10),
		EndDate:   time.Now().AddDate(0, 0, 10),
		IsActive:  true,
	}); err != nil {
		t.Fatal(err)
	}
	s.pollOnce()

	rr := httptest.NewRecorder()
	s.handleStatus(rr, httptest.NewRequest("GET", "/v1/status", nil))

	if rr.Code != 200 {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{`"poll_count":1`, `"active_budgets":1`} {
		if !strings.Contains(body, want) {
			t.Errorf("status body missing %s: %s", want, body)
		}
	}
}

func TestHandleBudgets(t *testing.T) {
	s, db := openTestService(t)

	now := time.Now()
	if err := db.SaveBudget(model.BudgetRecord{
		ID:        "b1",
		Name:      "Food",
		Category:  "Food",
		Amount:    100,
		Recurring: model.RecurringMonthly,
		StartDate: now.AddDate(0, 0, -5),
		EndDate:   now.AddDate(0, 0, 5),
		IsActive:  true,
	}); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveExpense(model.ExpenseRecord{
		ID: "e1", Amount: 120, Category: "Food", Date: now,
	}); err != nil {
		t.Fatal(err)
	}
	s.pollOnce()

	rr := httptest.NewRecorder()
	s.handleBudgets(rr, httptest.NewRequest("GET", "/v1/budgets", nil))

	body := rr.Body.String()
	if !strings.Contains(body, `"status":"Over Budget"`) {
		t.Errorf("budgets body missing over-budget status: %s", body)
	}
	if !strings.Contains(body, `"percent_used":120`) {
		t.Errorf("budgets body missing percent_used: %s", body)
	}
}
