package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/mbh206/aifinacker/internal/model"
)

func categorized(amounts map[string][]float64) []model.ExpenseRecord {
	base := day(2024, time.January, 10)
	var expenses []model.ExpenseRecord
	for _, cat := range []string{"Food", "Travel", "Rent", "Fun", "Gifts", "Pets", "Books", "Tools"} {
		for i, amt := range amounts[cat] {
			expenses = append(expenses, expenseOn(base.AddDate(0, 0, i), cat, amt))
		}
	}
	return expenses
}

func TestCategoryTotals_SortedDescending(t *testing.T) {
	expenses := categorized(map[string][]float64{
		"Food":   {10, 20},
		"Travel": {100},
		"Rent":   {50},
	})

	got := CategoryTotals(expenses)

	want := []struct {
		category string
		total    float64
		count    int
	}{
		{"Travel", 100, 1},
		{"Rent", 50, 1},
		{"Food", 30, 2},
	}

	if len(got) != len(want) {
		t.Fatalf("got %d groups, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Category != w.category || got[i].Total != w.total || got[i].Count != w.count {
			t.Errorf("group %d = {%s %.0f %d}, want {%s %.0f %d}",
				i, got[i].Category, got[i].Total, got[i].Count, w.category, w.total, w.count)
		}
	}

	var shareSum float64
	for _, g := range got {
		shareSum += g.Share
	}
	if math.Abs(shareSum-1) > 1e-9 {
		t.Errorf("shares sum to %f, want 1", shareSum)
	}
}

func TestCategoryTotals_TieKeepsFirstEncountered(t *testing.T) {
	expenses := []model.ExpenseRecord{
		expenseOn(day(2024, time.January, 1), "Zeta", 50),
		expenseOn(day(2024, time.January, 2), "Alpha", 50),
	}

	got := CategoryTotals(expenses)
	if got[0].Category != "Zeta" {
		t.Errorf("tie broken to %s, want first-encountered Zeta", got[0].Category)
	}
}

func TestCategoryTotals_EmptyInput(t *testing.T) {
	if got := CategoryTotals(nil); len(got) != 0 {
		t.Errorf("empty input should return empty list, got %d entries", len(got))
	}
}

func TestTopWithOverflow_FoldsRemainderIntoOther(t *testing.T) {
	// Eight categories, k=6: exactly 6 entries, the last labeled Other and
	// holding the sum of ranks 6-8.
	expenses := categorized(map[string][]float64{
		"Food": {800}, "Travel": {700}, "Rent": {600}, "Fun": {500},
		"Gifts": {400}, "Pets": {300}, "Books": {200}, "Tools": {100},
	})
	groups := CategoryTotals(expenses)

	got := TopWithOverflow(groups, 6)
	if len(got) != 6 {
		t.Fatalf("got %d entries, want exactly 6", len(got))
	}
	last := got[5]
	if last.Category != OverflowKey {
		t.Errorf("last entry = %s, want %s", last.Category, OverflowKey)
	}
	if last.Total != 300+200+100 {
		t.Errorf("Other total = %.0f, want 600", last.Total)
	}
}

func TestTopWithOverflow_SumConservation(t *testing.T) {
	expenses := categorized(map[string][]float64{
		"Food": {80, 20}, "Travel": {75}, "Rent": {60}, "Fun": {55},
		"Gifts": {40}, "Pets": {30}, "Books": {20}, "Tools": {10},
	})
	groups := CategoryTotals(expenses)

	var inputSum float64
	for _, g := range groups {
		inputSum += g.Total
	}

	for k := 0; k <= len(groups)+2; k++ {
		var outSum float64
		for _, g := range TopWithOverflow(groups, k) {
			outSum += g.Total
		}
		if math.Abs(outSum-inputSum) > 1e-9 {
			t.Errorf("k=%d: output sum %.2f != input sum %.2f", k, outSum, inputSum)
		}
	}
}

func TestTopWithOverflow_SmallK(t *testing.T) {
	groups := CategoryTotals(categorized(map[string][]float64{
		"Food": {100}, "Travel": {50}, "Rent": {25},
	}))

	got := TopWithOverflow(groups, 1)
	if len(got) != 2 {
		t.Fatalf("k=1 over 3 groups should still give top + Other, got %d entries", len(got))
	}
	if got[0].Category != "Food" || got[1].Category != OverflowKey {
		t.Errorf("got [%s %s], want [Food Other]", got[0].Category, got[1].Category)
	}
	if got[1].Total != 75 {
		t.Errorf("Other total = %.0f, want 75", got[1].Total)
	}
}

func TestTopWithOverflow_NoFoldWhenFits(t *testing.T) {
	groups := CategoryTotals(categorized(map[string][]float64{
		"Food": {100}, "Travel": {50},
	}))

	got := TopWithOverflow(groups, 5)
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2 unchanged", len(got))
	}
	for _, g := range got {
		if g.Category == OverflowKey {
			t.Error("no Other bucket expected when everything fits")
		}
	}

	if got := TopWithOverflow(nil, 3); len(got) != 0 {
		t.Errorf("empty input should stay empty, got %d", len(got))
	}
}

func TestGroupTotals_Deterministic(t *testing.T) {
	expenses := categorized(map[string][]float64{
		"Food": {10, 20, 30}, "Travel": {60}, "Rent": {60},
	})

	first := CategoryTotals(expenses)
	for i := 0; i < 10; i++ {
		again := CategoryTotals(expenses)
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("run %d differed at group %d: %+v vs %+v", i, j, again[j], first[j])
			}
		}
	}
}
