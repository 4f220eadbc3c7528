package analytics

import (
	"math"
	"sort"
	"testing"
	"time"

	"github.com/mbh206/aifinacker/internal/model"
)

func TestMonthlySeries_SortedFromUnorderedInput(t *testing.T) {
	expenses := []model.ExpenseRecord{
		expenseOn(day(2024, time.March, 5), "Food", 30),
		expenseOn(day(2024, time.January, 5), "Food", 10),
		expenseOn(day(2024, time.February, 5), "Food", 20),
		expenseOn(day(2024, time.January, 20), "Travel", 15),
	}

	got := MonthlySeries(expenses, Window{})

	if len(got) != 3 {
		t.Fatalf("got %d points, want 3", len(got))
	}
	if !sort.SliceIsSorted(got, func(i, j int) bool { return got[i].MonthKey < got[j].MonthKey }) {
		t.Error("series is not sorted by month key")
	}

	wantKeys := []string{"2024-01", "2024-02", "2024-03"}
	wantAmounts := []float64{25, 20, 30}
	wantLabels := []string{"Jan 2024", "Feb 2024", "Mar 2024"}
	for i := range got {
		if got[i].MonthKey != wantKeys[i] {
			t.Errorf("point %d key = %s, want %s", i, got[i].MonthKey, wantKeys[i])
		}
		if got[i].Amount != wantAmounts[i] {
			t.Errorf("point %d amount = %.2f, want %.2f", i, got[i].Amount, wantAmounts[i])
		}
		if got[i].Label != wantLabels[i] {
			t.Errorf("point %d label = %s, want %s", i, got[i].Label, wantLabels[i])
		}
	}
}

func TestMonthlySeries_AppliesWindow(t *testing.T) {
	expenses := []model.ExpenseRecord{
		expenseOn(day(2023, time.December, 5), "Food", 99),
		expenseOn(day(2024, time.January, 5), "Food", 10),
	}

	w := Window{Start: day(2024, time.January, 1)}
	got := MonthlySeries(expenses, w)
	if len(got) != 1 || got[0].MonthKey != "2024-01" {
		t.Fatalf("window not applied: got %+v", got)
	}
}

func TestMovingAverage_DegradesToRawValueEarly(t *testing.T) {
	series := []model.MonthlyPoint{
		{MonthKey: "2024-01", Amount: 100},
		{MonthKey: "2024-02", Amount: 200},
		{MonthKey: "2024-03", Amount: 300},
		{MonthKey: "2024-04", Amount: 400},
	}

	got := MovingAverage(series, 3)

	want := []float64{100, 200, 200, 300}
	for i := range got {
		if got[i].Trend != want[i] {
			t.Errorf("trend[%d] = %.2f, want %.2f", i, got[i].Trend, want[i])
		}
	}

	// Input untouched.
	for i := range series {
		if series[i].Trend != 0 {
			t.Error("MovingAverage mutated its input")
		}
	}
}

func TestMonthOverMonthChange(t *testing.T) {
	tests := []struct {
		name    string
		amounts []float64
		want    float64
	}{
		{"increase", []float64{200, 300}, 50},
		{"decrease", []float64{300, 150}, -50},
		{"zero previous guards to zero", []float64{0, 500}, 0},
		{"single point", []float64{100}, 0},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series := make([]model.MonthlyPoint, len(tt.amounts))
			for i, a := range tt.amounts {
				series[i] = model.MonthlyPoint{Amount: a}
			}
			got := MonthOverMonthChange(series)
			if math.IsNaN(got) || math.IsInf(got, 0) {
				t.Fatalf("change = %v, want finite", got)
			}
			if got != tt.want {
				t.Errorf("change = %.2f, want %.2f", got, tt.want)
			}
		})
	}
}

func TestCategorySeries_TopNOmitsWithoutFolding(t *testing.T) {
	expenses := []model.ExpenseRecord{
		expenseOn(day(2024, time.January, 5), "Rent", 1000),
		expenseOn(day(2024, time.February, 5), "Rent", 1000),
		expenseOn(day(2024, time.January, 6), "Food", 300),
		expenseOn(day(2024, time.February, 6), "Food", 350),
		expenseOn(day(2024, time.January, 7), "Trinkets", 5),
	}

	got := CategorySeries(expenses, Window{}, 2)

	if len(got) != 2 {
		t.Fatalf("got %d categories, want top 2", len(got))
	}
	if got[0].Category != "Rent" || got[1].Category != "Food" {
		t.Errorf("categories = [%s %s], want [Rent Food]", got[0].Category, got[1].Category)
	}
	for _, cm := range got {
		if cm.Category == OverflowKey {
			t.Error("category series must not contain an Other bucket")
		}
		if len(cm.Points) != 2 {
			t.Errorf("%s has %d points, want 2", cm.Category, len(cm.Points))
		}
	}
}

func TestCategorySeries_EmptyInput(t *testing.T) {
	if got := CategorySeries(nil, Window{}, 5); got != nil {
		t.Errorf("empty input should return nil, got %d entries", len(got))
	}
}
