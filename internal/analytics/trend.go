package analytics

import (
	"sort"
	"time"

	"github.com/mbh206/aifinacker/internal/model"
)

// DefaultMovingWindow is the trailing window used for trend smoothing.
const DefaultMovingWindow = 3

// MonthKey formats t as the "YYYY-MM" bucket key. The key sorts
// lexicographically in chronological order, which the series functions rely
// on instead of re-parsing dates.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

func monthLabel(key string) string {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return key
	}
	return t.Format("Jan 2006")
}

// MonthlySeries filters expenses to the window, buckets them by calendar
// month, and returns the series sorted ascending by month key.
func MonthlySeries(expenses []model.ExpenseRecord, w Window) []model.MonthlyPoint {
	filtered := FilterByWindow(expenses, w)

	buckets := make(map[string]float64)
	for _, e := range filtered {
		buckets[MonthKey(e.Date)] += e.Amount
	}

	series := make([]model.MonthlyPoint, 0, len(buckets))
	for key, amount := range buckets {
		series = append(series, model.MonthlyPoint{
			MonthKey: key,
			Label:    monthLabel(key),
			Amount:   amount,
		})
	}

	sort.Slice(series, func(i, j int) bool {
		return series[i].MonthKey < series[j].MonthKey
	})

	return series
}

// MovingAverage returns a copy of the series with the Trend field set to the
// trailing average over windowSize points. Points with insufficient history
// degrade to their own raw value; they are not back-filled from later data.
func MovingAverage(series []model.MonthlyPoint, windowSize int) []model.MonthlyPoint {
	if windowSize < 1 {
		windowSize = 1
	}

	out := make([]model.MonthlyPoint, len(series))
	copy(out, series)

	for i := range out {
		if i < windowSize-1 {
			out[i].Trend = out[i].Amount
			continue
		}
		var sum float64
		for j := i - windowSize + 1; j <= i; j++ {
			sum += out[j].Amount
		}
		out[i].Trend = sum / float64(windowSize)
	}

	return out
}

// MonthOverMonthChange returns the percent change between the last two
// points of the series. A zero previous amount returns 0 rather than Inf,
// and series shorter than two points have no change to report.
func MonthOverMonthChange(series []model.MonthlyPoint) float64 {
	if len(series) < 2 {
		return 0
	}
	prev := series[len(series)-2].Amount
	last := series[len(series)-1].Amount
	if prev == 0 {
		return 0
	}
	return (last - prev) / prev * 100
}

// CategorySeries returns per-month series for the topN categories by total
// spend over the window. Categories outside the top N are omitted, not
// folded into an Other bucket: the breakdown view draws one line per
// category and a synthetic catch-all line would mislead.
func CategorySeries(expenses []model.ExpenseRecord, w Window, topN int) []model.CategoryMonthly {
	filtered := FilterByWindow(expenses, w)
	if len(filtered) == 0 {
		return nil
	}

	top := CategoryTotals(filtered)
	if topN > 0 && len(top) > topN {
		top = top[:topN]
	}

	byCategory := make(map[string][]model.ExpenseRecord, len(top))
	for _, e := range filtered {
		byCategory[e.Category] = append(byCategory[e.Category], e)
	}

	result := make([]model.CategoryMonthly, 0, len(top))
	for _, ct := range top {
		result = append(result, model.CategoryMonthly{
			Category: ct.Category,
			// Window already applied above; bucket the remainder directly.
			Points: MonthlySeries(byCategory[ct.Category], Window{}),
		})
	}
	return result
}
