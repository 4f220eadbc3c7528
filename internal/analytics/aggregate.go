package analytics

import (
	"sort"

	"github.com/mbh206/aifinacker/internal/model"
)

// OverflowKey labels the synthetic bucket that absorbs groups beyond the
// top K-1 in TopWithOverflow.
const OverflowKey = "Other"

// GroupTotals buckets expenses by keyFn and sums amounts per bucket.
// The result is sorted by total descending; ties keep first-encounter order
// so repeated runs over the same snapshot are bit-identical.
func GroupTotals(expenses []model.ExpenseRecord, keyFn func(model.ExpenseRecord) string) []model.CategoryTotal {
	totals := make(map[string]*model.CategoryTotal)
	order := make(map[string]int)
	var grand float64

	for _, e := range expenses {
		key := keyFn(e)
		ct, ok := totals[key]
		if !ok {
			ct = &model.CategoryTotal{Category: key}
			totals[key] = ct
			order[key] = len(order)
		}
		ct.Total += e.Amount
		ct.Count++
		grand += e.Amount
	}

	groups := make([]model.CategoryTotal, 0, len(totals))
	for _, ct := range totals {
		if grand > 0 {
			ct.Share = ct.Total / grand
		}
		groups = append(groups, *ct)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Total != groups[j].Total {
			return groups[i].Total > groups[j].Total
		}
		return order[groups[i].Category] < order[groups[j].Category]
	})

	return groups
}

// CategoryTotals groups expenses by category.
func CategoryTotals(expenses []model.ExpenseRecord) []model.CategoryTotal {
	return GroupTotals(expenses, func(e model.ExpenseRecord) string { return e.Category })
}

// TopWithOverflow keeps the k-1 largest groups and folds the remainder into
// a trailing "Other" entry, so the visible result has exactly k entries
// whenever overflow occurred. The sum of all returned totals equals the sum
// of the input totals for any k. k <= 1 still yields the top entry plus an
// Other bucket when more than one group exists.
func TopWithOverflow(groups []model.CategoryTotal, k int) []model.CategoryTotal {
	if len(groups) <= k || len(groups) <= 1 {
		return groups
	}

	keep := k - 1
	if keep < 1 {
		keep = 1
	}

	result := make([]model.CategoryTotal, 0, keep+1)
	result = append(result, groups[:keep]...)

	other := model.CategoryTotal{Category: OverflowKey}
	for _, g := range groups[keep:] {
		other.Total += g.Total
		other.Count += g.Count
		other.Share += g.Share
	}
	return append(result, other)
}

// TotalSpent sums expense amounts.
func TotalSpent(expenses []model.ExpenseRecord) float64 {
	var sum float64
	for _, e := range expenses {
		sum += e.Amount
	}
	return sum
}
