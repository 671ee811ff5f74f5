package aggregator

import (
	"cmp"
	"slices"

	"github.com/diillson/cost-report-dashboard-go/internal/domain/entity"
)

// Sort orders items in place by key. The sort is stable: items comparing
// equal keep their relative order in both directions. Missing deltas sort
// before any present value.
func Sort(items []entity.ComputedReportItem, key entity.SortKey, direction entity.SortDirection) {
	compare := comparator(key)
	if direction == entity.SortDesc {
		slices.SortStableFunc(items, func(a, b entity.ComputedReportItem) int {
			return compare(b, a)
		})
		return
	}
	slices.SortStableFunc(items, compare)
}

func comparator(key entity.SortKey) func(a, b entity.ComputedReportItem) int {
	switch key {
	case entity.SortKeyID:
		return func(a, b entity.ComputedReportItem) int { return cmp.Compare(a.ID, b.ID) }
	case entity.SortKeyLabel:
		return func(a, b entity.ComputedReportItem) int { return cmp.Compare(a.Label, b.Label) }
	case entity.SortKeyUnits:
		return func(a, b entity.ComputedReportItem) int { return cmp.Compare(a.Units, b.Units) }
	case entity.SortKeyDeltaPercent:
		return func(a, b entity.ComputedReportItem) int { return compareOptional(a.DeltaPercent, b.DeltaPercent) }
	case entity.SortKeyDeltaValue:
		return func(a, b entity.ComputedReportItem) int { return compareOptional(a.DeltaValue, b.DeltaValue) }
	default:
		return func(a, b entity.ComputedReportItem) int { return cmp.Compare(a.Total, b.Total) }
	}
}

func compareOptional(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return cmp.Compare(*a, *b)
	}
}
