// Package aggregator flattens nested cost/usage reports into grouped line items.
package aggregator

import (
	"math"

	"github.com/diillson/cost-report-dashboard-go/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Params são os parâmetros de Collect.
type Params struct {
	Report *entity.Report
	IDKey  entity.Dimension
	// LabelKey defaults to IDKey.
	LabelKey entity.Dimension
	// SortKey defaults to total.
	SortKey entity.SortKey
	// SortDirection defaults to ascending.
	SortDirection entity.SortDirection
}

// Collect aggregates the report by IDKey and returns the items stably sorted
// by SortKey.
func Collect(params Params) []entity.ComputedReportItem {
	sortKey := params.SortKey
	if sortKey == "" {
		sortKey = entity.SortKeyTotal
	}
	direction := params.SortDirection
	if direction == "" {
		direction = entity.SortAsc
	}

	items := CollectUnsorted(params.Report, params.IDKey, params.LabelKey)
	Sort(items, sortKey, direction)
	return items
}

// CollectUnsorted aggregates every Value reachable from report.Data by the
// idKey dimension. Items come back in the order their id was first seen.
// A nil report yields an empty slice.
func CollectUnsorted(report *entity.Report, idKey, labelKey entity.Dimension) []entity.ComputedReportItem {
	if report == nil {
		return []entity.ComputedReportItem{}
	}
	if labelKey == "" {
		labelKey = idKey
	}

	acc := newAccumulator(idKey, labelKey)
	for _, dp := range report.Data {
		acc.visit(dp)
	}
	return acc.items()
}

// accumulator is owned by a single CollectUnsorted call.
type accumulator struct {
	idKey    entity.Dimension
	labelKey entity.Dimension
	index    map[string]int
	order    []entity.ComputedReportItem
	totals   []sum
}

// sum adds totals exactly while they are finite. Once a NaN or Inf shows
// up the group switches to float arithmetic and the value propagates.
type sum struct {
	exact   decimal.Decimal
	float   float64
	inexact bool
}

func (s *sum) add(v float64) {
	if !s.inexact && (math.IsNaN(v) || math.IsInf(v, 0)) {
		s.float = s.exact.InexactFloat64()
		s.inexact = true
	}
	if s.inexact {
		s.float += v
		return
	}
	s.exact = s.exact.Add(decimal.NewFromFloat(v))
}

func (s sum) value() float64 {
	if s.inexact {
		return s.float
	}
	return s.exact.InexactFloat64()
}

func newAccumulator(idKey, labelKey entity.Dimension) *accumulator {
	return &accumulator{
		idKey:    idKey,
		labelKey: labelKey,
		index:    make(map[string]int),
	}
}

func (a *accumulator) visit(dp entity.DataPoint) {
	for _, v := range dp.Values {
		a.add(v)
	}
	for _, group := range dp.Groups() {
		for _, child := range group {
			a.visit(child)
		}
	}
}

func (a *accumulator) add(v entity.Value) {
	id := v.Field(a.idKey)

	if i, ok := a.index[id]; ok {
		// units, label and deltas stay as first seen
		a.totals[i].add(v.Total)
		return
	}

	label := v.Field(a.labelKey)
	if a.labelKey == entity.DimensionAccount && v.AccountAlias != "" {
		label = v.AccountAlias
	}

	a.index[id] = len(a.order)
	a.order = append(a.order, entity.ComputedReportItem{
		ID:           id,
		Label:        label,
		Units:        v.Units,
		DeltaPercent: v.DeltaPercent,
		DeltaValue:   v.DeltaValue,
	})
	var total sum
	total.add(v.Total)
	a.totals = append(a.totals, total)
}

func (a *accumulator) items() []entity.ComputedReportItem {
	out := make([]entity.ComputedReportItem, len(a.order))
	for i, item := range a.order {
		item.Total = a.totals[i].value()
		out[i] = item
	}
	return out
}

// ResolveGroupingKey returns the dimension a group_by filter groups on.
// Precedence is account, instance_type, region, service; anything else is date.
func ResolveGroupingKey(groupBy entity.GroupBy) entity.Dimension {
	for _, d := range entity.GroupingDimensions {
		if _, ok := groupBy[string(d)]; ok {
			return d
		}
	}
	return entity.DimensionDate
}
