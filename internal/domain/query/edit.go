package query

import (
	"github.com/diillson/cost-report-dashboard-go/internal/domain/entity"
)

// AddFilter narrows a group_by dimension to include value.
// A "*" selector becomes [value]; an absent dimension is added as [value].
func AddFilter(q entity.Query, dimension, value string) entity.Query {
	out := q.Clone()
	if out.GroupBy == nil {
		out.GroupBy = entity.GroupBy{}
	}

	current, ok := out.GroupBy[dimension]
	switch {
	case !ok || len(current) == 0 || current.IsAll():
		out.GroupBy[dimension] = entity.Selector{value}
	case !current.Contains(value):
		out.GroupBy[dimension] = append(current, value)
	}
	return out
}

// RemoveFilter drops value from a group_by dimension. An empty value, or a
// dimension not holding a list of values, resets the dimension to "*".
func RemoveFilter(q entity.Query, dimension, value string) entity.Query {
	out := q.Clone()
	if out.GroupBy == nil {
		out.GroupBy = entity.GroupBy{}
	}

	current := out.GroupBy[dimension]
	if value == "" || len(current) == 0 || current.IsAll() {
		out.GroupBy[dimension] = entity.Selector{entity.SelectAll}
		return out
	}

	kept := make(entity.Selector, 0, len(current))
	for _, v := range current {
		if v != value {
			kept = append(kept, v)
		}
	}
	out.GroupBy[dimension] = kept
	return out
}

// SetOrder replaces order_by with a single field.
func SetOrder(q entity.Query, field string, ascending bool) entity.Query {
	out := q.Clone()
	dir := entity.SortDesc
	if ascending {
		dir = entity.SortAsc
	}
	out.OrderBy = entity.OrderBy{field: dir}
	return out
}

// WithGroupBy switches the grouping dimension; order resets to total desc.
func WithGroupBy(q entity.Query, dimension entity.Dimension) entity.Query {
	out := q.Clone()
	out.GroupBy = entity.GroupBy{string(dimension): {entity.SelectAll}}
	out.OrderBy = entity.OrderBy{string(entity.SortKeyTotal): entity.SortDesc}
	return out
}

// SortField is a sortable column of the details view.
type SortField struct {
	ID        string
	Key       entity.SortKey
	IsNumeric bool
}

// SortFields returns the sortable columns for a grouping dimension, name
// column first. Accounts sort by alias under either column name. Date
// grouping has none.
func SortFields(groupBy entity.Dimension) []SortField {
	total := SortField{ID: string(entity.SortKeyTotal), Key: entity.SortKeyTotal, IsNumeric: true}
	switch groupBy {
	case entity.DimensionAccount:
		return []SortField{
			{ID: string(entity.DimensionAccountAlias), Key: entity.SortKeyLabel},
			{ID: string(entity.DimensionAccount), Key: entity.SortKeyLabel},
			total,
		}
	case entity.DimensionService, entity.DimensionRegion, entity.DimensionInstanceType:
		return []SortField{{ID: string(groupBy), Key: entity.SortKeyLabel}, total}
	default:
		return nil
	}
}

// SortFor resolves how the items of q should be ordered: the first sortable
// column named in order_by wins. Without a match the first sort field of the
// grouping applies, ascending; date grouping falls back to total, descending.
func SortFor(q entity.Query, groupBy entity.Dimension) (entity.SortKey, entity.SortDirection) {
	fields := SortFields(groupBy)
	for _, f := range fields {
		if dir, ok := q.OrderBy[f.ID]; ok {
			return f.Key, dir
		}
	}
	if dir, ok := q.OrderBy[string(entity.SortKeyTotal)]; ok {
		return entity.SortKeyTotal, dir
	}
	if len(fields) > 0 {
		return fields[0].Key, entity.SortAsc
	}
	return entity.SortKeyTotal, entity.SortDesc
}
