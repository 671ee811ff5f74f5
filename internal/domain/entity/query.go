package entity

// SelectAll is the selector value meaning "every value of the dimension".
const SelectAll = "*"

// Selector holds the values selected for a group_by dimension.
// ["*"] selects everything.
type Selector []string

// IsAll reports whether the selector matches every value.
func (s Selector) IsAll() bool {
	return len(s) == 1 && s[0] == SelectAll
}

// Contains reports whether value is part of the selector.
func (s Selector) Contains(value string) bool {
	for _, v := range s {
		if v == value {
			return true
		}
	}
	return false
}

// GroupBy maps a dimension name to its selector.
type GroupBy map[string]Selector

// OrderBy maps a sortable field name to a direction.
type OrderBy map[string]SortDirection

// Filter contém o escopo temporal e a resolução do relatório.
type Filter struct {
	TimeScopeUnits string `json:"time_scope_units,omitempty" yaml:"time_scope_units,omitempty" toml:"time_scope_units,omitempty"`
	TimeScopeValue int    `json:"time_scope_value,omitempty" yaml:"time_scope_value,omitempty" toml:"time_scope_value,omitempty"`
	Resolution     string `json:"resolution,omitempty" yaml:"resolution,omitempty" toml:"resolution,omitempty"`
	Limit          int    `json:"limit,omitempty" yaml:"limit,omitempty" toml:"limit,omitempty"`
}

// Query describes what a report should contain and how to present it.
// A nil Delta means the query does not say; see DeltaEnabled.
type Query struct {
	Delta   *bool   `json:"delta,omitempty"`
	Filter  Filter  `json:"filter"`
	GroupBy GroupBy `json:"group_by,omitempty"`
	OrderBy OrderBy `json:"order_by,omitempty"`
}

// Clone returns a deep copy of the query.
func (q Query) Clone() Query {
	out := Query{Filter: q.Filter}
	if q.Delta != nil {
		out.Delta = Bool(*q.Delta)
	}
	if q.GroupBy != nil {
		out.GroupBy = make(GroupBy, len(q.GroupBy))
		for k, v := range q.GroupBy {
			out.GroupBy[k] = append(Selector(nil), v...)
		}
	}
	if q.OrderBy != nil {
		out.OrderBy = make(OrderBy, len(q.OrderBy))
		for k, v := range q.OrderBy {
			out.OrderBy[k] = v
		}
	}
	return out
}

// DeltaEnabled reports whether the previous period should be compared.
func (q Query) DeltaEnabled() bool {
	return q.Delta != nil && *q.Delta
}

// Bool returns a pointer to v.
func Bool(v bool) *bool {
	return &v
}
