// Package query parses, encodes and edits report queries expressed in the
// dashboard's bracketed query-string form, e.g.
//
//	delta=true&filter[resolution]=monthly&group_by[account]=*&order_by[total]=desc
package query

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/diillson/cost-report-dashboard-go/internal/domain/entity"
)

const (
	keyDelta   = "delta"
	keyFilter  = "filter"
	keyGroupBy = "group_by"
	keyOrderBy = "order_by"

	filterTimeScopeUnits = "time_scope_units"
	filterTimeScopeValue = "time_scope_value"
	filterResolution     = "resolution"
	filterLimit          = "limit"
)

// Default returns the base query of the details view.
func Default() entity.Query {
	return entity.Query{
		Delta: entity.Bool(true),
		Filter: entity.Filter{
			TimeScopeUnits: "month",
			TimeScopeValue: -1,
			Resolution:     "monthly",
		},
		GroupBy: entity.GroupBy{string(entity.DimensionAccount): {entity.SelectAll}},
		OrderBy: entity.OrderBy{string(entity.SortKeyTotal): entity.SortDesc},
	}
}

// Parse decodes a query string. A leading '?' is ignored.
func Parse(raw string) (entity.Query, error) {
	var q entity.Query
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "?")
	if raw == "" {
		return q, nil
	}

	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return entity.Query{}, fmt.Errorf("invalid query key %q: %w", rawKey, err)
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return entity.Query{}, fmt.Errorf("invalid query value for %q: %w", key, err)
		}

		name, sub := splitKey(key)
		switch name {
		case keyDelta:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return entity.Query{}, fmt.Errorf("invalid delta value %q", value)
			}
			q.Delta = entity.Bool(b)
		case keyFilter:
			if err := setFilter(&q.Filter, sub, value); err != nil {
				return entity.Query{}, err
			}
		case keyGroupBy:
			if sub == "" {
				return entity.Query{}, fmt.Errorf("group_by requires a dimension: %q", key)
			}
			if q.GroupBy == nil {
				q.GroupBy = entity.GroupBy{}
			}
			q.GroupBy[sub] = append(q.GroupBy[sub], value)
		case keyOrderBy:
			if sub == "" {
				return entity.Query{}, fmt.Errorf("order_by requires a field: %q", key)
			}
			dir := entity.SortDirection(strings.ToLower(value))
			if dir != entity.SortAsc && dir != entity.SortDesc {
				return entity.Query{}, fmt.Errorf("invalid order_by direction %q", value)
			}
			if q.OrderBy == nil {
				q.OrderBy = entity.OrderBy{}
			}
			q.OrderBy[sub] = dir
		}
	}

	return q, nil
}

// splitKey turns "group_by[account]" or "group_by[account][]" into
// ("group_by", "account").
func splitKey(key string) (string, string) {
	key = strings.TrimSuffix(key, "[]")
	open := strings.IndexByte(key, '[')
	if open < 0 || !strings.HasSuffix(key, "]") {
		return key, ""
	}
	return key[:open], key[open+1 : len(key)-1]
}

func setFilter(f *entity.Filter, name, value string) error {
	switch name {
	case filterTimeScopeUnits:
		f.TimeScopeUnits = value
	case filterTimeScopeValue:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid filter[time_scope_value] %q", value)
		}
		f.TimeScopeValue = n
	case filterResolution:
		f.Resolution = value
	case filterLimit:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid filter[limit] %q", value)
		}
		f.Limit = n
	}
	return nil
}

// Encode renders the query string with sorted keys so that equal queries
// produce equal strings.
func Encode(q entity.Query) string {
	var parts []string
	add := func(key, value string) {
		parts = append(parts, key+"="+escape(value))
	}

	if q.Delta != nil {
		add(keyDelta, strconv.FormatBool(*q.Delta))
	}
	if q.Filter.TimeScopeUnits != "" {
		add("filter[time_scope_units]", q.Filter.TimeScopeUnits)
	}
	if q.Filter.TimeScopeValue != 0 {
		add("filter[time_scope_value]", strconv.Itoa(q.Filter.TimeScopeValue))
	}
	if q.Filter.Resolution != "" {
		add("filter[resolution]", q.Filter.Resolution)
	}
	if q.Filter.Limit != 0 {
		add("filter[limit]", strconv.Itoa(q.Filter.Limit))
	}

	for _, dim := range sortedKeys(q.GroupBy) {
		for _, v := range q.GroupBy[dim] {
			add(fmt.Sprintf("group_by[%s]", dim), v)
		}
	}
	for _, field := range sortedKeys(q.OrderBy) {
		add(fmt.Sprintf("order_by[%s]", field), string(q.OrderBy[field]))
	}

	return strings.Join(parts, "&")
}

func escape(v string) string {
	if v == entity.SelectAll {
		return v
	}
	return url.QueryEscape(v)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Merge overlays a route query on a base query. Filter fields merge
// individually; delta, group_by and order_by are replaced when the override
// sets them.
func Merge(base, override entity.Query) entity.Query {
	out := base.Clone()
	if override.Delta != nil {
		out.Delta = entity.Bool(*override.Delta)
	}

	if override.Filter.TimeScopeUnits != "" {
		out.Filter.TimeScopeUnits = override.Filter.TimeScopeUnits
	}
	if override.Filter.TimeScopeValue != 0 {
		out.Filter.TimeScopeValue = override.Filter.TimeScopeValue
	}
	if override.Filter.Resolution != "" {
		out.Filter.Resolution = override.Filter.Resolution
	}
	if override.Filter.Limit != 0 {
		out.Filter.Limit = override.Filter.Limit
	}

	o := override.Clone()
	if len(o.GroupBy) > 0 {
		out.GroupBy = o.GroupBy
	}
	if len(o.OrderBy) > 0 {
		out.OrderBy = o.OrderBy
	}
	return out
}
