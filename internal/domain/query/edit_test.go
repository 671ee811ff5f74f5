package query

import (
	"reflect"
	"testing"

	"github.com/diillson/cost-report-dashboard-go/internal/domain/entity"
)

func TestAddFilter(t *testing.T) {
	base := Default()

	q := AddFilter(base, "account", "111")
	if !reflect.DeepEqual(q.GroupBy["account"], entity.Selector{"111"}) {
		t.Fatalf("expected [111], got %v", q.GroupBy["account"])
	}
	if !base.GroupBy["account"].IsAll() {
		t.Fatal("input query must not be mutated")
	}

	q = AddFilter(q, "account", "222")
	q = AddFilter(q, "account", "222")
	if !reflect.DeepEqual(q.GroupBy["account"], entity.Selector{"111", "222"}) {
		t.Fatalf("expected [111 222], got %v", q.GroupBy["account"])
	}

	q = AddFilter(q, "region", "us-east-1")
	if !reflect.DeepEqual(q.GroupBy["region"], entity.Selector{"us-east-1"}) {
		t.Fatalf("expected region filter, got %v", q.GroupBy["region"])
	}
}

func TestRemoveFilter(t *testing.T) {
	q := AddFilter(AddFilter(Default(), "account", "111"), "account", "222")

	removed := RemoveFilter(q, "account", "111")
	if !reflect.DeepEqual(removed.GroupBy["account"], entity.Selector{"222"}) {
		t.Fatalf("expected [222], got %v", removed.GroupBy["account"])
	}
	if len(q.GroupBy["account"]) != 2 {
		t.Fatal("input query must not be mutated")
	}

	reset := RemoveFilter(q, "account", "")
	if !reset.GroupBy["account"].IsAll() {
		t.Fatalf("expected reset to *, got %v", reset.GroupBy["account"])
	}

	fromAll := RemoveFilter(Default(), "account", "111")
	if !fromAll.GroupBy["account"].IsAll() {
		t.Fatalf("expected * to stay *, got %v", fromAll.GroupBy["account"])
	}
}

func TestSetOrderAndWithGroupBy(t *testing.T) {
	q := SetOrder(Default(), "account_alias", true)
	if !reflect.DeepEqual(q.OrderBy, entity.OrderBy{"account_alias": entity.SortAsc}) {
		t.Fatalf("unexpected order_by %v", q.OrderBy)
	}

	q = WithGroupBy(q, entity.DimensionRegion)
	if !reflect.DeepEqual(q.GroupBy, entity.GroupBy{"region": {"*"}}) {
		t.Fatalf("unexpected group_by %v", q.GroupBy)
	}
	if q.OrderBy["total"] != entity.SortDesc || len(q.OrderBy) != 1 {
		t.Fatalf("expected order reset to total desc, got %v", q.OrderBy)
	}
}

func TestSortFor(t *testing.T) {
	cases := []struct {
		name    string
		orderBy entity.OrderBy
		groupBy entity.Dimension
		key     entity.SortKey
		dir     entity.SortDirection
	}{
		{"alias column", entity.OrderBy{"account_alias": entity.SortAsc}, entity.DimensionAccount, entity.SortKeyLabel, entity.SortAsc},
		{"service column", entity.OrderBy{"service": entity.SortDesc}, entity.DimensionService, entity.SortKeyLabel, entity.SortDesc},
		{"total", entity.OrderBy{"total": entity.SortAsc}, entity.DimensionRegion, entity.SortKeyTotal, entity.SortAsc},
		{"account column", entity.OrderBy{"account": entity.SortDesc}, entity.DimensionAccount, entity.SortKeyLabel, entity.SortDesc},
		{"foreign column", entity.OrderBy{"region": entity.SortDesc}, entity.DimensionAccount, entity.SortKeyLabel, entity.SortAsc},
		{"no order on names", nil, entity.DimensionService, entity.SortKeyLabel, entity.SortAsc},
		{"date grouping", entity.OrderBy{"total": entity.SortAsc}, entity.DimensionDate, entity.SortKeyTotal, entity.SortAsc},
		{"nothing", nil, entity.DimensionDate, entity.SortKeyTotal, entity.SortDesc},
	}

	for _, tc := range cases {
		key, dir := SortFor(entity.Query{OrderBy: tc.orderBy}, tc.groupBy)
		if key != tc.key || dir != tc.dir {
			t.Fatalf("%s: expected %s %s got %s %s", tc.name, tc.key, tc.dir, key, dir)
		}
	}
}
