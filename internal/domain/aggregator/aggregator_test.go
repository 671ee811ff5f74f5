package aggregator

import (
	"math"
	"testing"

	"github.com/diillson/cost-report-dashboard-go/internal/domain/entity"
)

func ptr(v float64) *float64 { return &v }

func TestCollectUnsortedNilReport(t *testing.T) {
	items := CollectUnsorted(nil, entity.DimensionAccount, "")
	if items == nil {
		t.Fatal("expected empty non-nil slice")
	}
	if len(items) != 0 {
		t.Fatalf("expected no items, got %d", len(items))
	}
}

func TestCollectUnsortedEmptyReport(t *testing.T) {
	items := CollectUnsorted(&entity.Report{}, entity.DimensionAccount, "")
	if len(items) != 0 {
		t.Fatalf("expected no items, got %d", len(items))
	}
}

func TestCollectSumsSameAccountAcrossDataPoints(t *testing.T) {
	report := &entity.Report{
		Data: []entity.DataPoint{
			{Values: []entity.Value{{Account: "A", Total: 10, Units: "USD"}}},
			{Values: []entity.Value{{Account: "A", Total: 15, Units: "USD"}}},
		},
	}

	items := Collect(Params{Report: report, IDKey: entity.DimensionAccount})
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	got := items[0]
	if got.ID != "A" || got.Label != "A" || got.Total != 25 || got.Units != "USD" {
		t.Fatalf("unexpected item: %+v", got)
	}
}

func TestCollectDiscoversNestedValues(t *testing.T) {
	report := &entity.Report{
		Data: []entity.DataPoint{
			{Accounts: []entity.DataPoint{
				{Values: []entity.Value{{Account: "B", Total: 5}}},
			}},
		},
	}

	items := CollectUnsorted(report, entity.DimensionAccount, "")
	if len(items) != 1 || items[0].ID != "B" || items[0].Total != 5 {
		t.Fatalf("expected nested item B with total 5, got %+v", items)
	}
}

func TestCollectUnsortedTraversalOrder(t *testing.T) {
	// own values first, then services, accounts, instance_types, regions
	report := &entity.Report{
		Data: []entity.DataPoint{
			{
				Regions:       []entity.DataPoint{{Values: []entity.Value{{Service: "regions", Total: 1}}}},
				InstanceTypes: []entity.DataPoint{{Values: []entity.Value{{Service: "instance_types", Total: 1}}}},
				Accounts:      []entity.DataPoint{{Values: []entity.Value{{Service: "accounts", Total: 1}}}},
				Services: []entity.DataPoint{
					{Values: []entity.Value{{Service: "services", Total: 1}}},
					{Values: []entity.Value{{Service: "services-2", Total: 1}}},
				},
				Values: []entity.Value{{Service: "own", Total: 1}},
			},
		},
	}

	items := CollectUnsorted(report, entity.DimensionService, "")
	want := []string{"own", "services", "services-2", "accounts", "instance_types", "regions"}
	if len(items) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(items))
	}
	for i, id := range want {
		if items[i].ID != id {
			t.Fatalf("position %d: expected %q got %q", i, id, items[i].ID)
		}
	}
}

func TestCollectFirstSeenWinsForDeltasAndUnits(t *testing.T) {
	report := &entity.Report{
		Data: []entity.DataPoint{
			{
				Values: []entity.Value{{Service: "EC2", Total: 1, Units: "USD", DeltaPercent: ptr(10), DeltaValue: ptr(1)}},
				Regions: []entity.DataPoint{
					{Values: []entity.Value{{Service: "EC2", Total: 2, Units: "EUR", DeltaPercent: ptr(99), DeltaValue: ptr(99)}}},
				},
			},
		},
	}

	items := CollectUnsorted(report, entity.DimensionService, "")
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	got := items[0]
	if got.Total != 3 {
		t.Fatalf("expected total 3, got %v", got.Total)
	}
	if got.Units != "USD" {
		t.Fatalf("expected first units USD, got %s", got.Units)
	}
	if got.DeltaPercent == nil || *got.DeltaPercent != 10 {
		t.Fatalf("expected first delta percent 10, got %v", got.DeltaPercent)
	}
	if got.DeltaValue == nil || *got.DeltaValue != 1 {
		t.Fatalf("expected first delta value 1, got %v", got.DeltaValue)
	}
}

func TestCollectAccountAliasOverridesLabel(t *testing.T) {
	report := &entity.Report{
		Data: []entity.DataPoint{
			{Values: []entity.Value{
				{Account: "111", AccountAlias: "prod", Total: 1},
				{Account: "222", Total: 2},
			}},
		},
	}

	items := CollectUnsorted(report, entity.DimensionAccount, entity.DimensionAccount)
	labels := map[string]string{}
	for _, it := range items {
		labels[it.ID] = it.Label
	}
	if labels["111"] != "prod" {
		t.Fatalf("expected alias label prod, got %q", labels["111"])
	}
	if labels["222"] != "222" {
		t.Fatalf("expected label to equal id, got %q", labels["222"])
	}
}

func TestCollectAliasOverrideOnlyForAccountLabel(t *testing.T) {
	report := &entity.Report{
		Data: []entity.DataPoint{
			{Values: []entity.Value{{Account: "111", AccountAlias: "prod", Service: "S3", Total: 1}}},
		},
	}

	items := CollectUnsorted(report, entity.DimensionService, "")
	if items[0].Label != "S3" {
		t.Fatalf("expected label S3, got %q", items[0].Label)
	}
}

func TestCollectMissingIDFoldsIntoSingleGroup(t *testing.T) {
	report := &entity.Report{
		Data: []entity.DataPoint{
			{Values: []entity.Value{{Service: "a", Total: 1}, {Service: "b", Total: 2}}},
		},
	}

	items := CollectUnsorted(report, entity.DimensionRegion, "")
	if len(items) != 1 {
		t.Fatalf("expected a single group, got %d", len(items))
	}
	if items[0].ID != "" || items[0].Total != 3 {
		t.Fatalf("unexpected item: %+v", items[0])
	}
}

func TestCollectSumIsExact(t *testing.T) {
	report := &entity.Report{
		Data: []entity.DataPoint{
			{Values: []entity.Value{{Date: "d", Total: 0.1}, {Date: "d", Total: 0.2}}},
		},
	}

	items := CollectUnsorted(report, entity.DimensionDate, "")
	if items[0].Total != 0.3 {
		t.Fatalf("expected 0.3, got %v", items[0].Total)
	}
}

func TestCollectPartitionsAllValues(t *testing.T) {
	report := &entity.Report{
		Data: []entity.DataPoint{
			{
				Values: []entity.Value{{Region: "us-east-1", Total: 1}, {Region: "eu-west-1", Total: 2}},
				Services: []entity.DataPoint{
					{Values: []entity.Value{{Region: "us-east-1", Total: 3}}},
					{Regions: []entity.DataPoint{{Values: []entity.Value{{Region: "sa-east-1", Total: 4}}}}},
				},
			},
			{Values: []entity.Value{{Region: "eu-west-1", Total: 5}}},
		},
	}

	items := CollectUnsorted(report, entity.DimensionRegion, "")
	var sum float64
	seen := map[string]bool{}
	for _, it := range items {
		if seen[it.ID] {
			t.Fatalf("duplicate id %q", it.ID)
		}
		seen[it.ID] = true
		sum += it.Total
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if sum != 15 {
		t.Fatalf("expected grand total 15, got %v", sum)
	}
}

func TestResolveGroupingKey(t *testing.T) {
	cases := []struct {
		name string
		in   entity.GroupBy
		want entity.Dimension
	}{
		{name: "nil", in: nil, want: entity.DimensionDate},
		{name: "empty", in: entity.GroupBy{}, want: entity.DimensionDate},
		{name: "account beats service", in: entity.GroupBy{"service": {"*"}, "account": {"*"}}, want: entity.DimensionAccount},
		{name: "instance type beats region", in: entity.GroupBy{"region": {"*"}, "instance_type": {"t3.micro"}}, want: entity.DimensionInstanceType},
		{name: "region beats service", in: entity.GroupBy{"service": {"*"}, "region": {"*"}}, want: entity.DimensionRegion},
		{name: "service", in: entity.GroupBy{"service": {"AmazonEC2"}}, want: entity.DimensionService},
		{name: "unknown", in: entity.GroupBy{"project": {"*"}}, want: entity.DimensionDate},
	}

	for _, tc := range cases {
		if got := ResolveGroupingKey(tc.in); got != tc.want {
			t.Fatalf("%s: expected %s got %s", tc.name, tc.want, got)
		}
	}
}

func TestCollectUnsortedPropagatesNonFiniteTotals(t *testing.T) {
	report := &entity.Report{
		Data: []entity.DataPoint{
			{Values: []entity.Value{
				{Account: "A", Total: 1.5},
				{Account: "B", Total: math.NaN()},
				{Account: "C", Total: 0.1},
			}},
			{Accounts: []entity.DataPoint{
				{Values: []entity.Value{
					{Account: "A", Total: math.Inf(1)},
					{Account: "B", Total: 2},
					{Account: "C", Total: 0.2},
				}},
			}},
			{Values: []entity.Value{{Account: "A", Total: 2}}},
		},
	}

	items := CollectUnsorted(report, entity.DimensionAccount, "")
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %+v", items)
	}
	if !math.IsInf(items[0].Total, 1) {
		t.Fatalf("expected +Inf for A, got %v", items[0].Total)
	}
	if !math.IsNaN(items[1].Total) {
		t.Fatalf("expected NaN for B, got %v", items[1].Total)
	}
	if items[2].Total != 0.3 {
		t.Fatalf("expected exact 0.3 for C, got %v", items[2].Total)
	}
}
