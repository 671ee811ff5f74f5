package chart

import (
	"testing"

	"github.com/diillson/cost-report-dashboard-go/internal/domain/entity"
	"github.com/diillson/cost-report-dashboard-go/pkg/format"
)

func dailyReport() *entity.Report {
	return &entity.Report{
		Data: []entity.DataPoint{
			{Date: "2024-01-03", Values: []entity.Value{{Date: "2024-01-03", Total: 3.333, Units: "USD"}}},
			{Date: "2024-01-01", Values: []entity.Value{{Date: "2024-01-01", Total: 1, Units: "USD"}}},
			{Date: "2024-01-02", Services: []entity.DataPoint{
				{Values: []entity.Value{{Date: "2024-01-02", Service: "EC2", Total: 2, Units: "USD"}}},
				{Values: []entity.Value{{Date: "2024-01-02", Service: "S3", Total: 0.5, Units: "USD"}}},
			}},
		},
	}
}

func TestTransformReportDaily(t *testing.T) {
	data := TransformReport(dailyReport(), ChartDaily)
	if len(data) != 3 {
		t.Fatalf("expected 3 datums, got %d", len(data))
	}

	wantKeys := []string{"2024-01-01", "2024-01-02", "2024-01-03"}
	wantY := []float64{1, 2.5, 3.33}
	for i, d := range data {
		if d.Key != wantKeys[i] || d.Y != wantY[i] || d.X != i+1 || d.Units != "USD" {
			t.Fatalf("datum %d: unexpected %+v", i, d)
		}
	}
}

func TestTransformReportRolling(t *testing.T) {
	data := TransformReport(dailyReport(), ChartRolling)
	want := []float64{1, 3.5, 6.83}
	for i, d := range data {
		if d.Y != want[i] {
			t.Fatalf("datum %d: expected %v got %v", i, want[i], d.Y)
		}
	}
}

func TestTransformReportNil(t *testing.T) {
	if data := TransformReport(nil, ChartDaily); len(data) != 0 {
		t.Fatalf("expected no datums, got %v", data)
	}
}

func TestTooltipLabel(t *testing.T) {
	d := Datum{Key: "2024-01-05", Y: 12.5, Units: "USD"}
	if got := TooltipLabel(d, format.Value, format.Options{}, entity.DimensionDate); got != "05 Jan 2024: $12.50" {
		t.Fatalf("unexpected tooltip %q", got)
	}
	if got := TooltipLabel(d, format.Value, format.Options{}, entity.DimensionService); got != "$12.50" {
		t.Fatalf("unexpected tooltip %q", got)
	}
	if got := TooltipLabel(Datum{Y: 1}, format.Value, format.Options{}, entity.DimensionDate); got != "" {
		t.Fatalf("expected empty tooltip, got %q", got)
	}
}

func TestDateRange(t *testing.T) {
	cases := []struct {
		keys []string
		want string
	}{
		{nil, ""},
		{[]string{"2024-01-01"}, "Jan 1"},
		{[]string{"2024-01-01", "2024-01-15"}, "Jan 1–15"},
		{[]string{"2024-01-30", "2024-02-02"}, "Jan 30–Feb 2"},
		{[]string{"not-a-date"}, ""},
	}
	for _, tc := range cases {
		data := make([]Datum, len(tc.keys))
		for i, k := range tc.keys {
			data[i] = Datum{Key: k}
		}
		if got := DateRange(data); got != tc.want {
			t.Fatalf("DateRange(%v): expected %q got %q", tc.keys, tc.want, got)
		}
	}
}
