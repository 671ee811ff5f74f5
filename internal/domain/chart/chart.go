// Package chart turns reports into the series plotted by the trend view.
package chart

import (
	"fmt"
	"math"
	"time"

	"github.com/diillson/cost-report-dashboard-go/internal/domain/aggregator"
	"github.com/diillson/cost-report-dashboard-go/internal/domain/entity"
	"github.com/diillson/cost-report-dashboard-go/pkg/format"
)

// ChartType selects how daily totals are plotted.
type ChartType string

const (
	ChartDaily   ChartType = "daily"
	ChartRolling ChartType = "rolling"
)

// ParseChartType converts a raw string into a ChartType.
func ParseChartType(raw string) (ChartType, bool) {
	switch ChartType(raw) {
	case ChartDaily, ChartRolling:
		return ChartType(raw), true
	}
	return "", false
}

const dateLayout = "2006-01-02"

// Datum is one point of a trend series.
type Datum struct {
	X     int     `json:"x"`
	Label string  `json:"label"`
	Y     float64 `json:"y"`
	Key   string  `json:"key"`
	Units string  `json:"units"`
}

// TransformReport collects the report by date and returns one datum per day,
// oldest first. Rolling charts accumulate the totals.
func TransformReport(report *entity.Report, t ChartType) []Datum {
	items := aggregator.Collect(aggregator.Params{
		Report:        report,
		IDKey:         entity.DimensionDate,
		SortKey:       entity.SortKeyID,
		SortDirection: entity.SortAsc,
	})

	data := make([]Datum, 0, len(items))
	var running float64
	for i, item := range items {
		y := item.Total
		if t == ChartRolling {
			running += item.Total
			y = running
		}
		x := i + 1
		if day, err := time.Parse(dateLayout, item.ID); err == nil {
			x = day.Day()
		}
		data = append(data, Datum{
			X:     x,
			Label: item.Label,
			Y:     round2(y),
			Key:   item.ID,
			Units: item.Units,
		})
	}
	return data
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// TooltipLabel is the hover text of a datum. Datums without a key have none.
func TooltipLabel(d Datum, f format.ValueFormatter, opts format.Options, idKey entity.Dimension) string {
	if d.Key == "" {
		return ""
	}
	value := f(d.Y, d.Units, opts)
	if idKey != entity.DimensionDate {
		return value
	}
	day, err := time.Parse(dateLayout, d.Key)
	if err != nil {
		return fmt.Sprintf("%s: %s", d.Key, value)
	}
	return fmt.Sprintf("%s: %s", day.Format("02 Jan 2006"), value)
}

// DateRange labels a series legend, e.g. "Jan 1–15".
func DateRange(data []Datum) string {
	if len(data) == 0 {
		return ""
	}
	first, err := time.Parse(dateLayout, data[0].Key)
	if err != nil {
		return ""
	}
	last, err := time.Parse(dateLayout, data[len(data)-1].Key)
	if err != nil {
		return ""
	}

	switch {
	case first.Equal(last):
		return first.Format("Jan 2")
	case first.Year() == last.Year() && first.Month() == last.Month():
		return fmt.Sprintf("%s–%d", first.Format("Jan 2"), last.Day())
	default:
		return fmt.Sprintf("%s–%s", first.Format("Jan 2"), last.Format("Jan 2"))
	}
}
