package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/diillson/cost-report-dashboard-go/internal/domain/entity"
)

// WriteItemsCSV writes one row per item: the group-by value, total, units,
// deltas and the item's share of the report total.
func WriteItemsCSV(w io.Writer, items []entity.ComputedReportItem, meta entity.ExportMeta) error {
	writer := csv.NewWriter(w)

	groupBy := string(meta.GroupBy)
	if groupBy == "" {
		groupBy = "id"
	}
	headers := []string{groupBy, "total", "units", "delta_value", "delta_percent", "percent_of_total"}
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("error writing CSV header: %w", err)
	}

	total := reportTotal(items, meta)
	for _, item := range items {
		row := []string{
			displayName(item),
			formatFloat(item.Total),
			item.Units,
			formatOptional(item.DeltaValue),
			formatOptional(item.DeltaPercent),
			formatFloat(share(item.Total, total)),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("error writing CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteItemsJSON writes the items and their metadata as indented JSON.
func WriteItemsJSON(w io.Writer, items []entity.ComputedReportItem, meta entity.ExportMeta) error {
	if items == nil {
		items = []entity.ComputedReportItem{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(entity.ItemsExport{Meta: meta, Items: items}); err != nil {
		return fmt.Errorf("error encoding JSON data: %w", err)
	}
	return nil
}

func displayName(item entity.ComputedReportItem) string {
	if item.Label != "" {
		return item.Label
	}
	return item.ID
}

// reportTotal prefers the report's own total and falls back to the item sum.
func reportTotal(items []entity.ComputedReportItem, meta entity.ExportMeta) float64 {
	if meta.Total.Value != 0 {
		return meta.Total.Value
	}
	var sum float64
	for _, item := range items {
		sum += item.Total
	}
	return sum
}

func share(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return value / total * 100
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
