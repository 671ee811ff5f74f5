package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/diillson/cost-report-dashboard-go/internal/domain/entity"
)

func ptr(v float64) *float64 { return &v }

func sampleItems() ([]entity.ComputedReportItem, entity.ExportMeta) {
	items := []entity.ComputedReportItem{
		{ID: "111", Label: "prod", Total: 75, Units: "USD", DeltaValue: ptr(5), DeltaPercent: ptr(7.14)},
		{ID: "222", Total: 25, Units: "USD"},
	}
	meta := entity.ExportMeta{
		ReportType:  entity.ReportTypeCost,
		GroupBy:     entity.DimensionAccount,
		Query:       "group_by[account]=*",
		Total:       entity.ReportTotal{Value: 100, Units: "USD"},
		GeneratedAt: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}
	return items, meta
}

func TestWriteItemsCSV(t *testing.T) {
	items, meta := sampleItems()
	var buf bytes.Buffer
	if err := WriteItemsCSV(&buf, items, meta); err != nil {
		t.Fatalf("write: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := [][]string{
		{"account", "total", "units", "delta_value", "delta_percent", "percent_of_total"},
		{"prod", "75.00", "USD", "5.00", "7.14", "75.00"},
		{"222", "25.00", "USD", "", "", "25.00"},
	}
	if len(records) != len(want) {
		t.Fatalf("expected %d rows, got %v", len(want), records)
	}
	for i := range want {
		if strings.Join(records[i], ",") != strings.Join(want[i], ",") {
			t.Fatalf("row %d: expected %v got %v", i, want[i], records[i])
		}
	}
}

func TestWriteItemsCSVWithoutReportTotal(t *testing.T) {
	items, meta := sampleItems()
	meta.Total = entity.ReportTotal{}
	var buf bytes.Buffer
	if err := WriteItemsCSV(&buf, items[1:], meta); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(buf.String(), "222,25.00,USD,,,100.00") {
		t.Fatalf("expected share computed from item sum, got %s", buf.String())
	}
}

func TestExportItemsToFiles(t *testing.T) {
	items, meta := sampleItems()
	dir := filepath.Join(t.TempDir(), "nested", "out")
	repo := NewExportRepository()

	csvPath, err := repo.ExportItemsToCSV(items, meta, "report", dir)
	if err != nil {
		t.Fatalf("csv: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(csvPath), "report_") || filepath.Ext(csvPath) != ".csv" {
		t.Fatalf("unexpected csv path %s", csvPath)
	}

	jsonPath, err := repo.ExportItemsToJSON(items, meta, "report", dir)
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	var doc entity.ItemsExport
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if len(doc.Items) != 2 || doc.Meta.GroupBy != entity.DimensionAccount || doc.Items[0].Label != "prod" {
		t.Fatalf("unexpected json document %+v", doc)
	}

	pdfPath, err := repo.ExportItemsToPDF(items, meta, "report", dir)
	if err != nil {
		t.Fatalf("pdf: %v", err)
	}
	info, err := os.Stat(pdfPath)
	if err != nil || info.Size() == 0 {
		t.Fatalf("expected non-empty pdf, got %v %v", info, err)
	}
}

func TestWriteItemsJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteItemsJSON(&buf, nil, entity.ExportMeta{}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(buf.String(), `"items": []`) {
		t.Fatalf("expected empty items array, got %s", buf.String())
	}
}

func TestCleanRichTags(t *testing.T) {
	in := "[bold]prod[/bold] \x1b[31maccount\x1b[0m"
	if got := cleanRichTags(in); got != "prod account" {
		t.Fatalf("unexpected %q", got)
	}
}
