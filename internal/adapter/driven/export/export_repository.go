package export

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/diillson/cost-report-dashboard-go/internal/domain/entity"
	"github.com/diillson/cost-report-dashboard-go/internal/domain/repository"
	"github.com/diillson/cost-report-dashboard-go/pkg/format"
)

// ExportRepositoryImpl implementa o ExportRepository.
type ExportRepositoryImpl struct{}

// NewExportRepository cria uma nova implementação do ExportRepository.
func NewExportRepository() repository.ExportRepository {
	return &ExportRepositoryImpl{}
}

func (r *ExportRepositoryImpl) ExportItemsToCSV(items []entity.ComputedReportItem, meta entity.ExportMeta, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	if err := WriteItemsCSV(file, items, meta); err != nil {
		return "", err
	}
	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportItemsToJSON(items []entity.ComputedReportItem, meta entity.ExportMeta, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "json")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating JSON file: %w", err)
	}
	defer file.Close()

	if err := WriteItemsJSON(file, items, meta); err != nil {
		return "", err
	}
	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportItemsToPDF(items []entity.ComputedReportItem, meta entity.ExportMeta, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "pdf")
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	headerColor := [3]int{40, 40, 40}
	headerTextColor := [3]int{255, 255, 255}
	bodyTextColor := [3]int{50, 50, 50}
	lineColor := [3]int{200, 200, 200}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		footerText := fmt.Sprintf("Generated by Cost Report Dashboard | %s", generatedAt(meta).Format("2006-01-02"))
		pdf.CellFormat(0, 10, tr(footerText), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Page %d", pdf.PageNo())), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()

	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
	pdf.SetFont("Arial", "B", 14)
	title := fmt.Sprintf("  %s report grouped by %s", meta.ReportType, meta.GroupBy)
	pdf.CellFormat(0, 12, tr(title), "", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	total := reportTotal(items, meta)
	summary := fmt.Sprintf("  Total: %s", format.Value(total, meta.Total.Units, format.Options{}))
	pdf.CellFormat(0, 8, tr(summary), "", 1, "L", true, 0, "")
	if meta.Query != "" {
		pdf.SetFont("Arial", "", 8)
		pdf.MultiCell(190, 5, tr("  Query: "+meta.Query), "", "L", true)
	}
	pdf.Ln(8)

	widths := []float64{70, 40, 30, 25, 25}
	headers := []string{string(meta.GroupBy), "Total", "Delta", "Delta %", "% of total"}
	pdf.SetFont("Arial", "B", 10)
	pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
	for i, h := range headers {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(widths[i], 7, tr(h), "B", 0, align, false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, item := range items {
		name := cleanRichTags(displayName(item))
		if len(name) > 40 {
			name = name[:37] + "..."
		}
		delta := ""
		if item.DeltaValue != nil {
			delta = format.Value(*item.DeltaValue, item.Units, format.Options{})
		}

		pdf.CellFormat(widths[0], 6, tr(name), "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, tr(format.Value(item.Total, item.Units, format.Options{})), "", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 6, tr(delta), "", 0, "R", false, 0, "")

		r, g, b := pdf.GetTextColor()
		if item.DeltaPercent != nil {
			switch {
			case *item.DeltaPercent > 0.01:
				pdf.SetTextColor(192, 0, 0)
			case *item.DeltaPercent < -0.01:
				pdf.SetTextColor(0, 128, 0)
			}
		}
		pdf.CellFormat(widths[3], 6, tr(format.Percent(item.DeltaPercent)), "", 0, "R", false, 0, "")
		pdf.SetTextColor(r, g, b)

		pdf.CellFormat(widths[4], 6, tr(fmt.Sprintf("%.2f%%", share(item.Total, total))), "", 1, "R", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// --- Funções Auxiliares ---

func generatedAt(meta entity.ExportMeta) time.Time {
	if meta.GeneratedAt.IsZero() {
		return time.Now()
	}
	return meta.GeneratedAt
}

// generateFilename cria um nome de arquivo único com timestamp e garante que o diretório exista.
func generateFilename(base, dir, ext string) (string, error) {
	if base == "" {
		base = "cost_report"
	}
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.%s", base, timestamp, ext)
	return filepath.Join(dir, filename), nil
}

// Regex para limpar formatação pterm (rich tags) e sequências ANSI de cor/estilo.
var richTagRegex = regexp.MustCompile(`\[/?([a-zA-Z]+|#[0-9a-fA-F]{6})\]`)
var ansiRegex = regexp.MustCompile(`\x1B\[[0-9;]*[A-Za-z]`)

// cleanRichTags remove tags de formatação do pterm e sequências ANSI.
func cleanRichTags(text string) string {
	text = richTagRegex.ReplaceAllString(text, "")
	text = ansiRegex.ReplaceAllString(text, "")
	return text
}
