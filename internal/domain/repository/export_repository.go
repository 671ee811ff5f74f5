package repository

import (
	"github.com/diillson/cost-report-dashboard-go/internal/domain/entity"
)

// ExportRepository writes computed report items to files and returns their paths.
type ExportRepository interface {
	ExportItemsToCSV(items []entity.ComputedReportItem, meta entity.ExportMeta, filename, outputDir string) (string, error)
	ExportItemsToJSON(items []entity.ComputedReportItem, meta entity.ExportMeta, filename, outputDir string) (string, error)
	ExportItemsToPDF(items []entity.ComputedReportItem, meta entity.ExportMeta, filename, outputDir string) (string, error)
}
