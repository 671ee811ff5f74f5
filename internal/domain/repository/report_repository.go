package repository

import (
	"context"

	"github.com/diillson/cost-report-dashboard-go/internal/domain/entity"
)

// ReportRepository é uma fonte de relatórios de custo e uso.
type ReportRepository interface {
	// Name identifies the source in logs and metrics.
	Name() string
	FetchReport(ctx context.Context, reportType entity.ReportType, q entity.Query) (*entity.Report, error)
}

// ReportCache guarda relatórios por tipo e query string.
type ReportCache interface {
	Get(reportType entity.ReportType, queryString string) (entity.CachedReport, bool)
	Begin(reportType entity.ReportType, queryString string)
	Complete(reportType entity.ReportType, queryString string, report *entity.Report, err error)
	Status(reportType entity.ReportType, queryString string) entity.FetchStatus
	Invalidate(reportType entity.ReportType, queryString string)
}
