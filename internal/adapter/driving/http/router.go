// Package httpapi serves computed cost reports over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/diillson/cost-report-dashboard-go/internal/adapter/driven/export"
	"github.com/diillson/cost-report-dashboard-go/internal/application/usecase"
	"github.com/diillson/cost-report-dashboard-go/internal/domain/chart"
	"github.com/diillson/cost-report-dashboard-go/internal/domain/entity"
	"github.com/diillson/cost-report-dashboard-go/internal/domain/query"
	"github.com/diillson/cost-report-dashboard-go/internal/shared/metrics"
	"github.com/diillson/cost-report-dashboard-go/internal/shared/types"
)

// ReportService is the part of the report use case the API needs.
type ReportService interface {
	Details(ctx context.Context, reportType entity.ReportType, q entity.Query) (usecase.DetailsView, error)
	Trend(ctx context.Context, reportType entity.ReportType, q entity.Query, chartType chart.ChartType) (usecase.TrendView, error)
}

type Deps struct {
	Reports ReportService
	// BaseQuery is merged under every request query.
	BaseQuery entity.Query
	Logger    *zap.Logger
	Version   string
	Commit    string
	BuildDate string
}

func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics.Init()
	version := valueOrDefault(deps.Version, "dev")
	commit := valueOrDefault(deps.Commit, "none")
	buildDate := valueOrDefault(deps.BuildDate, "unknown")

	r := chi.NewRouter()
	r.Use(requestIDMiddleware())
	r.Use(requestLoggingMiddleware(logger))

	// ---------------- HEALTH ----------------

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// ---------------- METRICS ----------------

	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// ---------------- VERSION ----------------

	r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version":    version,
			"commit":     commit,
			"build_date": buildDate,
		})
	})

	// ---------------- REPORTS ----------------

	h := &reportHandler{reports: deps.Reports, base: deps.BaseQuery, logger: logger}
	r.Route("/api/v1/reports/{type}", func(api chi.Router) {
		api.Get("/", h.details)
		api.Get("/chart", h.chart)
		api.Get("/export", h.export)
	})

	return r
}

type reportHandler struct {
	reports ReportService
	base    entity.Query
	logger  *zap.Logger
}

// request resolves the report type and the merged query of a request.
func (h *reportHandler) request(r *http.Request) (entity.ReportType, entity.Query, error) {
	raw := chi.URLParam(r, "type")
	reportType, ok := entity.ParseReportType(raw)
	if !ok {
		return "", entity.Query{}, fmt.Errorf("%w: %q", types.ErrUnknownReportType, raw)
	}
	q, err := query.Parse(r.URL.RawQuery)
	if err != nil {
		return "", entity.Query{}, fmt.Errorf("%w: %w", types.ErrInvalidQuery, err)
	}
	return reportType, query.Merge(h.base, q), nil
}

func (h *reportHandler) details(w http.ResponseWriter, r *http.Request) {
	reportType, q, err := h.request(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	view, err := h.reports.Details(r.Context(), reportType, q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *reportHandler) chart(w http.ResponseWriter, r *http.Request) {
	reportType, q, err := h.request(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	chartType := chart.ChartDaily
	if raw := r.URL.Query().Get("chart"); raw != "" {
		chartType = chart.ChartType(raw)
	}

	view, err := h.reports.Trend(r.Context(), reportType, q, chartType)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *reportHandler) export(w http.ResponseWriter, r *http.Request) {
	reportType, q, err := h.request(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "json" {
		h.fail(w, r, fmt.Errorf("%w: %q", types.ErrUnsupportedFormat, format))
		return
	}

	view, err := h.reports.Details(r.Context(), reportType, q)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	items := view.ComputedItems()
	meta := view.ExportMeta(time.Now().UTC())
	filename := fmt.Sprintf("%s_%s.%s", reportType, view.GroupBy, format)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		err = export.WriteItemsCSV(w, items, meta)
	default:
		w.Header().Set("Content-Type", "application/json")
		err = export.WriteItemsJSON(w, items, meta)
	}
	if err != nil {
		h.logger.Error("export write failed", zap.Error(err))
	}
}

// fail maps domain errors to HTTP statuses.
func (h *reportHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, types.ErrUnknownReportType):
		status = http.StatusNotFound
	case errors.Is(err, types.ErrInvalidQuery),
		errors.Is(err, types.ErrUnknownChartType),
		errors.Is(err, types.ErrUnsupportedFormat):
		status = http.StatusBadRequest
	case errors.Is(err, types.ErrReportSourceFailed):
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		reqID, _ := requestIDFromContext(r.Context())
		h.logger.Error("report request failed", zap.String("request_id", reqID), zap.Error(err))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func valueOrDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
