package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/diillson/cost-report-dashboard-go/internal/domain/aggregator"
	"github.com/diillson/cost-report-dashboard-go/internal/domain/chart"
	"github.com/diillson/cost-report-dashboard-go/internal/domain/entity"
	"github.com/diillson/cost-report-dashboard-go/internal/domain/query"
	"github.com/diillson/cost-report-dashboard-go/internal/domain/repository"
	"github.com/diillson/cost-report-dashboard-go/internal/shared/metrics"
	"github.com/diillson/cost-report-dashboard-go/internal/shared/types"
)

// ReportUseCase liga a fonte de relatórios, o cache, o agregador e a exportação.
type ReportUseCase struct {
	source     repository.ReportRepository
	cache      repository.ReportCache
	exportRepo repository.ExportRepository
	console    types.ConsoleInterface
	logger     *zap.Logger
	now        func() time.Time
}

// NewReportUseCase creates a report use case. cache may be nil.
func NewReportUseCase(
	source repository.ReportRepository,
	cache repository.ReportCache,
	exportRepo repository.ExportRepository,
	console types.ConsoleInterface,
	logger *zap.Logger,
) *ReportUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportUseCase{
		source:     source,
		cache:      cache,
		exportRepo: exportRepo,
		console:    console,
		logger:     logger,
		now:        time.Now,
	}
}

// DetailsItem is a computed item with its share of the report total.
type DetailsItem struct {
	entity.ComputedReportItem
	Share float64 `json:"share"`
}

// DetailsView is what the details table and the reports endpoint show.
type DetailsView struct {
	ReportType entity.ReportType  `json:"report_type"`
	GroupBy    entity.Dimension   `json:"group_by"`
	Total      entity.ReportTotal `json:"total"`
	Query      string             `json:"query"`
	Items      []DetailsItem      `json:"items"`
}

// ComputedItems returns the items without their share.
func (v DetailsView) ComputedItems() []entity.ComputedReportItem {
	out := make([]entity.ComputedReportItem, len(v.Items))
	for i, it := range v.Items {
		out[i] = it.ComputedReportItem
	}
	return out
}

// ExportMeta describes the view for exporters.
func (v DetailsView) ExportMeta(generatedAt time.Time) entity.ExportMeta {
	return entity.ExportMeta{
		ReportType:  v.ReportType,
		GroupBy:     v.GroupBy,
		Query:       v.Query,
		Total:       v.Total,
		GeneratedAt: generatedAt,
	}
}

// TrendView holds the current and previous series of the trend chart.
type TrendView struct {
	ReportType    entity.ReportType `json:"report_type"`
	Chart         chart.ChartType   `json:"chart"`
	Units         string            `json:"units"`
	CurrentLabel  string            `json:"current_label"`
	PreviousLabel string            `json:"previous_label"`
	Current       []chart.Datum     `json:"current"`
	Previous      []chart.Datum     `json:"previous"`
}

// FetchReport returns the report for the query, serving fresh cached copies
// when a cache is configured.
func (uc *ReportUseCase) FetchReport(ctx context.Context, reportType entity.ReportType, q entity.Query) (*entity.Report, error) {
	if _, ok := entity.ParseReportType(string(reportType)); !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownReportType, reportType)
	}

	qs := query.Encode(q)
	source := uc.source.Name()

	if uc.cache != nil {
		if entry, ok := uc.cache.Get(reportType, qs); ok && entry.Status == entity.FetchStatusComplete && entry.Err == nil {
			metrics.IncFetch(source, metrics.OutcomeCached)
			uc.logger.Debug("report served from cache", zap.String("report_type", string(reportType)), zap.String("query", qs))
			return entry.Report, nil
		}
		uc.cache.Begin(reportType, qs)
	}

	start := uc.now()
	report, err := uc.source.FetchReport(ctx, reportType, q)
	metrics.ObserveFetchDuration(source, uc.now().Sub(start))

	if uc.cache != nil {
		uc.cache.Complete(reportType, qs, report, err)
	}
	if err != nil {
		metrics.IncFetch(source, metrics.OutcomeError)
		uc.logger.Error("report fetch failed",
			zap.String("source", source),
			zap.String("report_type", string(reportType)),
			zap.String("query", qs),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", types.ErrReportSourceFailed, err)
	}

	metrics.IncFetch(source, metrics.OutcomeSuccess)
	return report, nil
}

// ComputeItems groups the report the way the query asks and orders the
// items by the query's sort field. filter[limit] keeps only the first items.
func (uc *ReportUseCase) ComputeItems(report *entity.Report, q entity.Query) []entity.ComputedReportItem {
	groupBy := aggregator.ResolveGroupingKey(q.GroupBy)
	sortKey, direction := query.SortFor(q, groupBy)

	items := aggregator.Collect(aggregator.Params{
		Report:        report,
		IDKey:         groupBy,
		LabelKey:      groupBy,
		SortKey:       sortKey,
		SortDirection: direction,
	})
	metrics.ObserveAggregation(string(groupBy), len(items))

	if q.Filter.Limit > 0 && len(items) > q.Filter.Limit {
		items = items[:q.Filter.Limit]
	}
	return items
}

// Details fetches and aggregates the report for the details view.
func (uc *ReportUseCase) Details(ctx context.Context, reportType entity.ReportType, q entity.Query) (DetailsView, error) {
	report, err := uc.FetchReport(ctx, reportType, q)
	if err != nil {
		return DetailsView{}, err
	}

	items := uc.ComputeItems(report, q)
	total := report.Total
	if total.Value == 0 {
		for _, it := range items {
			total.Value += it.Total
		}
	}
	if total.Units == "" && len(items) > 0 {
		total.Units = items[0].Units
	}

	view := DetailsView{
		ReportType: reportType,
		GroupBy:    aggregator.ResolveGroupingKey(q.GroupBy),
		Total:      total,
		Query:      query.Encode(q),
		Items:      make([]DetailsItem, len(items)),
	}
	for i, it := range items {
		view.Items[i] = DetailsItem{ComputedReportItem: it}
		if total.Value != 0 {
			view.Items[i].Share = it.Total / total.Value * 100
		}
	}
	return view, nil
}

// trendQueries derives the daily queries of the current and previous month.
func trendQueries(q entity.Query) (entity.Query, entity.Query) {
	current := q.Clone()
	current.Delta = entity.Bool(false)
	current.Filter.Resolution = "daily"
	current.Filter.TimeScopeUnits = "month"
	current.Filter.TimeScopeValue = -1
	current.Filter.Limit = 0

	previous := current.Clone()
	previous.Filter.TimeScopeValue = -2
	return current, previous
}

// Trend busca o mês atual e o anterior em paralelo e monta as séries do gráfico.
func (uc *ReportUseCase) Trend(ctx context.Context, reportType entity.ReportType, q entity.Query, chartType chart.ChartType) (TrendView, error) {
	if _, ok := chart.ParseChartType(string(chartType)); !ok {
		return TrendView{}, fmt.Errorf("%w: %q", types.ErrUnknownChartType, chartType)
	}

	currentQuery, previousQuery := trendQueries(q)

	type result struct {
		report *entity.Report
		err    error
	}
	currentCh := make(chan result, 1)
	previousCh := make(chan result, 1)

	go func() {
		r, err := uc.FetchReport(ctx, reportType, currentQuery)
		currentCh <- result{r, err}
	}()
	go func() {
		r, err := uc.FetchReport(ctx, reportType, previousQuery)
		previousCh <- result{r, err}
	}()

	current, previous := <-currentCh, <-previousCh
	if current.err != nil {
		return TrendView{}, fmt.Errorf("failed to get current period: %w", current.err)
	}
	if previous.err != nil {
		return TrendView{}, fmt.Errorf("failed to get previous period: %w", previous.err)
	}

	view := TrendView{
		ReportType: reportType,
		Chart:      chartType,
		Current:    chart.TransformReport(current.report, chartType),
		Previous:   chart.TransformReport(previous.report, chartType),
	}
	view.CurrentLabel = chart.DateRange(view.Current)
	view.PreviousLabel = chart.DateRange(view.Previous)
	view.Units = current.report.Total.Units
	if view.Units == "" && len(view.Current) > 0 {
		view.Units = view.Current[0].Units
	}
	return view, nil
}
