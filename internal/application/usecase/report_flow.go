package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/diillson/cost-report-dashboard-go/internal/domain/chart"
	"github.com/diillson/cost-report-dashboard-go/internal/domain/entity"
	"github.com/diillson/cost-report-dashboard-go/internal/domain/query"
	"github.com/diillson/cost-report-dashboard-go/internal/shared/types"
	"github.com/diillson/cost-report-dashboard-go/pkg/format"
)

// QueryFromArgs builds the report query from the command line: the default
// details query, then --query, then the individual flags.
func QueryFromArgs(args *types.CLIArgs) (entity.Query, error) {
	q := query.Default()

	if args.Query != "" {
		parsed, err := query.Parse(args.Query)
		if err != nil {
			return entity.Query{}, fmt.Errorf("%w: %w", types.ErrInvalidQuery, err)
		}
		q = query.Merge(q, parsed)
	}

	if args.GroupBy != "" {
		d, ok := entity.ParseDimension(args.GroupBy)
		if !ok || d == entity.DimensionAccountAlias {
			return entity.Query{}, fmt.Errorf("%w: unknown group by %q", types.ErrInvalidQuery, args.GroupBy)
		}
		if d == entity.DimensionDate {
			q.GroupBy = entity.GroupBy{}
		} else {
			q = query.WithGroupBy(q, d)
		}
	}

	for _, f := range args.Filters {
		dim, value, ok := strings.Cut(f, "=")
		if !ok || dim == "" || value == "" {
			return entity.Query{}, fmt.Errorf("%w: filter must be dimension=value, got %q", types.ErrInvalidQuery, f)
		}
		q = query.AddFilter(q, dim, value)
	}

	if args.OrderBy != "" {
		q = query.SetOrder(q, args.OrderBy, args.Ascending)
	}

	if args.TimeScope != "" {
		units, raw, ok := strings.Cut(args.TimeScope, ":")
		value, err := strconv.Atoi(raw)
		if !ok || err != nil {
			return entity.Query{}, fmt.Errorf("%w: time scope must be units:value, e.g. month:-1, got %q", types.ErrInvalidQuery, args.TimeScope)
		}
		q.Filter.TimeScopeUnits = units
		q.Filter.TimeScopeValue = value
	}
	if args.Resolution != "" {
		q.Filter.Resolution = args.Resolution
	}
	if args.Delta != nil {
		q.Delta = entity.Bool(*args.Delta)
	}

	return q, nil
}

func reportTypeFromArgs(args *types.CLIArgs) (entity.ReportType, error) {
	raw := args.ReportType
	if raw == "" {
		return entity.ReportTypeCost, nil
	}
	rt, ok := entity.ParseReportType(raw)
	if !ok {
		return "", fmt.Errorf("%w: %q", types.ErrUnknownReportType, raw)
	}
	return rt, nil
}

// RunDetails renders the details table and exports it when --report-name is set.
func (uc *ReportUseCase) RunDetails(ctx context.Context, args *types.CLIArgs) error {
	reportType, err := reportTypeFromArgs(args)
	if err != nil {
		return err
	}
	q, err := QueryFromArgs(args)
	if err != nil {
		return err
	}

	status := uc.console.Status(fmt.Sprintf("Fetching %s report...", reportType))
	view, err := uc.Details(ctx, reportType, q)
	status.Stop()
	if err != nil {
		return err
	}

	if len(view.Items) == 0 {
		uc.console.LogWarning("No data found for query %s", view.Query)
		return nil
	}

	uc.console.Printf("\n%s\n", pterm.FgYellow.Sprintf("%s report grouped by %s", reportType, view.GroupBy))
	uc.console.Print(uc.detailsTable(view).Render())

	if args.ReportName != "" && len(args.Export) > 0 {
		uc.exportDetails(view, args)
	}
	return nil
}

func (uc *ReportUseCase) detailsTable(view DetailsView) types.TableInterface {
	table := uc.console.CreateTable()
	table.AddColumn(columnTitle(view.GroupBy))
	table.AddColumn("Total")
	table.AddColumn("Change")
	table.AddColumn("Change %")
	table.AddColumn("Share")

	for _, item := range view.Items {
		name := item.Label
		if name == "" {
			name = item.ID
		}
		if name == "" {
			name = "(none)"
		}
		change := "-"
		if item.DeltaValue != nil {
			change = format.Value(*item.DeltaValue, item.Units, format.Options{})
		}
		table.AddRow(
			name,
			format.Value(item.Total, item.Units, format.Options{}),
			change,
			colorPercent(item.DeltaPercent),
			fmt.Sprintf("%.2f%%", item.Share),
		)
	}

	table.AddRow(
		pterm.Bold.Sprint("Total"),
		pterm.Bold.Sprint(format.Value(view.Total.Value, view.Total.Units, format.Options{})),
		"", "", "",
	)
	return table
}

func columnTitle(d entity.Dimension) string {
	switch d {
	case entity.DimensionAccount:
		return "Account"
	case entity.DimensionService:
		return "Service"
	case entity.DimensionRegion:
		return "Region"
	case entity.DimensionInstanceType:
		return "Instance Type"
	default:
		return "Date"
	}
}

// colorPercent pinta aumentos de vermelho e reduções de verde.
func colorPercent(v *float64) string {
	text := format.Percent(v)
	switch {
	case v == nil:
		return text
	case *v > 0.01:
		return pterm.FgRed.Sprint("▲ " + text)
	case *v < -0.01:
		return pterm.FgGreen.Sprint("▼ " + text)
	default:
		return text
	}
}

func (uc *ReportUseCase) exportDetails(view DetailsView, args *types.CLIArgs) {
	items := view.ComputedItems()
	meta := view.ExportMeta(uc.now())

	progress := uc.console.ProgressWithTotal(len(args.Export))
	defer progress.Stop()

	for _, exportType := range args.Export {
		switch strings.ToLower(exportType) {
		case "csv":
			csvPath, err := uc.exportRepo.ExportItemsToCSV(items, meta, args.ReportName, args.Dir)
			if err != nil {
				uc.console.LogError("Failed to export to CSV: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported to CSV: %s", csvPath)
			}
		case "json":
			jsonPath, err := uc.exportRepo.ExportItemsToJSON(items, meta, args.ReportName, args.Dir)
			if err != nil {
				uc.console.LogError("Failed to export to JSON: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported to JSON: %s", jsonPath)
			}
		case "pdf":
			pdfPath, err := uc.exportRepo.ExportItemsToPDF(items, meta, args.ReportName, args.Dir)
			if err != nil {
				uc.console.LogError("Failed to export to PDF: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported to PDF: %s", pdfPath)
			}
		default:
			uc.console.LogWarning("%s: %s", types.ErrUnsupportedFormat, exportType)
		}
		progress.Increment()
	}
}

// RunTrend exibe as barras diárias do mês atual e do anterior.
func (uc *ReportUseCase) RunTrend(ctx context.Context, args *types.CLIArgs) error {
	reportType, err := reportTypeFromArgs(args)
	if err != nil {
		return err
	}
	q, err := QueryFromArgs(args)
	if err != nil {
		return err
	}
	chartType := chart.ChartDaily
	if args.Chart != "" {
		ct, ok := chart.ParseChartType(args.Chart)
		if !ok {
			return fmt.Errorf("%w: %q", types.ErrUnknownChartType, args.Chart)
		}
		chartType = ct
	}

	uc.console.LogInfo("Analysing %s trends...", reportType)
	view, err := uc.Trend(ctx, reportType, q, chartType)
	if err != nil {
		return err
	}

	uc.printSeries(fmt.Sprintf("Current period (%s)", view.CurrentLabel), view.Current)
	uc.printSeries(fmt.Sprintf("Previous period (%s)", view.PreviousLabel), view.Previous)
	return nil
}

func (uc *ReportUseCase) printSeries(title string, data []chart.Datum) {
	uc.console.Printf("\n%s\n", pterm.FgYellow.Sprint(title))
	if len(data) == 0 {
		uc.console.LogWarning("No trend data available")
		return
	}
	uc.console.DisplayTrendBars(TrendPoints(data))
}

// TrendPoints converts chart datums into console bars.
func TrendPoints(data []chart.Datum) []types.TrendPoint {
	points := make([]types.TrendPoint, len(data))
	for i, d := range data {
		label := d.Key
		if day, err := time.Parse("2006-01-02", d.Key); err == nil {
			label = day.Format("Jan 02")
		}
		points[i] = types.TrendPoint{
			Label: label,
			Value: d.Y,
			Text:  format.Value(d.Y, d.Units, format.Options{}),
		}
	}
	return points
}
