package types

import "errors"

var (
	ErrNoReportSource     = errors.New("no report source configured: pass --report-file or an AWS profile")
	ErrUnknownReportType  = errors.New("unknown report type")
	ErrUnsupportedFormat  = errors.New("unsupported format")
	ErrUnknownChartType   = errors.New("unknown chart type")
	ErrInvalidQuery       = errors.New("invalid report query")
	ErrReportSourceFailed = errors.New("report source failed")
)
