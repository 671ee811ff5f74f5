package entity

import "time"

// ExportMeta descreve o contexto de uma exportação de itens computados.
type ExportMeta struct {
	ReportType  ReportType  `json:"report_type"`
	GroupBy     Dimension   `json:"group_by"`
	Query       string      `json:"query"`
	Total       ReportTotal `json:"total"`
	GeneratedAt time.Time   `json:"generated_at"`
}

// ItemsExport is the JSON document written by the JSON exporter.
type ItemsExport struct {
	Meta  ExportMeta           `json:"meta"`
	Items []ComputedReportItem `json:"items"`
}
