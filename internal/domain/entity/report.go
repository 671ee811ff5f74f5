package entity

// ReportType identifica o tipo de relatório solicitado à fonte de dados.
type ReportType string

const (
	ReportTypeCost         ReportType = "cost"
	ReportTypeStorage      ReportType = "storage"
	ReportTypeInstanceType ReportType = "instance_type"
)

// ReportTypes lists every supported report type.
var ReportTypes = []ReportType{ReportTypeCost, ReportTypeStorage, ReportTypeInstanceType}

// ParseReportType converts a raw string into a ReportType.
func ParseReportType(raw string) (ReportType, bool) {
	for _, rt := range ReportTypes {
		if string(rt) == raw {
			return rt, true
		}
	}
	return "", false
}

// ReportTotal is the aggregate value of a whole report.
type ReportTotal struct {
	Value float64 `json:"value" yaml:"value" toml:"value"`
	Units string  `json:"units" yaml:"units" toml:"units"`
}

// Report is the raw cost/usage payload for a query.
type Report struct {
	Total ReportTotal `json:"total" yaml:"total" toml:"total"`
	Data  []DataPoint `json:"data" yaml:"data" toml:"data"`
}

// DataPoint é um nó da árvore do relatório: valores próprios e grupos filhos.
type DataPoint struct {
	Date          string      `json:"date,omitempty" yaml:"date,omitempty" toml:"date,omitempty"`
	Values        []Value     `json:"values,omitempty" yaml:"values,omitempty" toml:"values,omitempty"`
	Services      []DataPoint `json:"services,omitempty" yaml:"services,omitempty" toml:"services,omitempty"`
	Accounts      []DataPoint `json:"accounts,omitempty" yaml:"accounts,omitempty" toml:"accounts,omitempty"`
	InstanceTypes []DataPoint `json:"instance_types,omitempty" yaml:"instance_types,omitempty" toml:"instance_types,omitempty"`
	Regions       []DataPoint `json:"regions,omitempty" yaml:"regions,omitempty" toml:"regions,omitempty"`
}

// Groups returns the child group sequences in traversal order:
// services, accounts, instance_types, regions.
func (dp DataPoint) Groups() [4][]DataPoint {
	return [4][]DataPoint{dp.Services, dp.Accounts, dp.InstanceTypes, dp.Regions}
}

// Value is a leaf record of the report.
type Value struct {
	Total        float64  `json:"total" yaml:"total" toml:"total"`
	Units        string   `json:"units" yaml:"units" toml:"units"`
	Count        *int     `json:"count,omitempty" yaml:"count,omitempty" toml:"count,omitempty"`
	DeltaPercent *float64 `json:"delta_percent,omitempty" yaml:"delta_percent,omitempty" toml:"delta_percent,omitempty"`
	DeltaValue   *float64 `json:"delta_value,omitempty" yaml:"delta_value,omitempty" toml:"delta_value,omitempty"`

	Account      string `json:"account,omitempty" yaml:"account,omitempty" toml:"account,omitempty"`
	AccountAlias string `json:"account_alias,omitempty" yaml:"account_alias,omitempty" toml:"account_alias,omitempty"`
	Service      string `json:"service,omitempty" yaml:"service,omitempty" toml:"service,omitempty"`
	Region       string `json:"region,omitempty" yaml:"region,omitempty" toml:"region,omitempty"`
	InstanceType string `json:"instance_type,omitempty" yaml:"instance_type,omitempty" toml:"instance_type,omitempty"`
	Date         string `json:"date,omitempty" yaml:"date,omitempty" toml:"date,omitempty"`
}

// Field returns the value of the given dimension. Unknown dimensions yield "".
func (v Value) Field(d Dimension) string {
	switch d {
	case DimensionAccount:
		return v.Account
	case DimensionAccountAlias:
		return v.AccountAlias
	case DimensionService:
		return v.Service
	case DimensionRegion:
		return v.Region
	case DimensionInstanceType:
		return v.InstanceType
	case DimensionDate:
		return v.Date
	default:
		return ""
	}
}

// ComputedReportItem is one aggregated, display-ready line of a report.
type ComputedReportItem struct {
	ID           string   `json:"id"`
	Label        string   `json:"label"`
	Total        float64  `json:"total"`
	Units        string   `json:"units"`
	DeltaPercent *float64 `json:"deltaPercent,omitempty"`
	DeltaValue   *float64 `json:"deltaValue,omitempty"`
}
