package entity

// Dimension é o eixo usado para agrupar valores do relatório.
type Dimension string

const (
	DimensionAccount      Dimension = "account"
	DimensionAccountAlias Dimension = "account_alias"
	DimensionService      Dimension = "service"
	DimensionRegion       Dimension = "region"
	DimensionInstanceType Dimension = "instance_type"
	DimensionDate         Dimension = "date"
)

// GroupingDimensions are the dimensions a report can be grouped by, in the
// precedence order used when a query names more than one.
var GroupingDimensions = []Dimension{
	DimensionAccount,
	DimensionInstanceType,
	DimensionRegion,
	DimensionService,
}

// ParseDimension converts a raw string into a Dimension.
func ParseDimension(raw string) (Dimension, bool) {
	switch Dimension(raw) {
	case DimensionAccount, DimensionAccountAlias, DimensionService,
		DimensionRegion, DimensionInstanceType, DimensionDate:
		return Dimension(raw), true
	}
	return "", false
}

// SortKey names a ComputedReportItem field.
type SortKey string

const (
	SortKeyID           SortKey = "id"
	SortKeyLabel        SortKey = "label"
	SortKeyTotal        SortKey = "total"
	SortKeyUnits        SortKey = "units"
	SortKeyDeltaPercent SortKey = "deltaPercent"
	SortKeyDeltaValue   SortKey = "deltaValue"
)

// SortDirection is asc or desc.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)
