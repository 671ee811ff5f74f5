package aws

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	ceTypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"

	"github.com/diillson/cost-report-dashboard-go/internal/domain/entity"
)

// dimensionKeys maps report dimensions to Cost Explorer dimensions.
var dimensionKeys = map[entity.Dimension]ceTypes.Dimension{
	entity.DimensionAccount:      ceTypes.DimensionLinkedAccount,
	entity.DimensionService:      ceTypes.DimensionService,
	entity.DimensionRegion:       ceTypes.DimensionRegion,
	entity.DimensionInstanceType: ceTypes.DimensionInstanceType,
}

// reportMetric describes what a report type measures in Cost Explorer.
type reportMetric struct {
	Metric string
	Scope  []ceTypes.Expression
}

func metricFor(rt entity.ReportType) (reportMetric, error) {
	switch rt {
	case entity.ReportTypeCost:
		return reportMetric{Metric: "UnblendedCost"}, nil
	case entity.ReportTypeStorage:
		return reportMetric{
			Metric: "UsageQuantity",
			Scope: []ceTypes.Expression{
				dimensionExpression(ceTypes.DimensionService, "Amazon Simple Storage Service"),
				dimensionExpression(ceTypes.DimensionUsageTypeGroup,
					"S3: Storage - Standard",
					"S3: Storage - Standard Infrequent Access",
					"S3: Storage - Glacier"),
			},
		}, nil
	case entity.ReportTypeInstanceType:
		return reportMetric{
			Metric: "UsageQuantity",
			Scope: []ceTypes.Expression{
				dimensionExpression(ceTypes.DimensionService, "Amazon Elastic Compute Cloud - Compute"),
				dimensionExpression(ceTypes.DimensionUsageTypeGroup, "EC2: Running Hours"),
			},
		}, nil
	default:
		return reportMetric{}, fmt.Errorf("no metric for report type %q", rt)
	}
}

func dimensionExpression(key ceTypes.Dimension, values ...string) ceTypes.Expression {
	return ceTypes.Expression{
		Dimensions: &ceTypes.DimensionValues{Key: key, Values: values},
	}
}

// parseTagFilter converte "Key=Value" em expressões de tag.
func parseTagFilter(tags []string) ([]ceTypes.Expression, error) {
	var expressions []ceTypes.Expression
	for _, t := range tags {
		parts := strings.SplitN(t, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf("invalid tag format: %s", t)
		}
		expressions = append(expressions, ceTypes.Expression{
			Tags: &ceTypes.TagValues{
				Key:    aws.String(parts[0]),
				Values: []string{parts[1]},
			},
		})
	}
	return expressions, nil
}

// selectorExpressions narrows the query to the selected dimension values.
// "*" and dimensions Cost Explorer does not know are skipped.
func selectorExpressions(groupBy entity.GroupBy) []ceTypes.Expression {
	names := make([]string, 0, len(groupBy))
	for name := range groupBy {
		names = append(names, name)
	}
	sort.Strings(names)

	var expressions []ceTypes.Expression
	for _, name := range names {
		sel := groupBy[name]
		key, ok := dimensionKeys[entity.Dimension(name)]
		if !ok || len(sel) == 0 || sel.IsAll() {
			continue
		}
		expressions = append(expressions, dimensionExpression(key, sel...))
	}
	return expressions
}

// buildFilter joins every expression with And; nil when there is nothing to filter.
func buildFilter(metric reportMetric, groupBy entity.GroupBy, tags []string) (*ceTypes.Expression, error) {
	tagExpressions, err := parseTagFilter(tags)
	if err != nil {
		return nil, err
	}

	var all []ceTypes.Expression
	all = append(all, metric.Scope...)
	all = append(all, selectorExpressions(groupBy)...)
	all = append(all, tagExpressions...)

	switch len(all) {
	case 0:
		return nil, nil
	case 1:
		return &all[0], nil
	default:
		return &ceTypes.Expression{And: all}, nil
	}
}

func groupDefinitions(groupBy entity.Dimension) []ceTypes.GroupDefinition {
	key, ok := dimensionKeys[groupBy]
	if !ok {
		return nil
	}
	return []ceTypes.GroupDefinition{
		{Type: ceTypes.GroupDefinitionTypeDimension, Key: aws.String(string(key))},
	}
}
