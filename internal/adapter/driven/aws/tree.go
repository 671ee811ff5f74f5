package aws

import (
	"math"

	"github.com/aws/aws-sdk-go-v2/aws"
	ceTypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/shopspring/decimal"

	"github.com/diillson/cost-report-dashboard-go/internal/domain/entity"
)

// treeInput holds everything buildReport needs from Cost Explorer.
type treeInput struct {
	Metric  string
	GroupBy entity.Dimension
	Results []ceTypes.ResultByTime
	// Aliases maps account ids to display names.
	Aliases map[string]string
	// Previous holds per-key totals of the comparison period; nil disables deltas.
	Previous map[string]float64
}

// buildReport monta a árvore do relatório: um DataPoint por intervalo de
// tempo, com um filho por chave de agrupamento.
func buildReport(in treeInput) *entity.Report {
	report := &entity.Report{Data: make([]entity.DataPoint, 0, len(in.Results))}

	current := make(map[string]decimal.Decimal)
	reportTotal := decimal.Zero

	for _, bucket := range in.Results {
		date := ""
		if bucket.TimePeriod != nil {
			date = aws.ToString(bucket.TimePeriod.Start)
		}
		dp := entity.DataPoint{Date: date}

		if in.GroupBy == entity.DimensionDate {
			if metric, ok := bucket.Total[in.Metric]; ok {
				amount := parseAmount(metric)
				v := newValue(metric, amount, date)
				dp.Values = []entity.Value{v}
				current[""] = current[""].Add(amount)
				reportTotal = reportTotal.Add(amount)
				setUnits(report, v.Units)
			}
			report.Data = append(report.Data, dp)
			continue
		}

		var children []entity.DataPoint
		for _, group := range bucket.Groups {
			if len(group.Keys) == 0 {
				continue
			}
			metric, ok := group.Metrics[in.Metric]
			if !ok {
				continue
			}
			key := group.Keys[0]
			amount := parseAmount(metric)
			v := newValue(metric, amount, date)
			setDimension(&v, in.GroupBy, key, in.Aliases)

			current[key] = current[key].Add(amount)
			reportTotal = reportTotal.Add(amount)
			setUnits(report, v.Units)
			children = append(children, entity.DataPoint{Values: []entity.Value{v}})
		}
		attach(&dp, in.GroupBy, children)
		report.Data = append(report.Data, dp)
	}

	report.Total.Value = reportTotal.InexactFloat64()
	if in.Previous != nil && in.GroupBy != entity.DimensionDate {
		applyDeltas(report, in.GroupBy, current, in.Previous)
	}
	return report
}

// parseAmount reads a Cost Explorer amount as a decimal. Amounts that are not
// plain decimal numbers, NaN and Inf included, count as zero.
func parseAmount(metric ceTypes.MetricValue) decimal.Decimal {
	amount, err := decimal.NewFromString(aws.ToString(metric.Amount))
	if err != nil {
		return decimal.Zero
	}
	return amount
}

// finite converts f to a decimal; NaN and Inf become zero.
func finite(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

func newValue(metric ceTypes.MetricValue, amount decimal.Decimal, date string) entity.Value {
	return entity.Value{
		Total: amount.InexactFloat64(),
		Units: aws.ToString(metric.Unit),
		Date:  date,
	}
}

func setUnits(report *entity.Report, units string) {
	if report.Total.Units == "" {
		report.Total.Units = units
	}
}

func setDimension(v *entity.Value, d entity.Dimension, key string, aliases map[string]string) {
	switch d {
	case entity.DimensionAccount:
		v.Account = key
		v.AccountAlias = aliases[key]
	case entity.DimensionService:
		v.Service = key
	case entity.DimensionRegion:
		v.Region = key
	case entity.DimensionInstanceType:
		v.InstanceType = key
	}
}

func attach(dp *entity.DataPoint, d entity.Dimension, children []entity.DataPoint) {
	switch d {
	case entity.DimensionAccount:
		dp.Accounts = children
	case entity.DimensionService:
		dp.Services = children
	case entity.DimensionRegion:
		dp.Regions = children
	case entity.DimensionInstanceType:
		dp.InstanceTypes = children
	}
}

// applyDeltas sets delta_value and delta_percent on every Value of a key,
// comparing whole-period totals.
func applyDeltas(report *entity.Report, d entity.Dimension, current map[string]decimal.Decimal, previous map[string]float64) {
	type delta struct {
		value   float64
		percent *float64
	}
	deltas := make(map[string]delta, len(current))
	for key, total := range current {
		prev := finite(previous[key])
		diff := total.Sub(prev)
		dl := delta{value: diff.InexactFloat64()}
		if !prev.IsZero() {
			p := diff.Div(prev).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
			dl.percent = &p
		}
		deltas[key] = dl
	}

	for i := range report.Data {
		for _, group := range report.Data[i].Groups() {
			for j := range group {
				for k := range group[j].Values {
					v := &group[j].Values[k]
					dl, ok := deltas[v.Field(d)]
					if !ok {
						continue
					}
					value := dl.value
					v.DeltaValue = &value
					v.DeltaPercent = dl.percent
				}
			}
		}
	}
}

// keyTotals sums a grouped response per key.
func keyTotals(metric string, groupBy entity.Dimension, results []ceTypes.ResultByTime) map[string]float64 {
	sums := make(map[string]decimal.Decimal)
	for _, bucket := range results {
		if groupBy == entity.DimensionDate {
			if m, ok := bucket.Total[metric]; ok {
				sums[""] = sums[""].Add(parseAmount(m))
			}
			continue
		}
		for _, group := range bucket.Groups {
			m, ok := group.Metrics[metric]
			if !ok || len(group.Keys) == 0 {
				continue
			}
			sums[group.Keys[0]] = sums[group.Keys[0]].Add(parseAmount(m))
		}
	}

	out := make(map[string]float64, len(sums))
	for k, v := range sums {
		out[k] = v.InexactFloat64()
	}
	return out
}
