package aws

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	ceTypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"go.uber.org/zap"

	"github.com/diillson/cost-report-dashboard-go/internal/domain/entity"
)

type fakeCostExplorer struct {
	pages  []*costexplorer.GetCostAndUsageOutput
	inputs []costexplorer.GetCostAndUsageInput
	err    error
}

func (f *fakeCostExplorer) GetCostAndUsage(_ context.Context, params *costexplorer.GetCostAndUsageInput, _ ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error) {
	f.inputs = append(f.inputs, *params)
	if f.err != nil {
		return nil, f.err
	}
	out := f.pages[0]
	f.pages = f.pages[1:]
	return out, nil
}

type fakeIAM struct{ aliases []string }

func (f fakeIAM) ListAccountAliases(context.Context, *iam.ListAccountAliasesInput, ...func(*iam.Options)) (*iam.ListAccountAliasesOutput, error) {
	return &iam.ListAccountAliasesOutput{AccountAliases: f.aliases}, nil
}

type fakeSTS struct{ account string }

func (f fakeSTS) GetCallerIdentity(context.Context, *sts.GetCallerIdentityInput, ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	return &sts.GetCallerIdentityOutput{Account: aws.String(f.account)}, nil
}

func newTestRepository(ce costExplorerAPI) *ReportRepositoryImpl {
	return &ReportRepositoryImpl{
		logger:   zap.NewNop(),
		now:      func() time.Time { return time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC) },
		cfgCache: map[string]aws.Config{},
		ce:       ce,
		iam:      fakeIAM{aliases: []string{"my-alias"}},
		sts:      fakeSTS{account: "222"},
	}
}

func TestFetchReportPaginatesAndResolvesAliases(t *testing.T) {
	ce := &fakeCostExplorer{pages: []*costexplorer.GetCostAndUsageOutput{
		{
			ResultsByTime: []ceTypes.ResultByTime{bucket("2024-03-01", map[string]string{"111": "10"})},
			DimensionValueAttributes: []ceTypes.DimensionValuesWithAttributes{
				{Value: aws.String("111"), Attributes: map[string]string{"description": "production"}},
			},
			NextPageToken: aws.String("next"),
		},
		{
			ResultsByTime: []ceTypes.ResultByTime{bucket("2024-03-01", map[string]string{"222": "4"})},
		},
	}}

	repo := newTestRepository(ce)
	q := entity.Query{GroupBy: entity.GroupBy{"account": {"*"}}}
	report, err := repo.FetchReport(context.Background(), entity.ReportTypeCost, q)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if len(ce.inputs) != 2 || aws.ToString(ce.inputs[1].NextPageToken) != "next" {
		t.Fatalf("expected two paged calls, got %+v", ce.inputs)
	}
	in := ce.inputs[0]
	if aws.ToString(in.TimePeriod.Start) != "2024-03-01" || aws.ToString(in.TimePeriod.End) != "2024-03-15" {
		t.Fatalf("unexpected period %v..%v", aws.ToString(in.TimePeriod.Start), aws.ToString(in.TimePeriod.End))
	}
	if in.Granularity != ceTypes.GranularityMonthly || in.Metrics[0] != "UnblendedCost" || in.Filter != nil {
		t.Fatalf("unexpected input %+v", in)
	}

	if report.Total.Value != 14 || len(report.Data) != 2 {
		t.Fatalf("unexpected report %+v", report)
	}
	if alias := report.Data[0].Accounts[0].Values[0].AccountAlias; alias != "production" {
		t.Fatalf("expected description alias, got %q", alias)
	}
	if alias := report.Data[1].Accounts[0].Values[0].AccountAlias; alias != "my-alias" {
		t.Fatalf("expected IAM alias for caller account, got %q", alias)
	}
}

func TestFetchReportWithDeltaFetchesPreviousPeriod(t *testing.T) {
	ce := &fakeCostExplorer{pages: []*costexplorer.GetCostAndUsageOutput{
		{ResultsByTime: []ceTypes.ResultByTime{bucket("2024-03-01", map[string]string{"111": "30"})}},
		{ResultsByTime: []ceTypes.ResultByTime{bucket("2024-02-01", map[string]string{"111": "20"})}},
	}}

	repo := newTestRepository(ce)
	q := entity.Query{
		Delta:   entity.Bool(true),
		Filter:  entity.Filter{Resolution: "daily"},
		GroupBy: entity.GroupBy{"service": {"*"}},
	}
	report, err := repo.FetchReport(context.Background(), entity.ReportTypeCost, q)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if len(ce.inputs) != 2 {
		t.Fatalf("expected current and previous calls, got %d", len(ce.inputs))
	}
	if ce.inputs[0].Granularity != ceTypes.GranularityDaily || ce.inputs[1].Granularity != ceTypes.GranularityMonthly {
		t.Fatalf("unexpected granularities %v %v", ce.inputs[0].Granularity, ce.inputs[1].Granularity)
	}
	if aws.ToString(ce.inputs[1].TimePeriod.Start) != "2024-02-01" {
		t.Fatalf("unexpected previous start %s", aws.ToString(ce.inputs[1].TimePeriod.Start))
	}

	v := report.Data[0].Services[0].Values[0]
	if v.Service != "111" || v.DeltaValue == nil || *v.DeltaValue != 10 || *v.DeltaPercent != 50 {
		t.Fatalf("unexpected value %+v", v)
	}
}

func TestFetchReportErrors(t *testing.T) {
	repo := newTestRepository(&fakeCostExplorer{err: errors.New("throttled")})
	if _, err := repo.FetchReport(context.Background(), entity.ReportTypeCost, entity.Query{}); err == nil {
		t.Fatal("expected source error")
	}
	if _, err := repo.FetchReport(context.Background(), entity.ReportType("bogus"), entity.Query{}); err == nil {
		t.Fatal("expected error for unknown report type")
	}
	q := entity.Query{Filter: entity.Filter{Resolution: "weekly"}}
	if _, err := repo.FetchReport(context.Background(), entity.ReportTypeCost, q); err == nil {
		t.Fatal("expected error for bad resolution")
	}
}
