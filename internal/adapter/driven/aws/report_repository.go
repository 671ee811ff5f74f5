package aws

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	ceTypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"go.uber.org/zap"

	"github.com/diillson/cost-report-dashboard-go/internal/domain/aggregator"
	"github.com/diillson/cost-report-dashboard-go/internal/domain/entity"
	"github.com/diillson/cost-report-dashboard-go/internal/domain/repository"
)

// SourceName identifies this source in logs and metrics.
const SourceName = "aws"

// Cost Explorer só responde em us-east-1.
const costExplorerRegion = "us-east-1"

type costExplorerAPI interface {
	GetCostAndUsage(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error)
}

type iamAPI interface {
	ListAccountAliases(ctx context.Context, params *iam.ListAccountAliasesInput, optFns ...func(*iam.Options)) (*iam.ListAccountAliasesOutput, error)
}

type stsAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// ReportRepositoryImpl builds reports from AWS Cost Explorer.
type ReportRepositoryImpl struct {
	profile string
	tags    []string
	logger  *zap.Logger
	now     func() time.Time

	mu       sync.Mutex
	cfgCache map[string]aws.Config
	ce       costExplorerAPI
	iam      iamAPI
	sts      stsAPI
}

// NewReportRepository cria um ReportRepository para o perfil AWS informado.
// Tags in Key=Value form restrict every query.
func NewReportRepository(profile string, tags []string, logger *zap.Logger) repository.ReportRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportRepositoryImpl{
		profile:  profile,
		tags:     tags,
		logger:   logger.With(zap.String("source", SourceName), zap.String("profile", profile)),
		now:      time.Now,
		cfgCache: make(map[string]aws.Config),
	}
}

// Name implements repository.ReportRepository.
func (r *ReportRepositoryImpl) Name() string {
	return SourceName
}

func (r *ReportRepositoryImpl) getAWSConfig(ctx context.Context, profile string) (aws.Config, error) {
	if cfg, ok := r.cfgCache[profile]; ok {
		return cfg, nil
	}

	var opts []func(*config.LoadOptions) error
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config for profile %s: %w", profile, err)
	}

	r.cfgCache[profile] = cfg
	return cfg, nil
}

// clients creates the service clients on first use.
func (r *ReportRepositoryImpl) clients(ctx context.Context) (costExplorerAPI, iamAPI, stsAPI, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ce != nil {
		return r.ce, r.iam, r.sts, nil
	}

	cfg, err := r.getAWSConfig(ctx, r.profile)
	if err != nil {
		return nil, nil, nil, err
	}

	ceCfg := cfg.Copy()
	ceCfg.Region = costExplorerRegion
	r.ce = costexplorer.NewFromConfig(ceCfg)

	globalCfg := cfg.Copy()
	if globalCfg.Region == "" {
		globalCfg.Region = costExplorerRegion
	}
	r.iam = iam.NewFromConfig(globalCfg)
	r.sts = sts.NewFromConfig(globalCfg)

	return r.ce, r.iam, r.sts, nil
}

// FetchReport implements repository.ReportRepository.
func (r *ReportRepositoryImpl) FetchReport(ctx context.Context, reportType entity.ReportType, q entity.Query) (*entity.Report, error) {
	metric, err := metricFor(reportType)
	if err != nil {
		return nil, err
	}
	current, previous, err := resolvePeriods(r.now().UTC(), q.Filter)
	if err != nil {
		return nil, err
	}
	gran, err := granularity(q.Filter.Resolution)
	if err != nil {
		return nil, err
	}
	filter, err := buildFilter(metric, q.GroupBy, r.tags)
	if err != nil {
		return nil, err
	}

	ce, iamClient, stsClient, err := r.clients(ctx)
	if err != nil {
		return nil, err
	}

	groupBy := aggregator.ResolveGroupingKey(q.GroupBy)
	input := &costexplorer.GetCostAndUsageInput{
		TimePeriod:  current.interval(),
		Granularity: gran,
		Metrics:     []string{metric.Metric},
		GroupBy:     groupDefinitions(groupBy),
		Filter:      filter,
	}

	r.logger.Debug("fetching cost and usage",
		zap.String("report_type", string(reportType)),
		zap.String("group_by", string(groupBy)),
		zap.String("start", current.Start.Format(dateLayout)),
		zap.String("end", current.End.Format(dateLayout)),
	)

	results, attrs, err := getCostAndUsage(ctx, ce, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get cost and usage: %w", err)
	}

	in := treeInput{
		Metric:  metric.Metric,
		GroupBy: groupBy,
		Results: results,
	}

	if q.DeltaEnabled() {
		prevInput := *input
		prevInput.TimePeriod = previous.interval()
		prevInput.Granularity = ceTypes.GranularityMonthly
		prevResults, _, err := getCostAndUsage(ctx, ce, &prevInput)
		if err != nil {
			return nil, fmt.Errorf("failed to get previous period cost and usage: %w", err)
		}
		in.Previous = keyTotals(metric.Metric, groupBy, prevResults)
	}

	if groupBy == entity.DimensionAccount {
		in.Aliases = r.accountAliases(ctx, iamClient, stsClient, attrs)
	}

	return buildReport(in), nil
}

// getCostAndUsage follows NextPageToken until every page is read.
func getCostAndUsage(ctx context.Context, ce costExplorerAPI, input *costexplorer.GetCostAndUsageInput) ([]ceTypes.ResultByTime, []ceTypes.DimensionValuesWithAttributes, error) {
	var (
		results []ceTypes.ResultByTime
		attrs   []ceTypes.DimensionValuesWithAttributes
	)
	page := *input
	for {
		out, err := ce.GetCostAndUsage(ctx, &page)
		if err != nil {
			return nil, nil, err
		}
		results = append(results, out.ResultsByTime...)
		attrs = append(attrs, out.DimensionValueAttributes...)
		if aws.ToString(out.NextPageToken) == "" {
			return results, attrs, nil
		}
		page.NextPageToken = out.NextPageToken
	}
}

// accountAliases usa a descrição devolvida pelo Cost Explorer e, para a conta
// do próprio chamador, o alias do IAM.
func (r *ReportRepositoryImpl) accountAliases(ctx context.Context, iamClient iamAPI, stsClient stsAPI, attrs []ceTypes.DimensionValuesWithAttributes) map[string]string {
	aliases := make(map[string]string, len(attrs))
	for _, a := range attrs {
		if name := a.Attributes["description"]; name != "" {
			aliases[aws.ToString(a.Value)] = name
		}
	}

	identity, err := stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		r.logger.Debug("could not resolve caller account", zap.Error(err))
		return aliases
	}
	account := aws.ToString(identity.Account)
	if account == "" || aliases[account] != "" {
		return aliases
	}

	out, err := iamClient.ListAccountAliases(ctx, &iam.ListAccountAliasesInput{})
	if err != nil {
		r.logger.Debug("could not list account aliases", zap.Error(err))
		return aliases
	}
	if len(out.AccountAliases) > 0 {
		aliases[account] = out.AccountAliases[0]
	}
	return aliases
}
