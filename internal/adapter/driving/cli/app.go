package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diillson/cost-report-dashboard-go/internal/adapter/driven/aws"
	"github.com/diillson/cost-report-dashboard-go/internal/adapter/driven/cache"
	"github.com/diillson/cost-report-dashboard-go/internal/adapter/driven/file"
	httpapi "github.com/diillson/cost-report-dashboard-go/internal/adapter/driving/http"
	"github.com/diillson/cost-report-dashboard-go/internal/application/usecase"
	"github.com/diillson/cost-report-dashboard-go/internal/domain/repository"
	"github.com/diillson/cost-report-dashboard-go/internal/shared/logging"
	"github.com/diillson/cost-report-dashboard-go/internal/shared/types"
	"github.com/diillson/cost-report-dashboard-go/pkg/version"
)

const defaultAddr = ":8080"

// Dependencies are the adapters that do not depend on command-line flags.
type Dependencies struct {
	Config  repository.ConfigRepository
	Export  repository.ExportRepository
	Console types.ConsoleInterface
}

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd *cobra.Command
	deps    Dependencies
	version string

	// homeDir is where AWS profiles are looked up; empty means the user's home.
	homeDir string
	serve   func(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(versionStr string, deps Dependencies) *CLIApp {
	app := &CLIApp{
		deps:    deps,
		version: versionStr,
		serve:   httpapi.Serve,
	}

	rootCmd := &cobra.Command{
		Use:           "cost-report",
		Short:         "Cost and usage report dashboard",
		Version:       version.FormatVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          app.runDetails,
	}

	rootCmd.SetVersionTemplate(`{{printf "cost-report version: %s\n" .Version}}`)

	flags := rootCmd.PersistentFlags()
	flags.StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	flags.StringP("profile", "p", "", "AWS profile used to query Cost Explorer")
	flags.StringP("report-file", "f", "", "Read reports from a JSON, YAML or TOML file instead of AWS ({type} is replaced by the report type)")
	flags.StringP("report-type", "T", "", "Report type: cost, storage, instance_type (default cost)")
	flags.StringP("query", "q", "", "Raw report query, e.g. 'group_by[service]=*&filter[time_scope_value]=-3'")
	flags.StringP("group-by", "g", "", "Dimension to group by: account, service, region, instance_type, date")
	flags.StringSlice("filter", nil, "Restrict a dimension to a value, e.g. --filter account=123456789012")
	flags.String("order-by", "", "Column to sort by, e.g. total or service")
	flags.Bool("asc", false, "Sort ascending")
	flags.String("time-scope", "", "Time scope as units:value, e.g. month:-1 or day:-7")
	flags.String("resolution", "", "Resolution of the data: monthly or daily")
	flags.Bool("delta", true, "Compare with the previous period")
	flags.StringSlice("tag", nil, "Cost allocation tag to filter resources, e.g., --tag Team=DevOps")
	flags.StringP("report-name", "n", "", "Specify the base name for the report file (without extension)")
	flags.StringSliceP("export", "y", nil, "Export formats: csv, json, pdf")
	flags.StringP("dir", "d", "", "Directory to save the report files (default: current directory)")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.String("log-format", "", "Log format: console or json")

	trendCmd := &cobra.Command{
		Use:   "trend",
		Short: "Show daily totals of the current and previous month",
		RunE:  app.runTrend,
	}
	trendCmd.Flags().String("chart", "", "Chart type: daily or rolling (default daily)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve reports over HTTP",
		RunE:  app.runServe,
	}
	serveCmd.Flags().String("addr", "", "Address to listen on (default "+defaultAddr+")")
	serveCmd.Flags().Duration("cache-ttl", cache.DefaultTTL, "How long fetched reports are served from memory")

	rootCmd.AddCommand(trendCmd, serveCmd)
	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

// parseArgs parses command-line arguments into a CLIArgs struct, filling
// what the flags left empty from the config file.
func (app *CLIApp) parseArgs(cmd *cobra.Command) (*types.CLIArgs, *types.Config, error) {
	flags := cmd.Flags()
	str := func(name string) string {
		v, _ := flags.GetString(name)
		return v
	}
	slice := func(name string) []string {
		v, _ := flags.GetStringSlice(name)
		return v
	}

	ascending, _ := flags.GetBool("asc")
	args := &types.CLIArgs{
		ConfigFile: str("config-file"),
		Profile:    str("profile"),
		ReportFile: str("report-file"),
		ReportType: str("report-type"),
		Query:      str("query"),
		GroupBy:    str("group-by"),
		Filters:    slice("filter"),
		OrderBy:    str("order-by"),
		Ascending:  ascending,
		TimeScope:  str("time-scope"),
		Resolution: str("resolution"),
		Tag:        slice("tag"),
		Chart:      str("chart"),
		ReportName: str("report-name"),
		Export:     slice("export"),
		Dir:        str("dir"),
		Addr:       str("addr"),
		LogLevel:   str("log-level"),
		LogFormat:  str("log-format"),
	}
	if flags.Changed("delta") {
		delta, _ := flags.GetBool("delta")
		args.Delta = &delta
	}

	cfg := &types.Config{}
	if args.ConfigFile != "" {
		loaded, err := app.deps.Config.LoadConfigFile(args.ConfigFile)
		if err != nil {
			return nil, nil, err
		}
		cfg = loaded
	}
	mergeConfig(args, cfg)

	if args.Dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, nil, err
		}
		args.Dir = cwd
	} else {
		absDir, err := filepath.Abs(args.Dir)
		if err != nil {
			return nil, nil, err
		}
		args.Dir = absDir
	}

	return args, cfg, nil
}

// mergeConfig fills the arguments the command line left empty from the config file.
func mergeConfig(args *types.CLIArgs, cfg *types.Config) {
	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&args.Profile, cfg.Profile)
	fill(&args.ReportFile, cfg.ReportFile)
	fill(&args.ReportType, cfg.ReportType)
	fill(&args.Query, cfg.Query)
	fill(&args.TimeScope, cfg.TimeScope)
	fill(&args.Resolution, cfg.Resolution)
	fill(&args.Chart, cfg.Chart)
	fill(&args.ReportName, cfg.ReportName)
	fill(&args.Dir, cfg.Dir)
	fill(&args.Addr, cfg.Server.Addr)
	fill(&args.LogLevel, cfg.Logging.Level)
	fill(&args.LogFormat, cfg.Logging.Format)

	if len(args.Tag) == 0 {
		args.Tag = cfg.Tag
	}
	if len(args.Export) == 0 {
		args.Export = cfg.Export
	}
}

func newLogger(args *types.CLIArgs, cfg logging.Config) (*zap.Logger, error) {
	if args.LogLevel != "" {
		cfg.Level = args.LogLevel
	}
	if args.LogFormat != "" {
		cfg.Format = args.LogFormat
	}
	return logging.New(cfg)
}

// reportSource picks the file source when a report file is set, AWS otherwise.
func (app *CLIApp) reportSource(args *types.CLIArgs, logger *zap.Logger) (repository.ReportRepository, error) {
	if args.ReportFile != "" {
		return file.NewReportRepository(args.ReportFile, logger), nil
	}

	profiles := aws.ListProfiles(app.homeDir)
	switch {
	case args.Profile != "":
		if !slices.Contains(profiles, args.Profile) {
			logger.Warn("profile not found in AWS config files", zap.String("profile", args.Profile))
		}
	case len(profiles) == 0 && os.Getenv("AWS_ACCESS_KEY_ID") == "" && os.Getenv("AWS_PROFILE") == "":
		return nil, types.ErrNoReportSource
	}

	return aws.NewReportRepository(args.Profile, args.Tag, logger), nil
}

type runContext struct {
	args   *types.CLIArgs
	cfg    *types.Config
	logger *zap.Logger
	source repository.ReportRepository
}

func (app *CLIApp) prepare(cmd *cobra.Command) (*runContext, error) {
	args, cfg, err := app.parseArgs(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(args, cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("error creating logger: %w", err)
	}

	source, err := app.reportSource(args, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("report source selected", zap.String("source", source.Name()))

	return &runContext{args: args, cfg: cfg, logger: logger, source: source}, nil
}

func (app *CLIApp) useCase(rc *runContext, reportCache repository.ReportCache) *usecase.ReportUseCase {
	return usecase.NewReportUseCase(rc.source, reportCache, app.deps.Export, app.deps.Console, rc.logger)
}

func (app *CLIApp) greet() {
	displayWelcomeBanner()
	go version.CheckLatestVersion(app.version)
}

// runDetails é o ponto de entrada principal para o comando CLI.
func (app *CLIApp) runDetails(cmd *cobra.Command, _ []string) error {
	app.greet()

	rc, err := app.prepare(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = rc.logger.Sync() }()

	return app.useCase(rc, nil).RunDetails(cmd.Context(), rc.args)
}

func (app *CLIApp) runTrend(cmd *cobra.Command, _ []string) error {
	app.greet()

	rc, err := app.prepare(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = rc.logger.Sync() }()

	return app.useCase(rc, nil).RunTrend(cmd.Context(), rc.args)
}

func (app *CLIApp) runServe(cmd *cobra.Command, _ []string) error {
	ttl, _ := cmd.Flags().GetDuration("cache-ttl")

	rc, err := app.prepare(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = rc.logger.Sync() }()

	if !cmd.Flags().Changed("cache-ttl") && rc.cfg.Server.CacheTTL != "" {
		if ttl, err = time.ParseDuration(rc.cfg.Server.CacheTTL); err != nil {
			return fmt.Errorf("invalid server.cache_ttl: %w", err)
		}
	}

	base, err := usecase.QueryFromArgs(rc.args)
	if err != nil {
		return err
	}

	handler := httpapi.NewRouter(httpapi.Deps{
		Reports:   app.useCase(rc, cache.NewStore(ttl)),
		BaseQuery: base,
		Logger:    rc.logger,
		Version:   version.Version,
		Commit:    version.Commit,
		BuildDate: version.BuildTime,
	})

	addr := rc.args.Addr
	if addr == "" {
		addr = defaultAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.serve(ctx, addr, handler, rc.logger)
}
