package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/diillson/cost-report-dashboard-go/internal/domain/entity"
	"github.com/diillson/cost-report-dashboard-go/internal/domain/repository"
)

// SourceName identifies this source in logs and metrics.
const SourceName = "file"

// ReportRepositoryImpl lê relatórios já montados de arquivos JSON, YAML ou TOML.
//
// The path may contain a "{type}" placeholder, replaced by the report type,
// so one pattern can serve cost, storage and instance_type reports.
type ReportRepositoryImpl struct {
	path   string
	logger *zap.Logger
}

// NewReportRepository cria um ReportRepository baseado em arquivo.
func NewReportRepository(path string, logger *zap.Logger) repository.ReportRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportRepositoryImpl{
		path:   path,
		logger: logger.With(zap.String("source", SourceName)),
	}
}

// Name implements repository.ReportRepository.
func (r *ReportRepositoryImpl) Name() string {
	return SourceName
}

// FetchReport implements repository.ReportRepository. Query filters are not
// applied; the document is returned as stored.
func (r *ReportRepositoryImpl) FetchReport(ctx context.Context, reportType entity.ReportType, _ entity.Query) (*entity.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := strings.ReplaceAll(r.path, "{type}", string(reportType))
	r.logger.Debug("loading report file", zap.String("path", path), zap.String("report_type", string(reportType)))
	return LoadReport(path)
}

// LoadReport decodes a report document, choosing the format by extension.
func LoadReport(path string) (*entity.Report, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing report file: %w", err)
	}
	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading report file: %w", err)
	}

	var report entity.Report
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, &report); err != nil {
			return nil, fmt.Errorf("error parsing JSON report: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &report); err != nil {
			return nil, fmt.Errorf("error parsing YAML report: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &report); err != nil {
			return nil, fmt.Errorf("error parsing TOML report: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported report file format: %s", ext)
	}

	return &report, nil
}
