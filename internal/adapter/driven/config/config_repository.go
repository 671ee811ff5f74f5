package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/diillson/cost-report-dashboard-go/internal/domain/entity"
	"github.com/diillson/cost-report-dashboard-go/internal/domain/repository"
	"github.com/diillson/cost-report-dashboard-go/internal/shared/types"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// ConfigRepositoryImpl implementa o ConfigRepository.
type ConfigRepositoryImpl struct{}

// NewConfigRepository cria uma nova implementação do ConfigRepository.
func NewConfigRepository() repository.ConfigRepository {
	return &ConfigRepositoryImpl{}
}

// LoadConfigFile carrega um arquivo de configuração TOML, YAML ou JSON.
func (r *ConfigRepositoryImpl) LoadConfigFile(filePath string) (*types.Config, error) {
	fileExtension := filepath.Ext(filePath)
	fileExtension = strings.ToLower(fileExtension)

	// Verifica se o arquivo existe
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error accessing config file: %w", err)
	}

	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", filePath)
	}

	// Lê o arquivo
	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config types.Config

	switch fileExtension {
	case ".toml":
		if err := toml.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing JSON file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", fileExtension)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", filePath, err)
	}

	return &config, nil
}

// validate rejeita valores que o restante da aplicação não saberia tratar.
func validate(cfg *types.Config) error {
	if cfg.ReportType != "" {
		if _, ok := entity.ParseReportType(cfg.ReportType); !ok {
			return fmt.Errorf("%w: %q", types.ErrUnknownReportType, cfg.ReportType)
		}
	}
	for _, format := range cfg.Export {
		switch strings.ToLower(format) {
		case "csv", "json", "pdf":
		default:
			return fmt.Errorf("%w: export %q", types.ErrUnsupportedFormat, format)
		}
	}
	if cfg.Server.CacheTTL != "" {
		if _, err := time.ParseDuration(cfg.Server.CacheTTL); err != nil {
			return fmt.Errorf("cache_ttl: %w", err)
		}
	}
	return nil
}
