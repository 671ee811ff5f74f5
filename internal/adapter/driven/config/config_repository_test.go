package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/diillson/cost-report-dashboard-go/internal/shared/types"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoadConfigFileFormats(t *testing.T) {
	files := map[string]string{
		"config.toml": `
profile = "prod"
report_type = "storage"
query = "group_by[service]=*"
export = ["csv", "pdf"]
tag = ["Team=DevOps"]

[server]
addr = ":9090"
cache_ttl = "10m"

[logging]
level = "debug"
format = "json"
`,
		"config.yaml": `
profile: prod
report_type: storage
query: group_by[service]=*
export: [csv, pdf]
tag: [Team=DevOps]
server:
  addr: ":9090"
  cache_ttl: 10m
logging:
  level: debug
  format: json
`,
		"config.json": `{
  "profile": "prod",
  "report_type": "storage",
  "query": "group_by[service]=*",
  "export": ["csv", "pdf"],
  "tag": ["Team=DevOps"],
  "server": {"addr": ":9090", "cache_ttl": "10m"},
  "logging": {"level": "debug", "format": "json"}
}`,
	}

	repo := NewConfigRepository()
	for name, content := range files {
		cfg, err := repo.LoadConfigFile(write(t, name, content))
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if cfg.Profile != "prod" || cfg.ReportType != "storage" || cfg.Query != "group_by[service]=*" {
			t.Fatalf("%s: unexpected config %+v", name, cfg)
		}
		if len(cfg.Export) != 2 || cfg.Tag[0] != "Team=DevOps" {
			t.Fatalf("%s: unexpected lists %+v", name, cfg)
		}
		if cfg.Server.Addr != ":9090" || cfg.Server.CacheTTL != "10m" {
			t.Fatalf("%s: unexpected server %+v", name, cfg.Server)
		}
		if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
			t.Fatalf("%s: unexpected logging %+v", name, cfg.Logging)
		}
	}
}

func TestLoadConfigFileErrors(t *testing.T) {
	repo := NewConfigRepository()

	if _, err := repo.LoadConfigFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, err := repo.LoadConfigFile(write(t, "config.ini", "x=1")); err == nil {
		t.Fatal("expected unsupported format error")
	}

	_, err := repo.LoadConfigFile(write(t, "config.json", `{"report_type": "network"}`))
	if !errors.Is(err, types.ErrUnknownReportType) {
		t.Fatalf("expected ErrUnknownReportType, got %v", err)
	}

	_, err = repo.LoadConfigFile(write(t, "config.json", `{"export": ["xlsx"]}`))
	if !errors.Is(err, types.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}

	if _, err := repo.LoadConfigFile(write(t, "config.json", `{"server": {"cache_ttl": "soon"}}`)); err == nil {
		t.Fatal("expected cache_ttl error")
	}
}
