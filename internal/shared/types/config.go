package types

import "github.com/diillson/cost-report-dashboard-go/internal/shared/logging"

// Config represents the application configuration that can be loaded from a file.
type Config struct {
	Profile    string   `json:"profile" yaml:"profile" toml:"profile"`
	ReportFile string   `json:"report_file" yaml:"report_file" toml:"report_file"`
	ReportType string   `json:"report_type" yaml:"report_type" toml:"report_type"`
	Query      string   `json:"query" yaml:"query" toml:"query"`
	TimeScope  string   `json:"time_scope" yaml:"time_scope" toml:"time_scope"`
	Resolution string   `json:"resolution" yaml:"resolution" toml:"resolution"`
	Tag        []string `json:"tag" yaml:"tag" toml:"tag"`
	Chart      string   `json:"chart" yaml:"chart" toml:"chart"`
	ReportName string   `json:"report_name" yaml:"report_name" toml:"report_name"`
	Export     []string `json:"export" yaml:"export" toml:"export"`
	Dir        string   `json:"dir" yaml:"dir" toml:"dir"`

	Server  ServerConfig   `json:"server" yaml:"server" toml:"server"`
	Logging logging.Config `json:"logging" yaml:"logging" toml:"logging"`
}

// ServerConfig configura o subcomando serve.
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr" toml:"addr"`
	// CacheTTL is a Go duration string, e.g. "5m".
	CacheTTL string `json:"cache_ttl" yaml:"cache_ttl" toml:"cache_ttl"`
}
