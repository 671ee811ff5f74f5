package types

// CLIArgs represents the command-line arguments.
type CLIArgs struct {
	ConfigFile string
	Profile    string
	ReportFile string
	ReportType string

	// Query is a raw query string; the individual flags below are applied on top of it.
	Query      string
	GroupBy    string
	Filters    []string
	OrderBy    string
	Ascending  bool
	TimeScope  string
	Resolution string
	Delta      *bool
	Tag        []string
	Chart      string

	ReportName string
	Export     []string
	Dir        string

	Addr      string
	LogLevel  string
	LogFormat string
}
