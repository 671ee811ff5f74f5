package main

import (
	"fmt"
	"os"

	"github.com/diillson/cost-report-dashboard-go/internal/adapter/driven/config"
	"github.com/diillson/cost-report-dashboard-go/internal/adapter/driven/export"
	"github.com/diillson/cost-report-dashboard-go/internal/adapter/driving/cli"
	"github.com/diillson/cost-report-dashboard-go/pkg/console"
	"github.com/diillson/cost-report-dashboard-go/pkg/version"
)

func main() {
	// Repositórios independentes das flags; a fonte de relatórios é escolhida
	// pelo próprio CLI a partir de --report-file/--profile.
	app := cli.NewCLIApp(version.Version, cli.Dependencies{
		Config:  config.NewConfigRepository(),
		Export:  export.NewExportRepository(),
		Console: console.NewConsole(),
	})

	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
