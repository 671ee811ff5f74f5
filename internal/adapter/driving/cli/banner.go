package cli

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/diillson/cost-report-dashboard-go/pkg/version"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner() {
	banner := `
   ___           _     ___                       _
  / __|___  ___ | |_  | _ \ ___  _ __  ___  _ _ | |_
 | (__/ _ \(_-< |  _| |   // -_)| '_ \/ _ \| '_||  _|
  \___\___//__/  \__| |_|_\\___|| .__/\___/|_|   \__|
                                |_|
`
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()

	fmt.Println(red(banner))
	fmt.Println(blue(fmt.Sprintf("Cost Report Dashboard CLI (v%s)", version.FormatVersion())))
}
