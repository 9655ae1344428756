package main

import (
	"github.com/spf13/cobra"
)

var version = "0.2.0"

var rootCmd = &cobra.Command{
	Use:           "codevet",
	Short:         "Audit open-source repositories with external security scanners",
	Long:          "codevet clones the configured repositories, runs a static-analysis tool\nand a dependency-vulnerability scanner against each, and writes one JSON\nreport per repository.",
	SilenceUsage:  true,
	SilenceErrors: false,
}
