package main

import (
	"github.com/spf13/cobra"
)

var policyPath string

var rootCmd = &cobra.Command{
	Use:   "htmlsanitize [html_file]",
	Short: "Sanitize an HTML fragment against a declarative policy",
	Long: `htmlsanitize parses an HTML fragment, applies a Policy loaded from a
YAML or JSON file (or the built-in default policy when none is given), and
writes the sanitized fragment to stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSanitize,
}

func init() {
	rootCmd.Flags().StringVarP(&policyPath, "policy", "p", "", "path to a YAML or JSON policy file (default policy when omitted)")
}
