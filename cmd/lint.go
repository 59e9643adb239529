package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"reviewkit/api/lint"
	"reviewkit/api/telemetry"

	"github.com/spf13/cobra"
)

// errLintFailed makes the process exit non-zero after the report has been printed.
var errLintFailed = errors.New("one or more templates failed validation")

var (
	lintOutputFormat string
	lintOutputFile   string
	lintStrict       bool
)

// lintCmd represents the lint command
var lintCmd = &cobra.Command{
	Use:   "lint [NAME|FILE.md ...]",
	Short: "Validate the structure of review templates",
	Long: `Check that each template has well-formed headings, a title, at least one
section with at least one check item, and exactly one comment area at the end.

Arguments are catalog template names or paths to Markdown files. With no
arguments every template in the catalog is checked.`,
	GroupID: "main",
	RunE:    runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVar(&lintOutputFormat, "output", "", "Output format (text, json or junit)")
	lintCmd.Flags().StringVar(&lintOutputFile, "output-file", "", "Write the report to a file (useful with junit)")
	lintCmd.Flags().BoolVar(&lintStrict, "strict", false, "Treat warnings as failures")
}

func runLint(cmd *cobra.Command, args []string) error {
	suite, err := lintTargets(args)
	if err != nil {
		return err
	}

	if err := reportLint(cmd, suite); err != nil {
		return err
	}

	if suite.Failed > 0 || (lintStrict && suite.Warnings > 0) {
		telemetry.TrackError("lint_failed")
		return errLintFailed
	}
	return nil
}

// lintTargets lints files when every argument is a Markdown path, otherwise
// catalog templates by name.
func lintTargets(args []string) (*lint.Suite, error) {
	if len(args) > 0 && allMarkdownFiles(args) {
		return lint.RunFiles(args)
	}
	catalog, err := loadCatalog()
	if err != nil {
		return nil, err
	}
	return lint.Run(catalog, args)
}

func allMarkdownFiles(args []string) bool {
	for _, arg := range args {
		if !strings.HasSuffix(strings.ToLower(arg), ".md") {
			return false
		}
		if _, err := os.Stat(arg); err != nil {
			return false
		}
	}
	return true
}

// reportLint prints the lint results to stdout or file.
func reportLint(cmd *cobra.Command, suite *lint.Suite) error {
	format := lintOutputFormat
	if format == "" && cfg != nil {
		format = cfg.OutputFormat
	}

	var reporter lint.Reporter
	switch format {
	case "junit":
		reporter = lint.NewJUnitReporter(cmd.OutOrStdout())
	case "json":
		reporter = lint.NewJSONReporter(cmd.OutOrStdout())
	case "", "text":
		reporter = lint.NewTextReporter(cmd.OutOrStdout(), verbose)
	default:
		return fmt.Errorf("unknown output format %q (expected text, json or junit)", format)
	}

	if lintOutputFile != "" {
		return lint.ReportToFile(reporter, suite, lintOutputFile)
	}
	return reporter.Report(suite)
}
