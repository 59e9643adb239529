package cmd

import (
	"fmt"
	"log/slog"

	"reviewkit/api"

	"github.com/spf13/cobra"
)

var (
	newOutFile      string
	newFindingsFile string
	newForce        bool
	newAll          bool
)

// newCmd represents the new command
var newCmd = &cobra.Command{
	Use:   "new [NAME...]",
	Short: "Start a review file from one or more templates",
	Long: `Write a copy of the named templates to a Markdown file that a reviewer can
edit, ticking items and filling in the comment area. With --findings, each
template is followed by an "Issues Found" section listing the findings recorded
for its category in the given YAML file.

Example findings file:

  findings:
    - category: security
      type: hardcoded_credentials
      line: 9
      severity: critical
      message: Hardcoded credentials detected`,
	GroupID: "main",
	RunE:    runNew,
}

func init() {
	rootCmd.AddCommand(newCmd)

	newCmd.Flags().StringVarP(&newOutFile, "out", "o", "review.md", "Review file to create (relative to the current directory)")
	newCmd.Flags().StringVar(&newFindingsFile, "findings", "", "YAML file of reviewer findings to append per template")
	newCmd.Flags().BoolVar(&newForce, "force", false, "Overwrite the review file if it exists")
	newCmd.Flags().BoolVar(&newAll, "all", false, "Include every template in the catalog")
}

func runNew(cmd *cobra.Command, args []string) error {
	catalog, err := loadCatalog()
	if err != nil {
		return err
	}

	names := args
	switch {
	case newAll:
		names = catalog.Names()
	case len(names) == 0:
		names = []string{defaultTemplateName()}
	}

	var findings []api.Finding
	if newFindingsFile != "" {
		findings, err = api.LoadFindings(newFindingsFile)
		if err != nil {
			return err
		}
		if findings == nil {
			findings = []api.Finding{}
		}
	}

	content, err := api.BuildReviewDocument(catalog, names, findings)
	if err != nil {
		return err
	}

	path, err := api.ValidateOutputFileInCwd(newOutFile)
	if err != nil {
		return err
	}
	if err := api.WriteReviewFile(path, content, newForce); err != nil {
		return err
	}

	slog.Debug("Wrote review file", "path", path, "templates", names, "findings", len(findings))
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s from %v\n", newOutFile, names)
	return nil
}
