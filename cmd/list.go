package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"reviewkit/api"

	"github.com/spf13/cobra"
)

var listFormat string

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List the available review templates",
	GroupID: "main",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listFormat, "format", "", "Output format (text or json); defaults to output_format from config")
}

func runList(cmd *cobra.Command, args []string) error {
	catalog, err := loadCatalog()
	if err != nil {
		return err
	}

	summaries := make([]api.TemplateSummary, 0)
	for _, t := range catalog.Templates() {
		summaries = append(summaries, t.Summary())
	}

	out := cmd.OutOrStdout()
	if resolveFormat(listFormat) == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTITLE\tSECTIONS\tITEMS")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", s.Name, s.Title, s.Sections, s.Items)
	}
	return tw.Flush()
}

// resolveFormat picks the flag value, then the configured output format.
// junit only applies to lint, so other commands treat it as text.
func resolveFormat(flag string) string {
	format := flag
	if format == "" && cfg != nil {
		format = cfg.OutputFormat
	}
	if format == "json" {
		return "json"
	}
	return "text"
}
