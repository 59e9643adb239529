package cmd

import (
	"encoding/json"
	"fmt"

	"reviewkit/api"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var statusFormat string

var (
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status FILE",
	Short: "Show how many checklist items are ticked in a review file",
	Long: `Read a review file created with "reviewkit new" (or any checklist in the
same format) and report ticked items per section. The file is only read.`,
	GroupID: "main",
	Args:    cobra.ExactArgs(1),
	RunE:    runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().StringVar(&statusFormat, "format", "", "Output format (text or json)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	progress, err := api.ReadProgress(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if resolveFormat(statusFormat) == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(progress)
	}

	fmt.Fprintf(out, "%s: %s\n", args[0], progress)
	for _, s := range progress.Sections {
		style := pendingStyle
		if s.Checked == s.Total {
			style = doneStyle
		}
		fmt.Fprintf(out, "  %s %s\n", style.Render(fmt.Sprintf("%d/%d", s.Checked, s.Total)), s.Heading)
	}
	if progress.Complete() {
		fmt.Fprintln(out, doneStyle.Render("All items checked."))
	}
	return nil
}
