package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	showFormat string
	showRaw    bool
	showWidth  int
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show [NAME]",
	Short: "Print a review template",
	Long: `Print the review template NAME (general, security, performance, ...).
Without NAME the default template is shown. On a terminal the Markdown is
rendered; when piped, the raw Markdown is written so it can be pasted into a
pull request comment.`,
	GroupID: "main",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().StringVar(&showFormat, "format", "", "Output format (text or json)")
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "Print the raw Markdown even on a terminal")
	showCmd.Flags().IntVar(&showWidth, "width", 100, "Word-wrap width for rendered output")
}

func runShow(cmd *cobra.Command, args []string) error {
	name := defaultTemplateName()
	if len(args) == 1 {
		name = args[0]
	}

	catalog, err := loadCatalog()
	if err != nil {
		return err
	}
	t, err := catalog.Get(name)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if resolveFormat(showFormat) == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(t)
	}

	raw, err := catalog.Raw(t.Name)
	if err != nil {
		return err
	}

	if showRaw || !isTerminal(out) {
		_, err = out.Write(raw)
		return err
	}

	rendered, err := renderMarkdown(raw, showWidth)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(out, rendered)
	return err
}

// renderMarkdown renders Markdown for a terminal with glamour.
func renderMarkdown(raw []byte, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := r.RenderBytes(raw)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return string(out), nil
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
