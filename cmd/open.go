package cmd

import (
	"log/slog"
	"net/url"

	"reviewkit/api"

	"github.com/spf13/cobra"
)

// openCmd represents the open command
var openCmd = &cobra.Command{
	Use:     "open [NAME]",
	Short:   "View a template in the browser",
	Long:    `Start the API server and open the rendered template NAME (default: the configured default template) in the browser.`,
	GroupID: "server",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog()
		if err != nil {
			return err
		}

		name := defaultTemplateName()
		if len(args) == 1 {
			name = args[0]
		}
		t, err := catalog.Get(name)
		if err != nil {
			return err
		}

		port := resolvePort()
		slog.Info("Opening template", "template", t.Name, "port", port)
		return startServerAndOpen(api.ServerConfig{
			Catalog: catalog,
			Port:    port,
			Debug:   verbose,
		}, templatePage(t.Name))
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
	openCmd.Flags().IntVarP(&serverPort, "port", "p", 0, "Port to listen on (default from config, 7826)")
}

// templatePage is the viewer URL path showing the named template.
func templatePage(name string) string {
	return "/?template=" + url.QueryEscape(name)
}
