package cmd

import (
	"reviewkit/api"

	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the template API server",
	Long: `Start the HTTP API on localhost. It lists the catalog, returns each template as
JSON, raw Markdown or HTML, and validates templates on request.

  GET /api/health
  GET /api/templates
  GET /api/templates/:name
  GET /api/templates/:name/raw
  GET /api/templates/:name/html
  GET /api/templates/:name/validate`,
	GroupID: "server",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog()
		if err != nil {
			return err
		}
		return api.StartServer(api.ServerConfig{
			Catalog: catalog,
			Port:    resolvePort(),
			Debug:   verbose,
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 0, "Port to listen on (default from config, 7826)")
}
