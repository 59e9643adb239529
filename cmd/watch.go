package cmd

import (
	"log/slog"

	"reviewkit/api"

	"github.com/spf13/cobra"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch DIR",
	Short: "Serve a template directory and reload it on change (for template authors)",
	Long: `Serve the templates in DIR and open the default one in the browser. Whenever a
*.md file in DIR changes the catalog is reloaded and a "file-change" event is
pushed to clients of /api/watch.`,
	GroupID: "server",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		catalog, err := api.NewDirCatalog(dir)
		if err != nil {
			return err
		}

		port := resolvePort()
		slog.Info("Watching templates", "dir", dir, "port", port)
		return startServerAndOpen(api.ServerConfig{
			Catalog:     catalog,
			Port:        port,
			IsWatchMode: true,
			WatchDir:    dir,
			Debug:       verbose,
		}, templatePage(defaultTemplateName()))
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().IntVarP(&serverPort, "port", "p", 0, "Port to listen on (default from config, 7826)")
}
