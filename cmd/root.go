package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"reviewkit/api"
	"reviewkit/api/telemetry"
	"reviewkit/config"

	"github.com/spf13/cobra"
)

var (
	// These variables are set via ldflags during build
	Version   = "dev"
	GitCommit = "none"
	BuildDate = "unknown"

	// Global flags
	templateDir string
	verbose     bool
	noTelemetry bool

	// cfg is resolved once per invocation in PersistentPreRunE
	cfg *config.Config
)

// getVersionString returns the full version information
func getVersionString() string {
	return fmt.Sprintf("%s (Commit: %s)", Version, GitCommit)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "reviewkit",
	Short: "Code review checklists for general, security and performance reviews.",
	Long: `reviewkit ships a catalog of Markdown code review checklists.

List, print and lint the templates, copy them into a review file for a pull
request, and track how many items a reviewer has ticked.`,
	Version:           getVersionString(),
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	telemetry.Shutdown(shutdownTimeout)
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: "main", Title: "Review Commands:"},
		&cobra.Group{ID: "server", Title: "Viewer Commands:"},
		&cobra.Group{ID: "other", Title: "Other Commands:"},
	)

	rootCmd.PersistentFlags().StringVar(&templateDir, "template-dir", "",
		"Directory of *.md templates to use instead of the built-in catalog")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noTelemetry, "no-telemetry", false, "Disable anonymous usage telemetry")

	// Hide the completion command from help
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	// Hide the help subcommand from help
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
}

// setup configures logging, loads config files and starts telemetry.
func setup(cmd *cobra.Command, args []string) error {
	configureLogging(verbose)

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current working directory: %w", err)
	}
	loaded, err := config.Load(cwd)
	if err != nil {
		return err
	}
	if templateDir != "" {
		loaded.TemplateDir = templateDir
	}
	cfg = loaded

	telemetry.Init(Version, noTelemetry || cfg.NoTelemetry)
	telemetry.PrintNotice(cmd.ErrOrStderr())
	telemetry.TrackCommand(cmd.Name())

	slog.Debug("Resolved configuration", "templateDir", cfg.TemplateDir, "defaultTemplate", cfg.DefaultTemplate, "port", cfg.Port)
	return nil
}

// configureLogging sends structured logs to stderr so stdout stays clean for
// command output.
func configureLogging(debug bool) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// loadCatalog returns the configured template directory's catalog, or the
// embedded one when no directory is configured.
func loadCatalog() (*api.Catalog, error) {
	if cfg != nil && cfg.TemplateDir != "" {
		return api.NewDirCatalog(cfg.TemplateDir)
	}
	return api.NewEmbeddedCatalog()
}

// defaultTemplateName is the configured default, falling back to the built-in one.
func defaultTemplateName() string {
	if cfg != nil && cfg.DefaultTemplate != "" {
		return cfg.DefaultTemplate
	}
	return api.DefaultTemplate
}
