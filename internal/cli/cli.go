// Package cli defines the linkroll command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/linkroll/internal/app"
	"github.com/MrSnakeDoc/linkroll/internal/config"
	"github.com/MrSnakeDoc/linkroll/internal/logger"
	"github.com/MrSnakeDoc/linkroll/internal/version"
)

// NewRootCmd builds the linkroll command tree. Every command reads its
// settings from LINKROLL_* environment variables.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "linkroll",
		Short:         "Render a categorized links directory from bookmark files",
		SilenceUsage:  true,
	}

	root.AddCommand(
		newServeCmd(),
		newRenderCmd(),
		newImportCmd(),
		newVersionCmd(),
	)
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			log := logger.New(cfg.LogLevel, cfg.PrettyLog)
			defer func() { _ = log.Sync() }()

			a, err := app.New(cmd.Context(), cfg, log)
			if err != nil {
				log.Error("failed to start", logger.Error(err))
				return err
			}
			return a.Run()
		},
	}
}

func newRenderCmd() *cobra.Command {
	var args string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the bookmark listing to stdout",
		Example: `  linkroll render
  linkroll render --args 'categorize=0&title_li=&orderby=rating&order=DESC'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			// Logs go to stderr so the listing on stdout stays clean.
			log := logger.New(cfg.LogLevel, cfg.PrettyLog)
			defer func() { _ = log.Sync() }()

			return app.Render(cmd.Context(), cfg, log, args, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&args, "args", "", "list arguments as a query string, merged onto LINKROLL_LIST_ARGS")
	return cmd
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import bookmarks into the SQLite catalog",
	}

	var database, category string
	netscapeCmd := &cobra.Command{
		Use:   "netscape FILE",
		Short: "Import a browser bookmark export (Netscape HTML)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level := os.Getenv("LINKROLL_LOG_LEVEL")
			if level == "" {
				level = "info"
			}
			log := logger.New(level, true)
			defer func() { _ = log.Sync() }()

			n, err := app.Import(cmd.Context(), database, args[0], category, log)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ imported %d bookmarks into %s\n", n, database)
			return nil
		},
	}
	netscapeCmd.Flags().StringVar(&database, "database", config.DatabasePath(), "SQLite database path (defaults to LINKROLL_DATABASE)")
	netscapeCmd.Flags().StringVar(&category, "category", "", "category for bookmarks outside any folder (default \"Blogroll\")")

	cmd.AddCommand(netscapeCmd)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
