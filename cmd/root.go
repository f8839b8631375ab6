// Package cmd defines the CLI commands for the rag-crawler executable.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ibtikar-org-tr/rag-crawler/internal/app"
	"github.com/ibtikar-org-tr/rag-crawler/internal/config"
	"github.com/ibtikar-org-tr/rag-crawler/internal/logging"
)

var cfgFile string

type appKeyType struct{}

var appKey appKeyType

// newApp is the application factory. It is a variable so tests can swap
// in a mock container.
var newApp = func(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app.App, error) {
	return app.New(ctx, cfg, logger)
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rag-crawler",
		Short: "Crawl websites and index their content for retrieval.",
		Long: `rag-crawler fetches a site starting from a seed URL, cleans and chunks
the text it finds, embeds every chunk, and upserts the vectors into a
vector store so they can be searched semantically.`,

		// Runs after flags are parsed and before the subcommand's RunE.
		// Session capture needs no backends, so it skips the container.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "session" {
				return nil
			}

			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			logger, err := logging.New(cfg.Logging)
			if err != nil {
				return fmt.Errorf("initialize logger: %w", err)
			}

			appInstance, err := newApp(cmd.Context(), cfg, logger)
			if err != nil {
				return fmt.Errorf("initialize application services: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			cmd.SetContext(ctx)
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(*app.App); ok && appInstance != nil {
				appInstance.Close()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./rag-crawler.yaml)")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newCrawlCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newSessionCmd())

	return cmd
}

func resolveApp(ctx context.Context) (*app.App, error) {
	appInstance, ok := ctx.Value(appKey).(*app.App)
	if !ok || appInstance == nil {
		return nil, fmt.Errorf("application services not initialized")
	}
	return appInstance, nil
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
