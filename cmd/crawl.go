package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ibtikar-org-tr/rag-crawler/internal/api"
)

func newCrawlCmd() *cobra.Command {
	var (
		maxDepth  int
		maxPages  int
		namespace string
		strategy  string
	)

	cmd := &cobra.Command{
		Use:   "crawl <seed-url>",
		Short: "Crawl a site and index its content",
		Long: `Crawls the given seed URL breadth-first, staying within its scope,
then cleans, chunks, embeds, and upserts everything it finds.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			req := api.ScrapeRequest{
				URL:       args[0],
				Namespace: namespace,
				Strategy:  strategy,
			}
			if maxDepth > 0 {
				req.MaxDepth = &maxDepth
			}
			if maxPages > 0 {
				req.MaxPages = &maxPages
			}

			report, err := appInstance.Scrape(ctx, req)
			if err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("scrape: %w", err)
			}

			appInstance.Logger().Info("crawl finished",
				zap.Int("documents", report.Index.Documents),
				zap.Int("vectors", report.Index.Vectors),
			)

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}

	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "maximum link depth from the seed (0 uses the configured default)")
	cmd.Flags().IntVar(&maxPages, "max-pages", 0, "maximum number of pages to index (0 uses the configured default)")
	cmd.Flags().StringVar(&namespace, "namespace", "", "vector store namespace (defaults to the configured one)")
	cmd.Flags().StringVar(&strategy, "strategy", "", "fetch strategy: plain, headless, or headless-session")

	return cmd
}
