package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ibtikar-org-tr/rag-crawler/internal/pipeline"
)

func newSearchCmd() *cobra.Command {
	var (
		topK      int
		threshold float64
		namespace string
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the indexed content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}

			results, err := appInstance.Search(cmd.Context(), args[0], pipeline.SearchOptions{
				Namespace:           namespace,
				TopK:                topK,
				SimilarityThreshold: threshold,
			})
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		},
	}

	cmd.Flags().IntVar(&topK, "top-k", 10, "number of results to return")
	cmd.Flags().Float64Var(&threshold, "threshold", 0.7, "minimum similarity score to include a result")
	cmd.Flags().StringVar(&namespace, "namespace", "", "vector store namespace (defaults to the configured one)")

	return cmd
}
