package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ibtikar-org-tr/rag-crawler/internal/fetcher/headless"
)

func newSessionCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "session <login-url>",
		Short: "Capture browser session cookies for authenticated crawls",
		Long: `Opens a visible browser at the given URL so you can log in by hand.
Once you are signed in, press Enter in this terminal and the browser's
cookies are saved for later use with the headless-session strategy.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Println("A browser window will open. Log in, then press Enter here to save the session.")
			if err := headless.CaptureSession(ctx, args[0], output, os.Stdin); err != nil {
				return fmt.Errorf("capture session: %w", err)
			}
			fmt.Printf("Session cookies saved to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", "cookies.json", "file to write the captured cookies to")

	return cmd
}
