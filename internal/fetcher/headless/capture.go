package headless

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"
)

// CaptureSession opens a visible browser at startURL, waits for the
// operator to sign in and confirm on wait (usually stdin), then writes the
// browser's cookies to outputPath as JSON consumable by NewWithSession.
// The browser stays open until confirmation or context cancellation.
func CaptureSession(ctx context.Context, startURL, outputPath string, wait io.Reader) error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", false),
		chromedp.Flag("enable-automation", false),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	if err := chromedp.Run(taskCtx, chromedp.Navigate(startURL)); err != nil {
		return fmt.Errorf("open capture browser: %w", err)
	}

	confirmed := make(chan error, 1)
	go func() {
		_, err := bufio.NewReader(wait).ReadString('\n')
		confirmed <- err
	}()

	select {
	case <-taskCtx.Done():
		return fmt.Errorf("capture browser closed: %w", taskCtx.Err())
	case err := <-confirmed:
		if err != nil && err != io.EOF {
			return fmt.Errorf("wait for confirmation: %w", err)
		}
	}

	var cookies []Cookie
	err := chromedp.Run(taskCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		raw, err := storage.GetCookies().Do(ctx)
		if err != nil {
			return fmt.Errorf("read browser cookies: %w", err)
		}
		for _, c := range raw {
			cookies = append(cookies, Cookie{
				Name:     c.Name,
				Value:    c.Value,
				Domain:   c.Domain,
				Path:     c.Path,
				Expires:  c.Expires,
				Secure:   c.Secure,
				HTTPOnly: c.HTTPOnly,
			})
		}
		return nil
	}))
	if err != nil {
		return err
	}
	if len(cookies) == 0 {
		return fmt.Errorf("no cookies captured from %s", startURL)
	}

	data, err := json.MarshalIndent(cookies, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cookies: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0o600); err != nil {
		return fmt.Errorf("write cookie file: %w", err)
	}
	return nil
}
