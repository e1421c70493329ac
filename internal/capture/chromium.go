package capture

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/chromedp"
)

// Default capture parameters for the share/preview snapshot. The
// viewport matches the social-card aspect the invitation is shared at.
const (
	DefaultWidth      = 1200
	DefaultHeight     = 630
	DefaultTimeoutSec = 30
)

// SnapshotOptions defines parameters for a Chromium-based screenshot of
// the served invitation page.
type SnapshotOptions struct {
	// URL to capture, e.g. "http://127.0.0.1:8080/".
	URL string

	// OutputPath is where the PNG snapshot will be written, e.g.
	// "/var/lib/vivaah/preview.png".
	OutputPath string

	// Width and Height are the viewport dimensions in pixels. If zero,
	// DefaultWidth / DefaultHeight are used.
	Width  int
	Height int

	// Timeout bounds the entire capture operation. If zero,
	// DefaultTimeoutSec is used.
	Timeout time.Duration
}

// SnapshotPNG launches a headless Chromium instance via chromedp,
// navigates to opts.URL, waits for the page to signal that its data has
// loaded, and captures a PNG screenshot at the requested resolution.
//
// Rendering-complete condition: the app root element exposes
// data-ready="true" once the site/agenda/countdown fetches resolve.
func SnapshotPNG(parentCtx context.Context, opts SnapshotOptions) error {
	if opts.URL == "" {
		return fmt.Errorf("capture: URL is required")
	}
	if opts.OutputPath == "" {
		return fmt.Errorf("capture: OutputPath is required")
	}
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Duration(DefaultTimeoutSec) * time.Second
	}

	ctx, cancel := chromedp.NewContext(parentCtx)
	defer cancel()

	ctx, timeoutCancel := context.WithTimeout(ctx, opts.Timeout)
	defer timeoutCancel()

	var png []byte
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(int64(opts.Width), int64(opts.Height)),
		chromedp.Navigate(opts.URL),
		chromedp.WaitVisible(`[data-ready="true"]`, chromedp.ByQuery),
		// Small extra delay to allow final paints.
		chromedp.Sleep(500 * time.Millisecond),
		chromedp.FullScreenshot(&png, 100),
	}

	if err := chromedp.Run(ctx, tasks); err != nil {
		return fmt.Errorf("capture: chromedp run failed: %w", err)
	}

	if err := os.WriteFile(opts.OutputPath, png, 0o644); err != nil {
		return fmt.Errorf("capture: failed to write PNG: %w", err)
	}

	return nil
}
