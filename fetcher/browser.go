package fetcher

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chromedp/chromedp"

	"github.com/aluiziolira/go-price-books/config"
	"github.com/aluiziolira/go-price-books/models"
)

// Browser fetches result pages through a real Chrome instance. Pointing it
// at an existing user-data-dir and profile-directory reuses a signed-in
// marketplace session.
type Browser struct {
	cfg           *config.Config
	allocCtx      context.Context
	cancelAlloc   context.CancelFunc
	browserCtx    context.Context
	cancelBrowser context.CancelFunc
}

// NewBrowser launches the browser. A launch failure wraps ErrSession: the
// fetch capability could not be established and the run must not start.
func NewBrowser(cfg *config.Config) (*Browser, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(cfg.UserAgent),
	)
	if cfg.UserDataDir != "" {
		opts = append(opts, chromedp.UserDataDir(cfg.UserDataDir))
	}
	if cfg.ProfileDir != "" {
		opts = append(opts, chromedp.Flag("profile-directory", cfg.ProfileDir))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// Start the browser now so a missing binary or broken profile surfaces
	// before any book is processed.
	startCtx, cancel := context.WithTimeout(browserCtx, cfg.Timeout)
	defer cancel()
	if err := chromedp.Run(startCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("%w: %v", ErrSession, err)
	}

	slog.Debug("browser session established",
		slog.String("user_data_dir", cfg.UserDataDir),
		slog.String("profile_dir", cfg.ProfileDir),
	)

	return &Browser{
		cfg:           cfg,
		allocCtx:      allocCtx,
		cancelAlloc:   cancelAlloc,
		browserCtx:    browserCtx,
		cancelBrowser: cancelBrowser,
	}, nil
}

// Fetch navigates a fresh tab to the search URL and returns the rendered
// document once the body is ready.
func (b *Browser) Fetch(ctx context.Context, term models.SearchTerm) (string, error) {
	tabCtx, cancelTab := chromedp.NewContext(b.browserCtx)
	defer cancelTab()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, b.cfg.Timeout)
	defer cancelTimeout()

	// Tab contexts must derive from the browser context, so caller
	// cancellation is propagated by hand.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			cancelTab()
		case <-done:
		}
	}()

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(SearchURL(term)),
		chromedp.WaitReady("body"),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", classifyError(err, 0)
	}
	return html, nil
}

// Close shuts the browser down.
func (b *Browser) Close() error {
	b.cancelBrowser()
	b.cancelAlloc()
	return nil
}
