package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/chromedp/chromedp"

	"github.com/jonathan/auction-appraiser/internal/logging"
)

// BrowserOptions configures a headless browser session.
type BrowserOptions struct {
	Headless    bool
	PageTimeout time.Duration // Per navigation or click
	Settle      time.Duration // Extra wait for scripts after the ready selector appears
	UserAgent   string
}

// DefaultBrowserOptions returns the options used by the scraper.
func DefaultBrowserOptions() *BrowserOptions {
	return &BrowserOptions{
		Headless:    true,
		PageTimeout: 30 * time.Second,
		Settle:      2 * time.Second,
		UserAgent:   DefaultUserAgent,
	}
}

// Browser is one headless Chrome tab reused across page loads.
// Requires Chrome/Chromium to be installed on the system.
type Browser struct {
	ctx     context.Context
	cancels []context.CancelFunc
	opts    *BrowserOptions
	logger  *log.Logger
}

// NewBrowser starts Chrome. The session ends when Close is called or parent is done.
func NewBrowser(parent context.Context, opts *BrowserOptions, logger *log.Logger) (*Browser, error) {
	if opts == nil {
		opts = DefaultBrowserOptions()
	}
	if logger == nil {
		logger = logging.Discard()
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", opts.Headless),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(opts.UserAgent),
		)...,
	)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	b := &Browser{
		ctx:     browserCtx,
		cancels: []context.CancelFunc{browserCancel, allocCancel},
		opts:    opts,
		logger:  logger,
	}

	// An empty Run launches the browser process
	if err := chromedp.Run(browserCtx); err != nil {
		b.Close()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	logger.Debug("browser started", "headless", opts.Headless)
	return b, nil
}

// Navigate loads url, waits for readySelector and returns the rendered HTML.
func (b *Browser) Navigate(ctx context.Context, url, readySelector string) (string, error) {
	b.logger.Debug("navigating", "url", url)

	var html string
	err := b.run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady(readySelector, chromedp.ByQuery),
		chromedp.Sleep(b.opts.Settle),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", &Error{URL: url, Message: "browser rendering failed", Cause: err}
	}

	b.logger.Debug("rendered page", "url", url, "bytes", len(html))
	return html, nil
}

// ClickLinkText clicks the first link whose text is linkText, waits for readySelector
// and returns the rendered HTML of the resulting page.
func (b *Browser) ClickLinkText(ctx context.Context, linkText, readySelector string) (string, error) {
	xpath := fmt.Sprintf(`//a[normalize-space(.)=%q]`, linkText)

	var html string
	err := b.run(ctx,
		chromedp.Click(xpath, chromedp.BySearch, chromedp.NodeVisible),
		chromedp.Sleep(b.opts.Settle),
		chromedp.WaitReady(readySelector, chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("failed to click %q: %w", linkText, err)
	}
	return html, nil
}

// Close shuts the browser down.
func (b *Browser) Close() {
	for _, cancel := range b.cancels {
		cancel()
	}
}

// run executes actions under the page timeout, also stopping when ctx is done.
func (b *Browser) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	runCtx, cancel := context.WithTimeout(b.ctx, b.opts.PageTimeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}
