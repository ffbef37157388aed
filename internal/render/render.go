// Package render provides the "fetch a rendered DOM" capability consumed
// by the rendered-page source adapters. The Regal site is a React app
// behind bot detection, so the real implementation drives a headless
// Chrome; adapters only see the Session interface and can be tested
// against static HTML.
package render

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	cdpruntime "github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// Session fetches rendered pages. Implementations are stateful (one
// browser shared across calls) and not safe for concurrent use.
type Session interface {
	// HTML navigates to url and returns the rendered document's outer
	// HTML once the page has settled.
	HTML(ctx context.Context, url string) (string, error)
	Close()
}

const desktopUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"

// Scroll to the bottom in steps so lazy-loaded showtime sections render.
const scrollToBottomJS = `new Promise((resolve) => {
	let total = 0;
	const distance = 100;
	const timer = setInterval(() => {
		const height = document.body.scrollHeight;
		window.scrollBy(0, distance);
		total += distance;
		if (total >= height - window.innerHeight) {
			clearInterval(timer);
			resolve(true);
		}
	}, 100);
})`

// Chrome is a Session backed by a single headless Chrome process. The
// browser is started lazily on first use and each HTML call runs in a
// fresh tab with a bounded timeout.
type Chrome struct {
	chromePath string
	timeout    time.Duration

	startOnce   sync.Once
	startErr    error
	browser     context.Context
	cancelFuncs []context.CancelFunc
}

// NewChrome creates a Chrome session. chromePath overrides the browser
// binary (empty means chromedp's default lookup); timeout bounds each
// navigation.
func NewChrome(chromePath string, timeout time.Duration) *Chrome {
	return &Chrome{chromePath: chromePath, timeout: timeout}
}

func (c *Chrome) start() error {
	c.startOnce.Do(func() {
		opts := chromedp.DefaultExecAllocatorOptions[:]
		if c.chromePath != "" {
			opts = append(opts, chromedp.ExecPath(c.chromePath))
		}
		opts = append(opts,
			chromedp.Headless,
			chromedp.DisableGPU,
			chromedp.NoSandbox,
			chromedp.WindowSize(1920, 1080),
			chromedp.UserAgent(desktopUserAgent),
			chromedp.Flag("disable-blink-features", "AutomationControlled"),
		)

		allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
		browserCtx, browserCancel := chromedp.NewContext(allocCtx)
		c.browser = browserCtx
		c.cancelFuncs = []context.CancelFunc{browserCancel, allocCancel}

		// Start the browser eagerly so a missing binary surfaces here
		// rather than midway through a run.
		if err := chromedp.Run(browserCtx); err != nil {
			c.startErr = fmt.Errorf("starting browser: %w", err)
		}
	})
	return c.startErr
}

// HTML implements Session.
func (c *Chrome) HTML(ctx context.Context, url string) (string, error) {
	if err := c.start(); err != nil {
		return "", err
	}

	tab, cancelTab := chromedp.NewContext(c.browser)
	defer cancelTab()

	tab, cancelTimeout := context.WithTimeout(tab, c.timeout)
	defer cancelTimeout()

	// Propagate cancellation from the caller into the tab.
	stop := context.AfterFunc(ctx, cancelTimeout)
	defer stop()

	var html string
	err := chromedp.Run(tab,
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers{
			"Accept-Language": "en-US,en;q=0.9",
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8",
		}),
		chromedp.Navigate(url),
		chromedp.WaitVisible(`body`, chromedp.ByQuery),
		chromedp.Evaluate(scrollToBottomJS, nil, func(p *cdpruntime.EvaluateParams) *cdpruntime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
		chromedp.Sleep(2*time.Second),
		chromedp.OuterHTML(`html`, &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", url, err)
	}

	return html, nil
}

// Close tears down the browser process.
func (c *Chrome) Close() {
	for _, cancel := range c.cancelFuncs {
		cancel()
	}
}
