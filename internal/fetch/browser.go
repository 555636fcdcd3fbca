package fetch

import (
	"context"
	"errors"
	"sync"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// BrowserConfig configures the headless Chrome pool.
type BrowserConfig struct {
	PoolConfig
	// ExecPath overrides the Chrome binary; empty uses chromedp's lookup.
	ExecPath string
	// Headful shows the browser window, for debugging adapters locally.
	Headful bool
}

// BrowserPool leases tabs of one lazily started headless Chrome.
type BrowserPool struct {
	cfg     BrowserConfig
	sem     *semaphore.Weighted
	limiter *HostLimiter
	logger  *zap.Logger

	mu            sync.Mutex
	browserCtx    context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
	closed        bool
}

// NewBrowserPool creates a pool. Chrome is not started until the first Acquire.
func NewBrowserPool(cfg BrowserConfig, limiter *HostLimiter, logger *zap.Logger) *BrowserPool {
	cfg.PoolConfig = cfg.PoolConfig.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BrowserPool{
		cfg:     cfg,
		sem:     semaphore.NewWeighted(int64(cfg.MaxPages)),
		limiter: limiter,
		logger:  logger,
	}
}

// browser returns the shared browser context, starting Chrome on first use.
func (p *BrowserPool) browser() (context.Context, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, errors.New("browser pool is closed")
	}
	if p.browserCtx != nil {
		return p.browserCtx, nil
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", !p.cfg.Headful),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(p.cfg.UserAgent),
	)
	if p.cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(p.cfg.ExecPath))
	}

	// the browser outlives any single request, so it hangs off Background
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, &Error{URL: "about:blank", Message: "failed to start browser", Cause: err}
	}

	p.logger.Info("headless browser started", zap.Int("max_pages", p.cfg.MaxPages))
	p.browserCtx = browserCtx
	p.cancelBrowser = cancelBrowser
	p.cancelAlloc = cancelAlloc
	return browserCtx, nil
}

// Acquire opens a new tab, blocking while MaxPages tabs are leased.
func (p *BrowserPool) Acquire(ctx context.Context) (Page, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}

	browserCtx, err := p.browser()
	if err != nil {
		p.sem.Release(1)
		return nil, err
	}

	tabCtx, cancelTab := chromedp.NewContext(browserCtx)
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		p.sem.Release(1)
		return nil, &Error{URL: "about:blank", Message: "failed to open tab", Cause: err}
	}

	return &browserPage{pool: p, tabCtx: tabCtx, cancelTab: cancelTab}, nil
}

// Close shuts Chrome down. Leased pages become unusable.
func (p *BrowserPool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	if p.cancelBrowser != nil {
		p.cancelBrowser()
		p.cancelAlloc()
		p.logger.Info("headless browser stopped")
	}
	return nil
}

type browserPage struct {
	pool      *BrowserPool
	tabCtx    context.Context
	cancelTab context.CancelFunc
	once      sync.Once
}

func (pg *browserPage) Render(ctx context.Context, req RenderRequest) (string, error) {
	cfg := pg.pool.cfg
	if err := pg.pool.limiter.WaitURL(ctx, req.URL); err != nil {
		return "", err
	}

	// runs derived from the tab context abort when the caller gives up
	runCtx, cancel := context.WithCancel(pg.tabCtx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	navCtx, cancelNav := context.WithTimeout(runCtx, cfg.NavigationTimeout)
	err := chromedp.Run(navCtx, chromedp.Navigate(req.URL))
	cancelNav()
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if isDeadline(err) || isDeadline(navCtx.Err()) {
			return "", &TimeoutError{URL: req.URL, Phase: PhaseNavigation, Timeout: cfg.NavigationTimeout, Cause: err}
		}
		return "", &Error{URL: req.URL, Message: "navigation failed", Cause: err}
	}

	if req.WaitSelector != "" {
		readyCtx, cancelReady := context.WithTimeout(runCtx, cfg.ReadyTimeout)
		err := chromedp.Run(readyCtx, chromedp.WaitReady(req.WaitSelector, chromedp.ByQuery))
		cancelReady()
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			if isDeadline(err) || isDeadline(readyCtx.Err()) {
				return "", &TimeoutError{URL: req.URL, Phase: PhaseReady, Timeout: cfg.ReadyTimeout, Cause: err}
			}
			return "", &Error{URL: req.URL, Message: "waiting for content failed", Cause: err}
		}
	}

	var html string
	if err := chromedp.Run(runCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &Error{URL: req.URL, Message: "reading rendered HTML failed", Cause: err}
	}

	pg.pool.logger.Debug("page rendered", zap.String("url", req.URL), zap.Int("bytes", len(html)))
	return html, nil
}

func (pg *browserPage) Close() error {
	pg.once.Do(func() {
		pg.cancelTab()
		pg.pool.sem.Release(1)
	})
	return nil
}
