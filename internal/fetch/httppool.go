package fetch

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// HTTPPool serves pages over plain HTTP. It suits boards that render listings
// server-side and hosts where Chrome is not installed. Content readiness is the
// presence of the wait selector in the returned document.
type HTTPPool struct {
	cfg     PoolConfig
	opts    *Options
	sem     *semaphore.Weighted
	limiter *HostLimiter
	logger  *zap.Logger
}

// NewHTTPPool creates a pool over client. A nil client gets a default one.
func NewHTTPPool(cfg PoolConfig, client *http.Client, limiter *HostLimiter, logger *zap.Logger) *HTTPPool {
	cfg = cfg.withDefaults()
	if client == nil {
		client = &http.Client{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := DefaultOptions()
	opts.UserAgent = cfg.UserAgent
	opts.Client = client
	return &HTTPPool{
		cfg:     cfg,
		opts:    opts,
		sem:     semaphore.NewWeighted(int64(cfg.MaxPages)),
		limiter: limiter,
		logger:  logger,
	}
}

func (p *HTTPPool) Acquire(ctx context.Context) (Page, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return &httpPage{pool: p}, nil
}

func (p *HTTPPool) Close() error { return nil }

type httpPage struct {
	pool *HTTPPool
	once sync.Once
}

func (pg *httpPage) Render(ctx context.Context, req RenderRequest) (string, error) {
	cfg := pg.pool.cfg
	if err := pg.pool.limiter.WaitURL(ctx, req.URL); err != nil {
		return "", err
	}

	navCtx, cancel := context.WithTimeout(ctx, cfg.NavigationTimeout)
	defer cancel()

	res, err := URL(navCtx, req.URL, pg.pool.opts)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if isDeadline(err) || isDeadline(navCtx.Err()) {
			return "", &TimeoutError{URL: req.URL, Phase: PhaseNavigation, Timeout: cfg.NavigationTimeout, Cause: err}
		}
		return "", err
	}

	if req.WaitSelector != "" {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.HTML))
		if err != nil {
			return "", &Error{URL: req.URL, Message: "failed to parse HTML", Cause: err}
		}
		if doc.Find(req.WaitSelector).Length() == 0 {
			return "", &Error{URL: req.URL, Message: fmt.Sprintf("content not ready: no element matches %q", req.WaitSelector)}
		}
	}

	pg.pool.logger.Debug("page fetched", zap.String("url", req.URL), zap.Int("bytes", len(res.HTML)))
	return res.HTML, nil
}

func (pg *httpPage) Close() error {
	pg.once.Do(func() { pg.pool.sem.Release(1) })
	return nil
}
