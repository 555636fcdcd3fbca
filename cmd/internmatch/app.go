package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/internmatch/internal/aggregate"
	"github.com/jonathan/internmatch/internal/config"
	"github.com/jonathan/internmatch/internal/extraction"
	"github.com/jonathan/internmatch/internal/fetch"
	"github.com/jonathan/internmatch/internal/logger"
	"github.com/jonathan/internmatch/internal/notify"
	"github.com/jonathan/internmatch/internal/recommend"
	"github.com/jonathan/internmatch/internal/sources"
)

// app holds everything a command needs, built from configuration.
type app struct {
	cfg        *config.Config
	logger     *zap.Logger
	pool       fetch.Pool
	dispatcher *notify.Dispatcher
	extractor  *extraction.Extractor
	service    *recommend.Service
}

// loadConfig reads configuration, letting cmd's flags override it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newApp wires configuration into a ready recommend.Service.
func newApp(ctx context.Context, cmd *cobra.Command, opts ...recommend.Option) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.JSON, cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("creating a logger: %w", err)
	}

	adapters, err := sources.DefaultRegistry().Build(cfg.Sources)
	if err != nil {
		return nil, err
	}

	aggOpts := []aggregate.Option{
		aggregate.WithConcurrency(cfg.Concurrency),
		aggregate.WithRetry(cfg.RetryAttempts, cfg.RetryBackoff),
		aggregate.WithLogger(log),
	}
	if cfg.Dedupe {
		aggOpts = append(aggOpts, aggregate.WithDedupe())
	}
	if cfg.Google.Enabled() {
		google, err := sources.NewGoogle(ctx, cfg.Google.APIKey, cfg.Google.CX)
		if err != nil {
			return nil, fmt.Errorf("creating the google search source: %w", err)
		}
		aggOpts = append(aggOpts, aggregate.WithFallback(google))
	} else {
		log.Info("google search fallback disabled: GOOGLE_SEARCH_API_KEY or GOOGLE_SEARCH_CX not set")
	}

	pool := newPool(cfg, log)
	dispatcher := notify.NewDispatcher(notify.New(cfg.Notifier(), log), notify.DefaultSendTimeout, log)

	extractor := extraction.New(nil)

	svcOpts := append([]recommend.Option{
		recommend.WithExtractor(extractor),
		recommend.WithDispatcher(dispatcher),
		recommend.WithMaxResults(cfg.MaxResults),
		recommend.WithSourceLimit(cfg.PerSourceLimit),
		recommend.WithLogger(log),
	}, opts...)

	return &app{
		cfg:        cfg,
		logger:     log,
		pool:       pool,
		dispatcher: dispatcher,
		extractor:  extractor,
		service:    recommend.New(aggregate.New(pool, adapters, aggOpts...), svcOpts...),
	}, nil
}

// newPool returns the page pool selected by the fetch mode.
func newPool(cfg *config.Config, log *zap.Logger) fetch.Pool {
	limiter := fetch.NewHostLimiter(cfg.HostRPS, cfg.HostBurst)
	if cfg.FetchMode == config.FetchModeHTTP {
		return fetch.NewHTTPPool(cfg.Pool(), &http.Client{}, limiter, log)
	}
	return fetch.NewBrowserPool(fetch.BrowserConfig{
		PoolConfig: cfg.Pool(),
		ExecPath:   cfg.ChromePath,
		Headful:    cfg.Headful,
	}, limiter, log)
}

// Close waits for pending notifications, then releases the browser.
func (a *app) Close() {
	a.dispatcher.Wait()
	if err := a.pool.Close(); err != nil {
		a.logger.Warn("closing page pool", zap.Error(err))
	}
	_ = a.logger.Sync()
}
