package fetch

import (
	"context"
	"time"
)

// Phase names a step of rendering a page.
type Phase string

const (
	PhaseNavigation Phase = "navigation"
	PhaseReady      Phase = "content-ready"
)

// Default timeouts, matching what the public job boards need in practice.
const (
	DefaultNavigationTimeout = 30 * time.Second
	DefaultReadyTimeout      = 10 * time.Second
	DefaultMaxPages          = 4
)

// RenderRequest describes a page to load.
type RenderRequest struct {
	URL string
	// WaitSelector is a CSS selector that must be present before the page is
	// considered ready. Empty means ready as soon as navigation completes.
	WaitSelector string
}

// Page is a single rendering context leased from a Pool.
type Page interface {
	// Render loads req.URL and returns the page HTML once WaitSelector is present.
	// Timeouts are reported as *TimeoutError.
	Render(ctx context.Context, req RenderRequest) (string, error)
	// Close returns the page to its pool. It is safe to call more than once.
	Close() error
}

// Pool hands out Pages, blocking while the configured maximum is in use.
type Pool interface {
	Acquire(ctx context.Context) (Page, error)
	Close() error
}

// PoolConfig is shared by every Pool implementation.
type PoolConfig struct {
	MaxPages          int
	NavigationTimeout time.Duration
	ReadyTimeout      time.Duration
	UserAgent         string
}

// withDefaults fills zero values.
func (c PoolConfig) withDefaults() PoolConfig {
	if c.MaxPages <= 0 {
		c.MaxPages = DefaultMaxPages
	}
	if c.NavigationTimeout <= 0 {
		c.NavigationTimeout = DefaultNavigationTimeout
	}
	if c.ReadyTimeout <= 0 {
		c.ReadyTimeout = DefaultReadyTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	return c
}
