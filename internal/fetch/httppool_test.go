package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listingServer(t *testing.T, body string, delay time.Duration) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestHTTPPool_Render(t *testing.T) {
	server := listingServer(t, `<html><body><div class="card">Intern</div></body></html>`, 0)
	pool := NewHTTPPool(PoolConfig{MaxPages: 1}, server.Client(), nil, nil)

	page, err := pool.Acquire(context.Background())
	require.NoError(t, err)
	defer func() { _ = page.Close() }()

	html, err := page.Render(context.Background(), RenderRequest{URL: server.URL, WaitSelector: ".card"})
	require.NoError(t, err)
	assert.Contains(t, html, "Intern")
}

func TestHTTPPool_MissingSelector(t *testing.T) {
	server := listingServer(t, `<html><body><p>captcha</p></body></html>`, 0)
	pool := NewHTTPPool(PoolConfig{}, server.Client(), nil, nil)

	page, err := pool.Acquire(context.Background())
	require.NoError(t, err)
	defer func() { _ = page.Close() }()

	_, err = page.Render(context.Background(), RenderRequest{URL: server.URL, WaitSelector: ".card"})
	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, fetchErr.Message, "content not ready")
}

func TestHTTPPool_NavigationTimeout(t *testing.T) {
	server := listingServer(t, "<html></html>", time.Second)
	pool := NewHTTPPool(PoolConfig{NavigationTimeout: 50 * time.Millisecond}, server.Client(), nil, nil)

	page, err := pool.Acquire(context.Background())
	require.NoError(t, err)
	defer func() { _ = page.Close() }()

	_, err = page.Render(context.Background(), RenderRequest{URL: server.URL})
	var timeout *TimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.Equal(t, PhaseNavigation, timeout.Phase)
}

func TestHTTPPool_CallerCancellation(t *testing.T) {
	server := listingServer(t, "<html></html>", time.Second)
	pool := NewHTTPPool(PoolConfig{}, server.Client(), nil, nil)

	page, err := pool.Acquire(context.Background())
	require.NoError(t, err)
	defer func() { _ = page.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	_, err = page.Render(ctx, RenderRequest{URL: server.URL})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHTTPPool_BoundsLeasedPages(t *testing.T) {
	pool := NewHTTPPool(PoolConfig{MaxPages: 1}, nil, nil, nil)

	first, err := pool.Acquire(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err = pool.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded, "second lease must wait for the first")

	require.NoError(t, first.Close())
	require.NoError(t, first.Close(), "double close must not over-release")

	second, err := pool.Acquire(context.Background())
	require.NoError(t, err)

	ctx2, cancel2 := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel2()
	_, err = pool.Acquire(ctx2)
	assert.Error(t, err, "pool still holds exactly one page")
	require.NoError(t, second.Close())
}

func TestBrowserPool_CloseWithoutStart(t *testing.T) {
	pool := NewBrowserPool(BrowserConfig{}, nil, nil)

	assert.Equal(t, DefaultMaxPages, pool.cfg.MaxPages)
	assert.Equal(t, DefaultNavigationTimeout, pool.cfg.NavigationTimeout)
	assert.Equal(t, DefaultReadyTimeout, pool.cfg.ReadyTimeout)
	require.NoError(t, pool.Close())
	require.NoError(t, pool.Close())

	_, err := pool.Acquire(context.Background())
	assert.ErrorContains(t, err, "closed")
}
