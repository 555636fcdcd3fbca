package sources

import (
	"context"

	"github.com/jonathan/internmatch/internal/fetch"
)

// fakePage returns canned HTML or an error and records the last request.
type fakePage struct {
	html    string
	err     error
	lastReq fetch.RenderRequest
	closed  bool
}

func (p *fakePage) Render(_ context.Context, req fetch.RenderRequest) (string, error) {
	p.lastReq = req
	return p.html, p.err
}

func (p *fakePage) Close() error {
	p.closed = true
	return nil
}
