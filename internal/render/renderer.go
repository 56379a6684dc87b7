package render

import (
	"context"

	"github.com/Sonucs12/pdf-weaver/internal/types"
)

// Renderer is the strategy for producing a page raster. Callers stay
// agnostic to whether work happens on a background pool or inline.
type Renderer interface {
	// RenderPage produces the JPEG raster for a 1-indexed page.
	RenderPage(ctx context.Context, page int) (types.PageImage, error)

	// Stop shuts the strategy down. Safe to call more than once.
	Stop()
}

// PageSource renders a single page synchronously. *Document satisfies it;
// tests substitute fakes.
type PageSource interface {
	RenderPage(page int) (types.PageImage, error)
}

// InlineRenderer renders on the calling goroutine.
type InlineRenderer struct {
	src PageSource
}

// NewInlineRenderer wraps a page source.
func NewInlineRenderer(src PageSource) *InlineRenderer {
	return &InlineRenderer{src: src}
}

func (r *InlineRenderer) RenderPage(ctx context.Context, page int) (types.PageImage, error) {
	if err := ctx.Err(); err != nil {
		return types.PageImage{}, err
	}
	return r.src.RenderPage(page)
}

func (r *InlineRenderer) Stop() {}

// NewRenderer selects the strategy for the given worker count: a background
// pool when workers > 0, inline otherwise.
func NewRenderer(src PageSource, workers int) Renderer {
	if workers > 0 {
		return NewPoolRenderer(src, workers)
	}
	return NewInlineRenderer(src)
}
