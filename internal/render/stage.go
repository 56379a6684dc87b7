package render

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/Sonucs12/pdf-weaver/internal/pagerange"
	"github.com/Sonucs12/pdf-weaver/internal/types"
)

// PageError is a page-scoped render failure. The orchestrator decides
// whether to skip the page or abort the run; the stage never crashes.
type PageError struct {
	Page int
	Err  error
}

func (e PageError) Error() string {
	return e.Err.Error()
}

func (e PageError) Unwrap() error {
	return e.Err
}

// Stage converts chunks of pages into JPEG rasters through a Renderer.
type Stage struct {
	renderer Renderer
	logger   *slog.Logger

	// OnPage, when set, is invoked for every successfully rendered page
	// with its encoded image, enabling live preview feedback.
	OnPage func(types.PageImage)
}

// NewStage creates a conversion stage over the given renderer.
func NewStage(renderer Renderer, logger *slog.Logger) *Stage {
	if logger == nil {
		logger = slog.Default()
	}
	return &Stage{renderer: renderer, logger: logger}
}

// ConvertChunk renders all pages of one chunk, overlapping work across the
// renderer strategy, and returns images sorted by page number plus any
// page-scoped failures. Cancellation between chunks is the caller's job;
// this call finishes the chunk it was given.
func (s *Stage) ConvertChunk(ctx context.Context, pages pagerange.Pages) ([]types.PageImage, []PageError) {
	var (
		mu     sync.Mutex
		images []types.PageImage
		errs   []PageError
		wg     sync.WaitGroup
	)

	for _, page := range pages {
		wg.Add(1)
		go func(page int) {
			defer wg.Done()
			img, err := s.renderer.RenderPage(ctx, page)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.logger.Warn("page render failed", "page", page, "error", err)
				errs = append(errs, PageError{Page: page, Err: err})
				return
			}
			images = append(images, img)
		}(page)
	}
	wg.Wait()

	sort.Slice(images, func(i, j int) bool { return images[i].Page < images[j].Page })
	sort.Slice(errs, func(i, j int) bool { return errs[i].Page < errs[j].Page })

	if s.OnPage != nil {
		for _, img := range images {
			s.OnPage(img)
		}
	}
	return images, errs
}
