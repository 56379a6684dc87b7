package extract

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/Sonucs12/pdf-weaver/internal/errclass"
	"github.com/Sonucs12/pdf-weaver/internal/providers"
	"github.com/Sonucs12/pdf-weaver/internal/types"
)

// pageSeparator joins page texts in the assembled document.
const pageSeparator = "\n\n---\n\n"

// CriticalError wraps a failure that should stop the whole run instead
// of being recorded against a single page.
type CriticalError struct {
	Page int
	Err  error
}

func (e *CriticalError) Error() string {
	return fmt.Sprintf("page %d: %v", e.Page, e.Err)
}

func (e *CriticalError) Unwrap() error {
	return e.Err
}

// Orchestrator extracts the pages of a chunk concurrently.
type Orchestrator struct {
	extractor providers.Extractor
	logger    *slog.Logger

	// OnPage, when set, is called for each successfully extracted
	// page in page order after the chunk completes.
	OnPage func(page int, text string)

	// OnResult, when set, receives the full provider result for each
	// successful page, in page order. Used for metrics recording.
	OnResult func(page int, res *providers.ExtractResult)
}

// NewOrchestrator creates an orchestrator on top of an extractor,
// typically a Failover.
func NewOrchestrator(extractor providers.Extractor, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{extractor: extractor, logger: logger}
}

// ExtractChunk extracts every page image concurrently and returns the
// results sorted by page number. A failed page does not stop its
// siblings; its error is recorded in the result. Critical failures
// (quota, auth, rate limit exhaustion across all credentials) abort
// the chunk with a CriticalError.
func (o *Orchestrator) ExtractChunk(ctx context.Context, images []types.PageImage) ([]types.PageResult, error) {
	results := make([]types.PageResult, 0, len(images))

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		extracted = make(map[int]*providers.ExtractResult, len(images))
	)
	for _, img := range images {
		wg.Add(1)
		go func(img types.PageImage) {
			defer wg.Done()

			res := types.PageResult{Page: img.Page}
			full, err := o.extractor.ExtractPage(ctx, img.Data, img.Page)
			if err != nil {
				res.Err = err
				o.logger.Error("page extraction failed",
					"page", img.Page,
					"category", string(errclass.Classify(err)),
					"error", err)
			} else {
				res.Text = full.Text
				o.logger.Debug("page extracted",
					"page", img.Page,
					"model", full.Model,
					"chars", len(full.Text),
					"duration", full.ExecutionTime)
			}

			mu.Lock()
			results = append(results, res)
			if full != nil {
				extracted[img.Page] = full
			}
			mu.Unlock()
		}(img)
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool {
		return results[i].Page < results[j].Page
	})

	for _, res := range results {
		if res.Err != nil && errclass.Classify(res.Err).Critical() {
			return results, &CriticalError{Page: res.Page, Err: res.Err}
		}
	}

	for _, res := range results {
		if !res.Ok() {
			continue
		}
		if o.OnResult != nil {
			if full, ok := extracted[res.Page]; ok {
				o.OnResult(res.Page, full)
			}
		}
		if o.OnPage != nil {
			o.OnPage(res.Page, res.Text)
		}
	}

	return results, nil
}

// Assemble joins the successful page texts in page order. Pages that
// failed or produced only whitespace are skipped.
func Assemble(results []types.PageResult) string {
	parts := make([]string, 0, len(results))
	for _, res := range results {
		if !res.Ok() {
			continue
		}
		text := strings.TrimSpace(res.Text)
		if text == "" {
			continue
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, pageSeparator)
}
