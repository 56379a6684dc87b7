// Package pipeline orchestrates a full run: page range parsing, chunked
// image conversion, batched extraction with credential failover, optional
// formatting, and draft persistence for interrupted runs.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/Sonucs12/pdf-weaver/internal/drafts"
	"github.com/Sonucs12/pdf-weaver/internal/extract"
	"github.com/Sonucs12/pdf-weaver/internal/format"
	"github.com/Sonucs12/pdf-weaver/internal/metrics"
	"github.com/Sonucs12/pdf-weaver/internal/pagerange"
	"github.com/Sonucs12/pdf-weaver/internal/providers"
	"github.com/Sonucs12/pdf-weaver/internal/render"
	"github.com/Sonucs12/pdf-weaver/internal/types"
	"github.com/Sonucs12/pdf-weaver/internal/usage"
)

var (
	// ErrNoText is returned when a run completes but every page
	// produced only whitespace.
	ErrNoText = errors.New("no text extracted")

	// ErrCancelled is returned when a run stops at a chunk boundary
	// because its token was cancelled or its context ended.
	ErrCancelled = errors.New("run cancelled")

	// ErrRunActive is returned when Run is called while another run
	// is still in flight on the same pipeline.
	ErrRunActive = errors.New("a run is already active")
)

// Source is the document a run reads from. *render.Document satisfies
// it; tests substitute fakes.
type Source interface {
	render.PageSource
	PageCount() int
	Path() string
}

// Options tunes a pipeline. Zero values get sensible defaults.
type Options struct {
	MaxPages      int // Largest allowed page span per run
	ChunkSize     int // Pages per conversion/extraction batch
	RenderWorkers int // Background render workers; 0 renders inline
}

func (o Options) withDefaults() Options {
	if o.MaxPages <= 0 {
		o.MaxPages = 5
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = 2
	}
	return o
}

// Pipeline wires the stages together. Construct once and reuse across
// runs; each Run is independent.
type Pipeline struct {
	extractor providers.Extractor
	formatter format.Formatter
	usage     *usage.Tracker
	drafts    *drafts.Store
	opts      Options
	logger    *slog.Logger
	observer  Observer

	// Metrics, when set, records per-page token accounting.
	Metrics *metrics.Recorder

	running atomic.Bool
}

// New creates a pipeline. formatter, tracker, drafts, observer, and
// logger may be nil; the corresponding step is skipped or defaulted.
func New(extractor providers.Extractor, formatter format.Formatter, tracker *usage.Tracker, draftStore *drafts.Store, opts Options, logger *slog.Logger, observer Observer) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if formatter == nil {
		formatter = format.Passthrough{}
	}
	return &Pipeline{
		extractor: extractor,
		formatter: formatter,
		usage:     tracker,
		drafts:    draftStore,
		opts:      opts.withDefaults(),
		logger:    logger,
		observer:  observer,
	}
}

// Run executes one generation over the given page range, for example
// "3-7" or "12". token may be nil when cancellation is not needed.
// Partial text survives cancellation and failure: it is returned in the
// result and saved as a draft.
func (p *Pipeline) Run(ctx context.Context, src Source, rangeInput string, token *Token) (*Result, error) {
	if !p.running.CompareAndSwap(false, true) {
		return nil, ErrRunActive
	}
	defer p.running.Store(false)

	opts := p.opts
	result := &Result{
		RunID:      uuid.New().String(),
		SourceFile: src.Path(),
		Status:     StatusRunning,
	}
	logger := p.logger.With("run_id", result.RunID, "source", src.Path())

	if p.usage != nil {
		if err := p.usage.Allow(ctx); err != nil {
			return p.fail(ctx, result, fmt.Errorf("usage check: %w", err))
		}
	}

	pages, err := pagerange.Parse(rangeInput, src.PageCount(), opts.MaxPages)
	if err != nil {
		return p.fail(ctx, result, err)
	}
	chunks := pages.Chunks(opts.ChunkSize)
	logger.Info("run started", "pages", len(pages), "chunks", len(chunks))

	renderer := render.NewRenderer(src, opts.RenderWorkers)
	defer renderer.Stop()

	stage := render.NewStage(renderer, logger)
	stage.OnPage = func(img types.PageImage) {
		p.emit(Event{Phase: PhaseConverting, Page: img.Page,
			Message: fmt.Sprintf("page %d converted", img.Page),
			Image:   img.Data})
	}

	orch := extract.NewOrchestrator(p.extractor, logger)
	if p.Metrics != nil {
		orch.OnResult = func(page int, res *providers.ExtractResult) {
			if err := p.Metrics.RecordPage(ctx, metrics.PageMetric{
				RunID:            result.RunID,
				Page:             page,
				Model:            res.Model,
				PromptTokens:     res.PromptTokens,
				CompletionTokens: res.CompletionTokens,
				Duration:         res.ExecutionTime,
			}); err != nil {
				logger.Warn("failed to record page metric", "page", page, "error", err)
			}
		}
	}
	orch.OnPage = func(page int, text string) {
		p.emit(Event{Phase: PhaseExtracting, Page: page,
			Message: fmt.Sprintf("page %d extracted", page),
			Preview: preview(text)})
	}

	for i, chunk := range chunks {
		if cancelled(ctx, token) {
			logger.Info("run cancelled", "completed_chunks", i)
			return p.finishAbnormal(ctx, result, StatusCancelled, ErrCancelled)
		}

		p.emit(Event{Phase: PhaseConverting,
			Message: fmt.Sprintf("converting chunk %d/%d", i+1, len(chunks))})
		images, renderErrs := stage.ConvertChunk(ctx, chunk)
		for _, re := range renderErrs {
			result.Pages = append(result.Pages, types.PageResult{Page: re.Page, Err: re.Err})
		}

		p.emit(Event{Phase: PhaseExtracting,
			Message: fmt.Sprintf("extracting chunk %d/%d", i+1, len(chunks))})
		pageResults, err := orch.ExtractChunk(ctx, images)
		result.Pages = append(result.Pages, pageResults...)
		if err != nil {
			logger.Error("run aborted", "error", err)
			return p.finishAbnormal(ctx, result, StatusFailed, err)
		}
	}

	if cancelled(ctx, token) {
		logger.Info("run cancelled before formatting")
		return p.finishAbnormal(ctx, result, StatusCancelled, ErrCancelled)
	}

	raw := extract.Assemble(result.Pages)
	if strings.TrimSpace(raw) == "" {
		return p.fail(ctx, result, ErrNoText)
	}
	result.Markdown = raw

	p.emit(Event{Phase: PhaseFormatting, Message: "formatting document"})
	cleaned, err := p.formatter.Format(ctx, raw)
	if err != nil {
		// Formatting is best effort, the raw document still ships.
		logger.Warn("formatting failed, keeping raw document", "error", err)
	} else {
		result.Markdown = cleaned
	}

	if p.usage != nil {
		if err := p.usage.Record(ctx); err != nil {
			logger.Warn("failed to record usage", "error", err)
		}
	}

	result.Status = StatusDone
	p.emit(Event{Phase: PhaseDone, Message: "run complete"})
	logger.Info("run complete", "pages", len(result.Pages), "chars", len(result.Markdown))
	if p.Metrics != nil {
		if totals, err := p.Metrics.RunTotals(ctx, result.RunID); err == nil {
			logger.Info("run token usage",
				"pages", totals.Pages,
				"prompt_tokens", totals.PromptTokens,
				"completion_tokens", totals.CompletionTokens)
		}
	}
	return result, nil
}

// fail ends a run with a terminal error.
func (p *Pipeline) fail(ctx context.Context, result *Result, err error) (*Result, error) {
	return p.finishAbnormal(ctx, result, StatusFailed, err)
}

// finishAbnormal closes out a cancelled or failed run, keeping whatever
// text was already extracted and saving it as a draft.
func (p *Pipeline) finishAbnormal(ctx context.Context, result *Result, status Status, cause error) (*Result, error) {
	result.Status = status
	result.Err = cause
	result.Markdown = extract.Assemble(result.Pages)

	if p.drafts != nil && strings.TrimSpace(result.Markdown) != "" {
		// Draft writes must survive a cancelled context.
		saveCtx := context.WithoutCancel(ctx)
		if err := p.drafts.Save(saveCtx, result.RunID, result.SourceFile, result.Markdown); err != nil {
			p.logger.Warn("failed to save draft", "run_id", result.RunID, "error", err)
		} else {
			result.DraftSaved = true
		}
	}

	phase := PhaseFailed
	if status == StatusCancelled {
		phase = PhaseCancelled
	}
	p.emit(Event{Phase: phase, Message: cause.Error()})
	return result, cause
}

func (p *Pipeline) emit(ev Event) {
	if p.observer != nil {
		p.observer(ev)
	}
}

func cancelled(ctx context.Context, token *Token) bool {
	if ctx.Err() != nil {
		return true
	}
	return token != nil && token.Cancelled()
}
