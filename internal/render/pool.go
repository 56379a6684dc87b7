package render

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/Sonucs12/pdf-weaver/internal/types"
)

// errPoolStopped signals that the pool no longer accepts work.
var errPoolStopped = errors.New("render pool stopped")

type renderTask struct {
	page int
	resp chan renderResult

	// claimed is set by whoever renders the page, worker or submitter,
	// so a task caught between Stop and a worker dequeue cannot be
	// rasterized twice.
	claimed *atomic.Bool
}

type renderResult struct {
	img types.PageImage
	err error
}

// PoolRenderer runs page rendering on a fixed set of background workers.
// If the pool cannot take a task (stopped, or the queue is saturated), the
// page is rendered inline instead so the run still completes.
type PoolRenderer struct {
	src    PageSource
	inline *InlineRenderer
	tasks  chan renderTask

	stopOnce sync.Once
	stopped  chan struct{}
	wg       sync.WaitGroup
}

// NewPoolRenderer starts workers goroutines draining a bounded task queue.
func NewPoolRenderer(src PageSource, workers int) *PoolRenderer {
	if workers < 1 {
		workers = 1
	}
	p := &PoolRenderer{
		src:     src,
		inline:  NewInlineRenderer(src),
		tasks:   make(chan renderTask, workers*2),
		stopped: make(chan struct{}),
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *PoolRenderer) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.stopped:
			return
		case task := <-p.tasks:
			if !task.claimed.CompareAndSwap(false, true) {
				continue
			}
			img, err := p.src.RenderPage(task.page)
			task.resp <- renderResult{img: img, err: err}
		}
	}
}

// RenderPage submits the page to the pool and waits for the result,
// falling back to inline rendering when the pool is unavailable.
func (p *PoolRenderer) RenderPage(ctx context.Context, page int) (types.PageImage, error) {
	task, err := p.submit(ctx, page)
	if err != nil {
		if errors.Is(err, errPoolStopped) {
			return p.inline.RenderPage(ctx, page)
		}
		return types.PageImage{}, err
	}

	select {
	case <-ctx.Done():
		return types.PageImage{}, ctx.Err()
	case <-p.stopped:
		// The queued task may never be picked up. Claim it; if a
		// worker won the claim first, its result is on the way.
		if task.claimed.CompareAndSwap(false, true) {
			return p.inline.RenderPage(ctx, page)
		}
		select {
		case <-ctx.Done():
			return types.PageImage{}, ctx.Err()
		case res := <-task.resp:
			return res.img, res.err
		}
	case res := <-task.resp:
		return res.img, res.err
	}
}

func (p *PoolRenderer) submit(ctx context.Context, page int) (renderTask, error) {
	task := renderTask{
		page:    page,
		resp:    make(chan renderResult, 1),
		claimed: new(atomic.Bool),
	}
	select {
	case <-ctx.Done():
		return renderTask{}, ctx.Err()
	case <-p.stopped:
		return renderTask{}, errPoolStopped
	case p.tasks <- task:
		return task, nil
	}
}

// Stop drains the workers. In-flight renders finish; queued tasks are
// claimed by their submitters and rendered inline, and later RenderPage
// calls run inline too.
func (p *PoolRenderer) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopped)
	})
	p.wg.Wait()
}
