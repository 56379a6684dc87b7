package pipeline

import "github.com/Sonucs12/pdf-weaver/internal/types"

// Status is the terminal disposition of a run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusDone      Status = "done"
	StatusCancelled Status = "cancelled"
	StatusFailed    Status = "failed"
)

// Result describes a finished run. On cancellation or failure Markdown
// holds whatever text was extracted before the run stopped, and
// DraftSaved reports whether that text was persisted.
type Result struct {
	RunID      string
	SourceFile string
	Status     Status
	Markdown   string
	Pages      []types.PageResult
	DraftSaved bool
	Err        error
}

// Partial reports whether the run ended early but still produced text.
func (r *Result) Partial() bool {
	return r.Status != StatusDone && r.Markdown != ""
}
