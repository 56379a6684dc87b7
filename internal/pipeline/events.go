package pipeline

import "unicode/utf8"

// Phase identifies where a run currently is.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseConverting Phase = "converting"
	PhaseExtracting Phase = "extracting"
	PhaseFormatting Phase = "formatting"
	PhaseDone       Phase = "done"
	PhaseCancelled  Phase = "cancelled"
	PhaseFailed     Phase = "failed"
)

// Terminal reports whether the phase ends a run.
func (p Phase) Terminal() bool {
	return p == PhaseDone || p == PhaseCancelled || p == PhaseFailed
}

// Event is a progress notification emitted while a run executes.
// Page is zero for run-level events. Preview carries the first part of
// a page's extracted text so UIs can stream output as it arrives;
// Image carries the page's encoded JPEG on converting events so UIs
// can show the raster being worked on.
type Event struct {
	Phase   Phase
	Message string
	Page    int
	Preview string
	Image   []byte
}

// Observer receives progress events. Calls happen from the pipeline
// goroutine in order; observers should return quickly.
type Observer func(Event)

const previewLimit = 120

func preview(text string) string {
	if len(text) <= previewLimit {
		return text
	}
	// Cut on a rune boundary.
	cut := previewLimit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "…"
}
