package model

// Event is a typed progress frame emitted by the screening orchestrator.
// Streaming consumers receive these as newline-delimited "data: <json>"
// frames; unset fields are omitted so each frame carries only what its
// type defines.
type Event struct {
	Type     string            `json:"type"`
	RunID    string            `json:"runId,omitempty"`
	Total    int               `json:"total,omitempty"`
	Current  int               `json:"current,omitempty"`
	Investor string            `json:"investor,omitempty"`
	Index    *int              `json:"index,omitempty"`
	Result   *ScreeningResult  `json:"result,omitempty"`
	Results  []ScreeningResult `json:"results,omitempty"`
	Summary  *Summary          `json:"summary,omitempty"`
	Message  string            `json:"message,omitempty"`
}

// Event types, in emission order: one start, then per investor one progress
// and one result, then one complete.
const (
	EventStart    = "start"
	EventProgress = "progress"
	EventResult   = "result"
	EventComplete = "complete"
)

// EventSink receives orchestrator events. Implementations must tolerate
// being called from a single goroutine only.
type EventSink interface {
	Emit(ev Event)
}

// EventSinkFunc adapts a function to the EventSink interface.
type EventSinkFunc func(ev Event)

// Emit calls f(ev).
func (f EventSinkFunc) Emit(ev Event) { f(ev) }
