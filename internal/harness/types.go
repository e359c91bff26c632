package harness

// TraceEvent is one entry in a scenario's execution trace: either a
// matcher firing or a dispatch diagnostic.
type TraceEvent struct {
	Type     string `json:"type"` // "fired" or "diagnostic"
	Seq      int64  `json:"seq"`
	Kind     string `json:"kind"`
	Category string `json:"category"`
	Rule     string `json:"rule,omitempty"`
	Payload  string `json:"payload,omitempty"`
	Cycle    string `json:"cycle,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success: all assertions held.
	Pass bool `json:"pass"`

	// Trace contains firings and diagnostics in dispatch order.
	Trace []TraceEvent `json:"trace"`

	// Admitted counts events the watch target admitted.
	Admitted int `json:"admitted"`

	// Errors contains assertion failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:  true,
		Trace: []TraceEvent{},
	}
}

// AddError adds an assertion failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Firings returns the trace filtered to matcher firings.
func (r *Result) Firings() []TraceEvent {
	var out []TraceEvent
	for _, te := range r.Trace {
		if te.Type == "fired" {
			out = append(out, te)
		}
	}
	return out
}

// Diagnostics returns the trace filtered to dispatch diagnostics.
func (r *Result) Diagnostics() []TraceEvent {
	var out []TraceEvent
	for _, te := range r.Trace {
		if te.Type == "diagnostic" {
			out = append(out, te)
		}
	}
	return out
}
