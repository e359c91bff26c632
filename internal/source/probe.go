package source

import "github.com/roach88/tracespy/internal/event"

// Probe emits line events for one routine. Instrumented code that wants
// to expose its locals at chosen points creates a probe next to its
// Instrument wrapper and calls Line wherever a step notification should
// fire.
//
// The probe does not capture anything implicitly: the caller builds the
// frame, which keeps the ambient-context access explicit and
// lifetime-bounded like every other frame in the pipeline.
type Probe struct {
	em     *Emitter
	method string
	owner  string
}

// NewProbe creates a probe bound to an emitter and a routine identity.
func NewProbe(em *Emitter, method, owner string) *Probe {
	return &Probe{em: em, method: method, owner: owner}
}

// Line emits one line event carrying the given frame.
func (p *Probe) Line(frame event.Frame) {
	p.em.Emit(event.NewLine(p.method, p.owner, frame))
}

// LineVars is a convenience for the common case: emit a line event whose
// frame binds the given alternating name/value pairs, in order.
// Panics on an odd pair count or a non-string name.
func (p *Probe) LineVars(kv ...any) {
	if len(kv)%2 != 0 {
		panic("source: LineVars requires name/value pairs")
	}
	frame := event.NewMapFrame()
	for i := 0; i < len(kv); i += 2 {
		name, ok := kv[i].(string)
		if !ok {
			panic("source: LineVars names must be strings")
		}
		frame.Bind(name, kv[i+1])
	}
	p.Line(frame)
}
