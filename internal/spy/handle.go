package spy

import (
	"errors"
	"sync"

	"github.com/roach88/tracespy/internal/match"
	"github.com/roach88/tracespy/internal/observe"
	"github.com/roach88/tracespy/internal/source"
)

// ErrNoSource is returned by Enable when no event source was configured.
var ErrNoSource = errors.New("spy: no event source configured")

// Handle is the externally visible control object for one watch target:
// matcher registration, enable/disable lifecycle, and the introspection
// accessors matcher bodies use.
//
// All state belongs to the handle instance. Independent handles targeting
// different methods share nothing.
type Handle struct {
	target     WatchTarget
	registry   *Registry
	dispatcher *Dispatcher
	src        source.EventSource

	mu  sync.Mutex
	sub source.Subscription
}

// Option configures a Handle at construction.
type Option func(*handleConfig)

type handleConfig struct {
	owner    any
	observer observe.Observer
	tokens   TokenGenerator
	src      source.EventSource
	setup    func(*Handle)
}

// WithOwner constrains the owning type. Accepts an exact identifier or a
// predicate-capable value (match.Value, *regexp.Regexp, func(T) bool).
// Default: accept all types.
func WithOwner(owner any) Option {
	return func(c *handleConfig) { c.owner = owner }
}

// WithObserver injects the diagnostic sink for matcher and extraction
// failures. Default: discard.
func WithObserver(obs observe.Observer) Option {
	return func(c *handleConfig) { c.observer = obs }
}

// WithTokens injects the cycle-token generator. Default: UUIDv7.
func WithTokens(gen TokenGenerator) Option {
	return func(c *handleConfig) { c.tokens = gen }
}

// WithSource attaches the event source Enable subscribes to.
func WithSource(src source.EventSource) Option {
	return func(c *handleConfig) { c.src = src }
}

// WithSetup runs a self-configuring initializer against the handle before
// New returns, for callers that want registration next to construction:
//
//	h := spy.New("checkout", spy.WithSetup(func(h *spy.Handle) {
//		h.OnReturn(nil, record)
//	}))
func WithSetup(fn func(*Handle)) Option {
	return func(c *handleConfig) { c.setup = fn }
}

// New creates a disabled handle watching the given method. method accepts
// an exact symbol or any predicate-capable value; both it and the owner
// option go through the same coercion (match.Adapt), so the two matching
// positions behave symmetrically.
func New(method any, opts ...Option) *Handle {
	cfg := handleConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	target := NewWatchTarget(match.Adapt(method), match.Adapt(cfg.owner))
	registry := NewRegistry()

	h := &Handle{
		target:     target,
		registry:   registry,
		dispatcher: NewDispatcher(target, registry, cfg.observer, cfg.tokens),
		src:        cfg.src,
	}

	if cfg.setup != nil {
		cfg.setup(h)
	}
	return h
}

// Target returns the immutable watch target.
func (h *Handle) Target() WatchTarget { return h.target }

// State returns the dispatcher's lifecycle state.
func (h *Handle) State() State { return h.dispatcher.State() }

// OnArguments registers a matcher for the arguments category: predicate
// and callback both see the parameter-name-to-value mapping in declaration
// order. A nil predicate matches every call.
func (h *Handle) OnArguments(predicate any, callback func(Bindings)) *Handle {
	h.registry.Register(CategoryArguments, NewMatcher(match.Adapt(predicate), func(payload any) {
		if callback != nil {
			b, _ := payload.(Bindings)
			callback(b)
		}
	}))
	return h
}

// OnLocals registers a matcher for the locals category, fired on line
// events with all currently-bound locals.
func (h *Handle) OnLocals(predicate any, callback func(Bindings)) *Handle {
	h.registry.Register(CategoryLocals, NewMatcher(match.Adapt(predicate), func(payload any) {
		if callback != nil {
			b, _ := payload.(Bindings)
			callback(b)
		}
	}))
	return h
}

// OnReturn registers a matcher for the return category, fired with the
// returned value.
func (h *Handle) OnReturn(predicate any, callback func(any)) *Handle {
	h.registry.Register(CategoryReturn, NewMatcher(match.Adapt(predicate), func(payload any) {
		if callback != nil {
			callback(payload)
		}
	}))
	return h
}

// OnException registers a matcher for the exception category, fired with
// the raised error.
func (h *Handle) OnException(predicate any, callback func(error)) *Handle {
	h.registry.Register(CategoryException, NewMatcher(match.Adapt(predicate), func(payload any) {
		if callback != nil {
			raised, _ := payload.(error)
			callback(raised)
		}
	}))
	return h
}

// Enable arms the dispatcher and subscribes it to the event source.
// Fails with ErrNoSource when no source is configured and with
// *AlreadyArmedError when already enabled.
func (h *Handle) Enable() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.src == nil {
		return ErrNoSource
	}
	if err := h.dispatcher.Arm(); err != nil {
		return err
	}
	sub, err := h.src.Subscribe(h.dispatcher.HandleEvent)
	if err != nil {
		h.dispatcher.Disarm()
		return err
	}
	h.sub = sub
	return nil
}

// Disable detaches from the event source and returns the dispatcher to
// Idle. Safe no-op on a never-enabled (or already disabled) handle,
// returning false in that case and true when the handle was live.
func (h *Handle) Disable() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	was := h.dispatcher.Disarm()
	if h.sub != nil {
		_ = h.sub.Close()
		h.sub = nil
	}
	return was
}

// CurrentArguments reads the live dispatch context; see
// Dispatcher.CurrentArguments for the raise-time restriction.
func (h *Handle) CurrentArguments() Bindings {
	return h.dispatcher.CurrentArguments()
}

// CurrentLocalVariables reads the live dispatch context; see
// Dispatcher.CurrentLocalVariables.
func (h *Handle) CurrentLocalVariables() Bindings {
	return h.dispatcher.CurrentLocalVariables()
}
