package source

import (
	"fmt"
	"reflect"

	"github.com/roach88/tracespy/internal/event"
)

// PanicError wraps a non-error panic value recovered from an instrumented
// function so it can travel as a raise event's error object.
type PanicError struct {
	Value any
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Instrument wraps fn so every invocation emits a call event on entry, a
// return event on normal exit, and a raise event when fn panics (the panic
// is re-raised unchanged afterwards - observation never alters the
// instrumented program's outcome).
//
// Go reflection exposes no formal parameter names, so the caller supplies
// params in declaration order; len(params) must equal fn's arity. The
// emitted frame binds each parameter name to the invocation's actual
// value and stays shared across the call/return/raise events of one
// invocation, which is what lets argument introspection work from a
// return-category matcher.
//
// The return event carries fn's single result directly, nil for a
// zero-result function, and a []any for multi-result functions.
//
// Variadic functions are not supported; the wrapper would have to invent
// a name per expansion site.
//
// The result is the wrapped function with fn's exact type; assert it back:
//
//	wrapped := Instrument(em, "add", "", []string{"a", "b"}, add).(func(int, int) int)
//
// or use InstrumentFunc to keep the type.
func Instrument(em *Emitter, method, owner string, params []string, fn any) any {
	v := reflect.ValueOf(fn)
	t := v.Type()
	if t.Kind() != reflect.Func {
		panic(fmt.Sprintf("source: Instrument requires a function, got %T", fn))
	}
	if t.IsVariadic() {
		panic("source: Instrument does not support variadic functions")
	}
	if len(params) != t.NumIn() {
		panic(fmt.Sprintf("source: %d parameter names for %d-ary function %q", len(params), t.NumIn(), method))
	}

	wrapped := reflect.MakeFunc(t, func(args []reflect.Value) []reflect.Value {
		frame := event.NewMapFrame().DeclareParams(params...)
		for i, name := range params {
			frame.Bind(name, args[i].Interface())
		}

		em.Emit(event.NewCall(method, owner, frame))

		out := callObserved(em, method, owner, frame, v, args)

		em.Emit(event.NewReturn(method, owner, frame, returnPayload(out)))
		return out
	})
	return wrapped.Interface()
}

// InstrumentFunc is Instrument with the function type preserved.
func InstrumentFunc[F any](em *Emitter, method, owner string, params []string, fn F) F {
	return Instrument(em, method, owner, params, fn).(F)
}

// callObserved invokes the wrapped function, emitting a raise event and
// re-panicking when it panics. Split out so the re-panic does not swallow
// the return-event emission path.
func callObserved(em *Emitter, method, owner string, frame event.Frame, fn reflect.Value, args []reflect.Value) []reflect.Value {
	defer func() {
		if r := recover(); r != nil {
			em.Emit(event.NewRaise(method, owner, frame, raisedError(r)))
			panic(r)
		}
	}()
	return fn.Call(args)
}

func raisedError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return &PanicError{Value: r}
}

func returnPayload(out []reflect.Value) any {
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0].Interface()
	default:
		vals := make([]any, len(out))
		for i, v := range out {
			vals[i] = v.Interface()
		}
		return vals
	}
}
