package match

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"

	"golang.org/x/text/unicode/norm"
)

// Value tests membership against a candidate.
//
// Matches must be a pure predicate: no mutation of the candidate, no side
// effects. A panicking Matches is a matcher-author bug; the dispatcher
// isolates it, this package does not.
type Value interface {
	Matches(candidate any) bool
}

// Any returns the accept-everything sentinel. It is the default
// owning-type matcher: filters short-circuit on it without inspecting the
// candidate at all.
func Any() Value {
	return anyValue{}
}

// IsAny reports whether v is the Any sentinel.
func IsAny(v Value) bool {
	_, ok := v.(anyValue)
	return ok
}

type anyValue struct{}

func (anyValue) Matches(any) bool { return true }

func (anyValue) String() string { return "any" }

// Exact matches candidates equal to want.
//
// String comparison is NFC-normalized on both sides: symbol names arriving
// from different event sources may differ in Unicode normalization form
// while naming the same routine. Non-string values compare with
// reflect.DeepEqual.
func Exact(want any) Value {
	return exactValue{want: want}
}

type exactValue struct {
	want any
}

func (e exactValue) Matches(candidate any) bool {
	ws, wok := e.want.(string)
	cs, cok := candidate.(string)
	if wok && cok {
		return norm.NFC.String(ws) == norm.NFC.String(cs)
	}
	return reflect.DeepEqual(e.want, candidate)
}

func (e exactValue) String() string { return fmt.Sprintf("exact(%v)", e.want) }

// Type returns a matcher that accepts candidates whose dynamic type is
// assignable to T (including interface satisfaction when T is an
// interface type).
//
// NOTE: wrapped errors are checked by dynamic type only; use ErrorIs for
// errors.Is semantics over wrap chains.
func Type[T any]() Value {
	return typeValue{want: reflect.TypeOf((*T)(nil)).Elem()}
}

type typeValue struct {
	want reflect.Type
}

func (t typeValue) Matches(candidate any) bool {
	if candidate == nil {
		return false
	}
	ct := reflect.TypeOf(candidate)
	if t.want.Kind() == reflect.Interface {
		return ct.Implements(t.want)
	}
	return ct.AssignableTo(t.want)
}

func (t typeValue) String() string { return fmt.Sprintf("type(%s)", t.want) }

// ErrorIs matches error candidates for which errors.Is(candidate, sentinel)
// holds. Non-error candidates never match.
func ErrorIs(sentinel error) Value {
	return errorIsValue{sentinel: sentinel}
}

type errorIsValue struct {
	sentinel error
}

func (e errorIsValue) Matches(candidate any) bool {
	err, ok := candidate.(error)
	if !ok {
		return false
	}
	return errors.Is(err, e.sentinel)
}

func (e errorIsValue) String() string { return fmt.Sprintf("errorIs(%v)", e.sentinel) }

// Regexp matches string-like candidates against a compiled pattern.
// Accepted candidate forms: string, fmt.Stringer, and error (matched
// against its Error() message). Anything else never matches.
func Regexp(re *regexp.Regexp) Value {
	return regexpValue{re: re}
}

// Compile builds a Regexp matcher from a pattern expression.
func Compile(expr string) (Value, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile match pattern %q: %w", expr, err)
	}
	return Regexp(re), nil
}

// MustCompile is Compile for patterns known valid at construction time.
// Panics on a bad pattern.
func MustCompile(expr string) Value {
	v, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return v
}

type regexpValue struct {
	re *regexp.Regexp
}

func (r regexpValue) Matches(candidate any) bool {
	switch c := candidate.(type) {
	case string:
		return r.re.MatchString(c)
	case error:
		return r.re.MatchString(c.Error())
	case fmt.Stringer:
		return r.re.MatchString(c.String())
	default:
		return false
	}
}

func (r regexpValue) String() string { return fmt.Sprintf("regexp(%s)", r.re) }

// Func wraps an arbitrary one-argument boolean predicate as a Value.
//
// pred must have signature func(T) bool for some T. Candidates that are
// not assignable to T never match (they are outside the predicate's
// domain, not an error). A panic inside pred propagates to the caller;
// failure isolation is the dispatcher's job.
func Func(pred any) Value {
	v := reflect.ValueOf(pred)
	t := v.Type()
	if t.Kind() != reflect.Func || t.NumIn() != 1 || t.NumOut() != 1 || t.Out(0).Kind() != reflect.Bool {
		panic(fmt.Sprintf("match: Func requires func(T) bool, got %T", pred))
	}
	return funcValue{fn: v, in: t.In(0)}
}

type funcValue struct {
	fn reflect.Value
	in reflect.Type
}

func (f funcValue) Matches(candidate any) bool {
	var arg reflect.Value
	if candidate == nil {
		switch f.in.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
			arg = reflect.Zero(f.in)
		default:
			return false
		}
	} else {
		cv := reflect.ValueOf(candidate)
		if !cv.Type().AssignableTo(f.in) {
			return false
		}
		arg = cv
	}
	return f.fn.Call([]reflect.Value{arg})[0].Bool()
}

func (f funcValue) String() string { return fmt.Sprintf("func(%s)", f.in) }

// Adapt coerces an exact-or-predicate configuration value into a Value:
//   - nil            -> Any (unspecified means unconstrained)
//   - Value          -> itself
//   - *regexp.Regexp -> Regexp
//   - func(T) bool   -> Func
//   - anything else  -> Exact
//
// This is the single coercion point for the public configuration surface,
// so handles accept plain literals and predicates interchangeably.
func Adapt(v any) Value {
	switch m := v.(type) {
	case nil:
		return Any()
	case Value:
		return m
	case *regexp.Regexp:
		return Regexp(m)
	default:
		rt := reflect.TypeOf(v)
		if rt.Kind() == reflect.Func && rt.NumIn() == 1 && rt.NumOut() == 1 && rt.Out(0).Kind() == reflect.Bool {
			return Func(v)
		}
		return Exact(v)
	}
}
