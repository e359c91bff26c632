// Package match provides the single matching capability the instrumentation
// core is built on: a Value that can test membership against a candidate.
//
// Every place the core compares things - target method names, owning types,
// matcher predicates over extracted payloads - goes through Value.Matches.
// This lets a configured value itself be a predicate (a regexp, a type
// check, an arbitrary function) rather than only a literal, applied
// symmetrically in every matching position.
//
// Concrete variants: Exact (literal equality, NFC-normalized for strings),
// Type (dynamic type check), Regexp (pattern over string candidates), Func
// (wrapped predicate function), ErrorIs (errors.Is against a sentinel), and
// the Any sentinel that matches everything.
package match
