// Package harness provides conformance testing for the dispatch core.
//
// The harness loads watch scenarios, drives a recorded event stream
// through an armed spy, and validates which matchers fired as executable
// contract tests.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	target:
//	  method: checkout
//	  owner: Cart
//	rules:
//	  - name: big-order
//	    category: arguments
//	    has: { total: 100 }
//	events:
//	  - kind: call
//	    method: checkout
//	    owner: Cart
//	    params: [total]
//	    bindings:
//	      - { name: total, value: 100 }
//	assertions:
//	  - type: fired
//	    rule: big-order
//	  - type: fired_count
//	    rule: big-order
//	    count: 1
//	  - type: fired_order
//	    rules: [big-order, any-return]
//	  - type: diagnostic_count
//	    count: 0
//
// # Assertion Types
//
// The following assertion types are supported:
//
//   - fired: Verifies the named rule fired at least once
//   - fired_order: Verifies rules fired in the specified relative order
//   - fired_count: Verifies the named rule fired exactly N times
//   - diagnostic_count: Verifies exactly N dispatch diagnostics were reported
//
// # Deterministic Testing
//
// All scenarios execute with a numbered cycle token generator and a fresh
// logical clock, so identical scenarios produce identical traces across
// runs for golden file comparison.
package harness
