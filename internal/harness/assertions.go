package harness

import "fmt"

// EvaluateAssertions checks every scenario assertion against the result
// and returns the failure messages. An empty slice means all held.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertFired:
			err = assertFired(result, a)
		case AssertFiredOrder:
			err = assertFiredOrder(result, a)
		case AssertFiredCount:
			err = assertFiredCount(result, a)
		case AssertDiagnosticCount:
			err = assertDiagnosticCount(result, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			failures = append(failures, fmt.Sprintf("assertion %d (%s): %v", i, a.Type, err))
		}
	}
	return failures
}

func assertFired(result *Result, a Assertion) error {
	for _, te := range result.Firings() {
		if te.Rule == a.Rule {
			return nil
		}
	}
	return fmt.Errorf("rule %q never fired", a.Rule)
}

// assertFiredOrder checks relative order: the listed rules must appear as
// a subsequence of the firing trace, not necessarily adjacent.
func assertFiredOrder(result *Result, a Assertion) error {
	next := 0
	for _, te := range result.Firings() {
		if next < len(a.Rules) && te.Rule == a.Rules[next] {
			next++
		}
	}
	if next < len(a.Rules) {
		return fmt.Errorf("rule %q did not fire in expected position %d", a.Rules[next], next)
	}
	return nil
}

func assertFiredCount(result *Result, a Assertion) error {
	count := 0
	for _, te := range result.Firings() {
		if te.Rule == a.Rule {
			count++
		}
	}
	if count != a.Count {
		return fmt.Errorf("rule %q fired %d times, expected %d", a.Rule, count, a.Count)
	}
	return nil
}

func assertDiagnosticCount(result *Result, a Assertion) error {
	count := len(result.Diagnostics())
	if count != a.Count {
		return fmt.Errorf("got %d diagnostics, expected %d", count, a.Count)
	}
	return nil
}
