package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tracespy/internal/config"
)

func checkoutScenario(t *testing.T) *Scenario {
	t.Helper()
	s, err := LoadScenario("testdata/scenarios/checkout_conformance.yaml")
	require.NoError(t, err)
	return s
}

func TestRunCheckoutScenario(t *testing.T) {
	result, err := Run(checkoutScenario(t))
	require.NoError(t, err)

	assert.True(t, result.Pass, "assertion failures: %v", result.Errors)
	assert.Equal(t, 4, result.Admitted)
	require.Len(t, result.Firings(), 3)
	require.Len(t, result.Diagnostics(), 1)

	d := result.Diagnostics()[0]
	assert.Equal(t, "c_call", d.Kind)
	assert.Equal(t, "cycle-3", d.Cycle)
	assert.Contains(t, d.Error, "no inspectable frame")
}

func TestRunUnwatchedStream(t *testing.T) {
	s := checkoutScenario(t)
	s.Target = config.TargetConfig{Method: "refund"}
	s.Assertions = nil

	result, err := Run(s)
	require.NoError(t, err)
	assert.Zero(t, result.Admitted)
	assert.Empty(t, result.Trace)
}

func TestRunFailedAssertion(t *testing.T) {
	s := checkoutScenario(t)
	s.Assertions = []Assertion{
		{Type: AssertFiredCount, Rule: "any-return", Count: 2},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], `rule "any-return" fired 1 times, expected 2`)
}

func TestRunBadRule(t *testing.T) {
	s := checkoutScenario(t)
	s.Rules = append(s.Rules, config.RuleConfig{Category: "return", Pattern: "("})

	_, err := Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rule 3")
}

func TestCheckoutGolden(t *testing.T) {
	require.NoError(t, RunWithGolden(t, checkoutScenario(t)))
}
