package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tracespy/internal/config"
	"github.com/roach88/tracespy/internal/event"
	"github.com/roach88/tracespy/internal/observe"
	"github.com/roach88/tracespy/internal/source"
	"github.com/roach88/tracespy/internal/spy"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Plan string
}

// Firing records one matcher callback invocation during replay.
type Firing struct {
	Seq      int64  `json:"seq"`
	Kind     string `json:"kind"`
	Category string `json:"category"`
	Rule     string `json:"rule"`
	Payload  string `json:"payload"`
}

// ReplayDiagnostic is a reported dispatch failure, rendered for output.
type ReplayDiagnostic struct {
	Kind     string `json:"kind"`
	Cycle    string `json:"cycle"`
	Seq      int64  `json:"seq"`
	Event    string `json:"event"`
	Category string `json:"category"`
	Matcher  int    `json:"matcher,omitempty"`
	Error    string `json:"error"`
}

// ReplayReport is the overall replay result.
type ReplayReport struct {
	Method      string             `json:"method"`
	Owner       string             `json:"owner,omitempty"`
	Events      int                `json:"events"`
	Admitted    int                `json:"admitted"`
	Firings     []Firing           `json:"firings"`
	Diagnostics []ReplayDiagnostic `json:"diagnostics,omitempty"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <events.yaml>",
		Short: "Replay a recorded event stream through a watch plan",
		Long: `Replay a recorded event stream through the dispatch core, applying the
matchers declared in a watch plan, and report which rules fired for which
events along with any isolated matcher failures.

The stream is dispatched exactly as a live source would deliver it:
in order, synchronously, one event at a time.

Examples:
  tracespy replay --plan watch.yaml trace.yaml
  tracespy replay --plan watch.yaml trace.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Plan, "plan", "", "path to watch plan YAML (required)")
	_ = cmd.MarkFlagRequired("plan")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command, eventsPath string) error {
	plan, err := config.Load(opts.Plan)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load watch plan", err)
	}
	events, err := LoadEvents(eventsPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load event stream", err)
	}
	if opts.Verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "loaded %d rules, %d events\n", len(plan.Rules), len(events))
	}

	report, err := replay(plan, events)
	if err != nil {
		return WrapExitError(ExitCommandError, "replay failed", err)
	}

	if opts.Format == "json" {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(report)
	}
	renderReplayText(cmd, report)
	return nil
}

// replay drives the stream through a freshly built handle and collects
// the report. Cycle tokens come from a numbered generator so output is
// deterministic run to run.
func replay(plan *config.Plan, events []*event.Event) (*ReplayReport, error) {
	method, err := plan.Target.MethodMatcher()
	if err != nil {
		return nil, err
	}
	owner, err := plan.Target.OwnerMatcher()
	if err != nil {
		return nil, err
	}

	report := &ReplayReport{
		Method:  describeMatcher(plan.Target.Method, plan.Target.MethodPattern),
		Owner:   describeMatcher(plan.Target.Owner, plan.Target.OwnerPattern),
		Events:  len(events),
		Firings: []Firing{},
	}

	obs := observe.NewMemoryObserver()
	em := source.NewEmitter()

	// Pre-subscribe a context tap: it sees each event before the handle
	// does, so rule callbacks can attribute firings to the right event.
	target := spy.NewWatchTarget(method, owner)
	var current *event.Event
	if _, err := em.Subscribe(func(ev *event.Event) {
		current = ev
		if target.Admits(ev) {
			report.Admitted++
		}
	}); err != nil {
		return nil, err
	}

	h := spy.New(method,
		spy.WithOwner(owner),
		spy.WithSource(em),
		spy.WithObserver(obs),
		spy.WithTokens(spy.NewPrefixGenerator("cycle")),
	)

	for i, rule := range plan.Rules {
		cat, pred, err := rule.Compile()
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i, rule.Label(i), err)
		}

		label := rule.Label(i)
		record := func(payload any) {
			report.Firings = append(report.Firings, Firing{
				Seq:      current.Seq,
				Kind:     current.Kind.String(),
				Category: cat.String(),
				Rule:     label,
				Payload:  renderPayload(payload),
			})
		}

		switch cat {
		case spy.CategoryArguments:
			h.OnArguments(pred, func(b spy.Bindings) { record(b) })
		case spy.CategoryLocals:
			h.OnLocals(pred, func(b spy.Bindings) { record(b) })
		case spy.CategoryReturn:
			h.OnReturn(pred, func(v any) { record(v) })
		case spy.CategoryException:
			h.OnException(pred, func(raised error) { record(raised) })
		}
	}

	if err := h.Enable(); err != nil {
		return nil, err
	}
	for _, ev := range events {
		em.Emit(ev)
	}
	h.Disable()

	for _, d := range obs.Diagnostics() {
		rd := ReplayDiagnostic{
			Kind:     string(d.Kind),
			Cycle:    d.CycleToken,
			Seq:      d.Seq,
			Event:    d.EventKind.String(),
			Category: d.Category,
			Matcher:  d.MatcherIndex,
		}
		if d.Err != nil {
			rd.Error = d.Err.Error()
		}
		report.Diagnostics = append(report.Diagnostics, rd)
	}
	return report, nil
}

func describeMatcher(exact, pattern string) string {
	if pattern != "" {
		return "~" + pattern
	}
	return exact
}

// renderPayload formats a matcher payload for the report. Bindings render
// in mapping order; everything else through fmt (which sorts map keys, so
// values decoded from YAML render deterministically).
func renderPayload(payload any) string {
	switch v := payload.(type) {
	case spy.Bindings:
		parts := make([]string, v.Len())
		for i, b := range v {
			parts[i] = fmt.Sprintf("%s=%v", b.Name, b.Value)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case error:
		return v.Error()
	case nil:
		return "<nil>"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func renderReplayText(cmd *cobra.Command, report *ReplayReport) {
	out := cmd.OutOrStdout()

	if report.Owner != "" {
		fmt.Fprintf(out, "target method=%s owner=%s\n", report.Method, report.Owner)
	} else {
		fmt.Fprintf(out, "target method=%s\n", report.Method)
	}
	fmt.Fprintf(out, "events total=%d admitted=%d\n", report.Events, report.Admitted)

	for _, f := range report.Firings {
		fmt.Fprintf(out, "fired rule=%s seq=%d kind=%s category=%s payload=%s\n",
			f.Rule, f.Seq, f.Kind, f.Category, f.Payload)
	}
	for _, d := range report.Diagnostics {
		fmt.Fprintf(out, "diag kind=%s cycle=%s seq=%d event=%s category=%s matcher=%d err=%s\n",
			d.Kind, d.Cycle, d.Seq, d.Event, d.Category, d.Matcher, d.Error)
	}
	fmt.Fprintf(out, "done firings=%d diagnostics=%d\n", len(report.Firings), len(report.Diagnostics))
}
