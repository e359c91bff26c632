// Package config loads watch plans: YAML documents that declare a watch
// target and a set of matcher rules for driving a spy handle from the
// command line.
//
// A plan deliberately exposes only declarative predicates (exact value,
// pattern, binding subset). The full predicate surface - arbitrary
// functions, type checks - is programmatic API; a config file cannot
// carry code.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/tracespy/internal/match"
	"github.com/roach88/tracespy/internal/spy"
)

// Plan is one parsed watch plan.
type Plan struct {
	Target TargetConfig `yaml:"target"`
	Rules  []RuleConfig `yaml:"rules"`
}

// TargetConfig declares the watched method/owner pair. Exactly one of
// Method/MethodPattern is required; Owner/OwnerPattern are optional and
// mutually exclusive (absent means any owner).
type TargetConfig struct {
	Method        string `yaml:"method"`
	MethodPattern string `yaml:"method_pattern"`
	Owner         string `yaml:"owner"`
	OwnerPattern  string `yaml:"owner_pattern"`
}

// RuleConfig declares one matcher. Category is required. At most one
// predicate field may be set; a rule without one matches every payload of
// its category.
type RuleConfig struct {
	// Name labels the rule in replay reports. Optional; unnamed rules
	// report as "rule-<index>".
	Name string `yaml:"name"`

	// Category is one of arguments, locals, return, exception.
	Category string `yaml:"category"`

	// Equals matches payloads deeply equal to the given value.
	Equals any `yaml:"equals"`

	// Pattern matches string-form payloads (return values, error
	// messages) against a regular expression.
	Pattern string `yaml:"pattern"`

	// Has matches bindings payloads (arguments, locals) that contain
	// every listed name with a deeply equal value.
	Has map[string]any `yaml:"has"`
}

// Load reads and validates a plan file.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read watch plan: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates plan bytes.
func Parse(data []byte) (*Plan, error) {
	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parse watch plan: %w", err)
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return &plan, nil
}

// Validate checks structural rules without compiling anything.
func (p *Plan) Validate() error {
	if err := p.Target.validate(); err != nil {
		return err
	}
	if len(p.Rules) == 0 {
		return fmt.Errorf("watch plan declares no rules")
	}
	for i, rule := range p.Rules {
		if err := rule.validate(); err != nil {
			return fmt.Errorf("rule %d (%s): %w", i, rule.Label(i), err)
		}
	}
	return nil
}

func (t TargetConfig) validate() error {
	switch {
	case t.Method == "" && t.MethodPattern == "":
		return fmt.Errorf("target requires method or method_pattern")
	case t.Method != "" && t.MethodPattern != "":
		return fmt.Errorf("target declares both method and method_pattern")
	case t.Owner != "" && t.OwnerPattern != "":
		return fmt.Errorf("target declares both owner and owner_pattern")
	}
	return nil
}

func (r RuleConfig) validate() error {
	cat, err := spy.CategoryFromString(r.Category)
	if err != nil {
		return err
	}

	set := 0
	if r.Equals != nil {
		set++
	}
	if r.Pattern != "" {
		set++
	}
	if r.Has != nil {
		set++
	}
	if set > 1 {
		return fmt.Errorf("at most one of equals, pattern, has may be set")
	}

	if r.Has != nil && cat != spy.CategoryArguments && cat != spy.CategoryLocals {
		return fmt.Errorf("has applies only to arguments and locals rules")
	}
	if r.Pattern != "" {
		if _, err := match.Compile(r.Pattern); err != nil {
			return err
		}
	}
	return nil
}

// Label returns the report label for the rule at the given index.
func (r RuleConfig) Label(idx int) string {
	if r.Name != "" {
		return r.Name
	}
	return fmt.Sprintf("rule-%d", idx)
}

// MethodMatcher compiles the target's method position.
func (t TargetConfig) MethodMatcher() (match.Value, error) {
	if t.MethodPattern != "" {
		return match.Compile(t.MethodPattern)
	}
	return match.Exact(t.Method), nil
}

// OwnerMatcher compiles the target's owner position. Absent means any.
func (t TargetConfig) OwnerMatcher() (match.Value, error) {
	switch {
	case t.OwnerPattern != "":
		return match.Compile(t.OwnerPattern)
	case t.Owner != "":
		return match.Exact(t.Owner), nil
	default:
		return match.Any(), nil
	}
}

// Compile turns the rule into its category and predicate. Equals values
// decoded from YAML compare with normalized scalar types (int, string,
// bool, float64), which is also how replay event values decode, so the
// two sides agree.
func (r RuleConfig) Compile() (spy.Category, match.Value, error) {
	cat, err := spy.CategoryFromString(r.Category)
	if err != nil {
		return 0, nil, err
	}

	switch {
	case r.Equals != nil:
		return cat, match.Exact(r.Equals), nil
	case r.Pattern != "":
		v, err := match.Compile(r.Pattern)
		if err != nil {
			return 0, nil, err
		}
		return cat, v, nil
	case r.Has != nil:
		want := r.Has
		return cat, match.Func(func(b spy.Bindings) bool {
			for name, value := range want {
				got, ok := b.Get(name)
				if !ok || !match.Exact(value).Matches(got) {
					return false
				}
			}
			return true
		}), nil
	default:
		return cat, match.Any(), nil
	}
}
