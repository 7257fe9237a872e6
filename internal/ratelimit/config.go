package ratelimit

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default rules: 100 requests/minute for ordinary API routes, 20/minute for
// the pipeline proxy family.
var (
	DefaultRule  = Rule{MaxRequests: 100, Window: time.Minute}
	PipelineRule = Rule{MaxRequests: 20, Window: time.Minute}
)

// FamilyPipeline is the route family for workflow-pipeline proxy routes.
const FamilyPipeline = "pipeline"

// ruleYAML is the on-disk shape of one rule. Window accepts Go duration
// strings ("1m", "30s").
type ruleYAML struct {
	MaxRequests int    `yaml:"max_requests"`
	Window      string `yaml:"window"`
}

type configYAML struct {
	Default  *ruleYAML           `yaml:"default"`
	Families map[string]ruleYAML `yaml:"families"`
}

// LoadRules reads per-family limiter rules from a YAML file. It returns the
// default rule and the family overrides. A missing path ("") yields the
// built-in defaults.
func LoadRules(path string) (Rule, map[string]Rule, error) {
	rules := map[string]Rule{FamilyPipeline: PipelineRule}
	if path == "" {
		return DefaultRule, rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Rule{}, nil, fmt.Errorf("read rate limit config: %w", err)
	}

	var cfg configYAML
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Rule{}, nil, fmt.Errorf("parse rate limit config: %w", err)
	}

	def := DefaultRule
	if cfg.Default != nil {
		def, err = toRule(*cfg.Default)
		if err != nil {
			return Rule{}, nil, fmt.Errorf("rate limit config default: %w", err)
		}
	}

	for family, ry := range cfg.Families {
		rule, err := toRule(ry)
		if err != nil {
			return Rule{}, nil, fmt.Errorf("rate limit config family %q: %w", family, err)
		}
		rules[family] = rule
	}

	return def, rules, nil
}

func toRule(ry ruleYAML) (Rule, error) {
	if ry.MaxRequests <= 0 {
		return Rule{}, fmt.Errorf("max_requests must be positive, got %d", ry.MaxRequests)
	}
	window, err := time.ParseDuration(ry.Window)
	if err != nil {
		return Rule{}, fmt.Errorf("invalid window: %w", err)
	}
	if window <= 0 {
		return Rule{}, fmt.Errorf("window must be positive, got %s", window)
	}
	return Rule{MaxRequests: ry.MaxRequests, Window: window}, nil
}
