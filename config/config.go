// Package config holds the runtime vocabulary and route-table configuration
// consumed by the gate and routing packages. Compiled defaults cover the
// canonical deployment; YAML overrides let an operator extend topic tables
// or token vocabularies without a rebuild.
package config

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/turnmesh/core"
)

// Config bundles every tunable table of the turn-control core. Zero-value
// slices fall back to the compiled defaults on Normalize, so a partial YAML
// override only replaces what it names.
type Config struct {
	// Gate classification vocabularies. Matching is exact token or
	// token-plus-space prefix on folded text.
	YesTokens    []string `yaml:"yes_tokens"`
	NoTokens     []string `yaml:"no_tokens"`
	CancelTokens []string `yaml:"cancel_tokens"`

	// DefaultReprompt is shown when an awaiting gate has no display prompt.
	DefaultReprompt string `yaml:"default_reprompt"`

	// Routing heuristic tables.
	CommandPrefixes []string `yaml:"command_prefixes"`
	Topics          []string `yaml:"topics"`
	ActionDomains   []string `yaml:"action_domains"`
	DataKeywords    []string `yaml:"data_keywords"`

	// WizardSteps is the closed set of known wizard steps; an unknown step
	// heals to the first entry.
	WizardSteps []string `yaml:"wizard_steps"`
}

// Default returns the compiled configuration.
func Default() *Config {
	return &Config{
		YesTokens: []string{
			"yes", "y", "yeah", "yep", "yup", "sure", "ok", "okay",
			"confirm", "affirmative", "correct", "do it", "go ahead",
		},
		NoTokens: []string{
			"no", "n", "nope", "nah", "negative", "dont", "do not",
		},
		CancelTokens: []string{
			"cancel", "stop", "abort", "quit", "exit",
			"never mind", "nevermind", "forget it",
		},
		DefaultReprompt: "Please answer yes, no, or cancel.",
		CommandPrefixes: []string{
			"query", "select", "insert", "update", "delete",
			"count", "show", "list", "find",
		},
		Topics: []string{
			"attendance", "consents", "students", "courses",
			"sections", "enrollments", "grades", "staff",
		},
		ActionDomains: []string{"data", "database", "records", "reports"},
		DataKeywords: []string{
			"table", "record", "records", "rows", "database",
			"sql", "query", "count", "report",
		},
		WizardSteps: []string{"choose_topic", "collect_details", "confirm"},
	}
}

// Normalize lower-cases and trims every table and fills empty tables from
// the defaults. It returns the receiver for chaining.
func (c *Config) Normalize() *Config {
	def := Default()
	fill := func(dst *[]string, fallback []string) {
		if len(*dst) == 0 {
			*dst = fallback
		}
		out := make([]string, 0, len(*dst))
		for _, v := range *dst {
			if n := core.NormalizeName(v); n != "" {
				out = append(out, n)
			}
		}
		*dst = out
	}
	fill(&c.YesTokens, def.YesTokens)
	fill(&c.NoTokens, def.NoTokens)
	fill(&c.CancelTokens, def.CancelTokens)
	fill(&c.CommandPrefixes, def.CommandPrefixes)
	fill(&c.Topics, def.Topics)
	fill(&c.ActionDomains, def.ActionDomains)
	fill(&c.DataKeywords, def.DataKeywords)
	fill(&c.WizardSteps, def.WizardSteps)
	if c.DefaultReprompt == "" {
		c.DefaultReprompt = def.DefaultReprompt
	}
	return c
}

// DefaultWizardStep is the safe step an invalid wizard sub-state heals to.
func (c *Config) DefaultWizardStep() string {
	if len(c.WizardSteps) == 0 {
		return ""
	}
	return c.WizardSteps[0]
}

// KnownWizardStep reports whether step is in the configured step set.
func (c *Config) KnownWizardStep(step string) bool {
	step = core.NormalizeName(step)
	for _, s := range c.WizardSteps {
		if s == step {
			return true
		}
	}
	return false
}

// Load reads a YAML override from r on top of the defaults.
func Load(r io.Reader) (*Config, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg.Normalize(), nil
}

// LoadFile reads a YAML override file on top of the defaults.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return Load(f)
}
