// Package settings loads and validates transliterator settings in the
// "easy reading" format: a YAML document declaring tokens with their
// classes, rules written as compact context strings, on-match rules, and
// whitespace handling.
//
//	tokens:
//	  a: [vowel]
//	  ' ': [wb]
//	rules:
//	  a: A
//	  (<wb> a) a: AA
//	onmatch_rules:
//	  - <vowel> + <vowel>: ","
//	whitespace:
//	  default: ' '
//	  token_class: wb
//	  consolidate: true
//
// Settings are validated before construction; cross-referencing problems are
// collected into a ValidationError rather than reported one at a time.
package settings

import (
	"os"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/translitkit/go-translit/translit"
)

// Raw is an easy-reading settings document as unmarshaled from YAML.
type Raw struct {
	Tokens       map[string][]string `yaml:"tokens"`
	Rules        map[string]string   `yaml:"rules"`
	OnMatchRules []map[string]string `yaml:"onmatch_rules"`
	Whitespace   Whitespace          `yaml:"whitespace"`
	Metadata     map[string]any      `yaml:"metadata"`
}

// Whitespace mirrors translit.Whitespace with YAML field names.
type Whitespace struct {
	Default     string `yaml:"default"`
	TokenClass  string `yaml:"token_class"`
	Consolidate bool   `yaml:"consolidate"`
}

// Option adjusts construction settings before the transliterator is built.
type Option func(*translit.Config)

// WithIgnoreErrors makes the transliterator skip unrecognizable input and
// unmatched tokens instead of failing.
func WithIgnoreErrors() Option {
	return func(cfg *translit.Config) { cfg.IgnoreErrors = true }
}

// WithoutAmbiguityCheck disables the build-time ambiguity check.
func WithoutAmbiguityCheck() Option {
	return func(cfg *translit.Config) { cfg.SkipAmbiguityCheck = true }
}

// FromYAML builds a transliterator from an easy-reading YAML document.
func FromYAML(data []byte, opts ...Option) (*translit.Transliterator, error) {
	raw, err := ParseYAML(data)
	if err != nil {
		return nil, err
	}
	return FromRaw(raw, opts...)
}

// FromYAMLFile builds a transliterator from an easy-reading YAML file.
func FromYAMLFile(path string, opts ...Option) (*translit.Transliterator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read settings file %q", path)
	}
	return FromYAML(data, opts...)
}

// ParseYAML unmarshals an easy-reading YAML document without validating it.
func ParseYAML(data []byte) (*Raw, error) {
	var raw Raw
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "failed to parse settings YAML")
	}
	return &raw, nil
}

// FromRaw validates an easy-reading document and builds a transliterator
// from it.
func FromRaw(raw *Raw, opts ...Option) (*translit.Transliterator, error) {
	cfg, err := ConfigFrom(raw)
	if err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return translit.New(cfg)
}

// ConfigFrom converts an easy-reading document into validated construction
// settings. Rule strings are parsed into their context parts, and every
// token and class reference is checked against the declared token set.
//
// Rules are ordered by their easy-reading key before cost sorting, so rule
// keys are deterministic for a given document regardless of map iteration
// order.
func ConfigFrom(raw *Raw) (translit.Config, error) {
	var cfg translit.Config
	if len(raw.Tokens) == 0 {
		return cfg, errors.New("settings declare no tokens")
	}
	if len(raw.Rules) == 0 {
		return cfg, errors.New("settings declare no rules")
	}

	keys := make([]string, 0, len(raw.Rules))
	for key := range raw.Rules {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	rules := make([]translit.RuleSpec, 0, len(keys))
	problems := newProblems()
	for _, key := range keys {
		spec, err := ParseRule(key)
		if err != nil {
			problems.add("rules", "%s", err)
			continue
		}
		spec.Production = raw.Rules[key]
		rules = append(rules, spec)
	}

	onmatch := make([]translit.OnMatchSpec, 0, len(raw.OnMatchRules))
	for i, entry := range raw.OnMatchRules {
		if len(entry) != 1 {
			problems.add("onmatch_rules", "entry %d must hold exactly one rule", i)
			continue
		}
		for key, production := range entry {
			spec, err := ParseOnMatchRule(key)
			if err != nil {
				problems.add("onmatch_rules", "%s", err)
				continue
			}
			spec.Production = production
			onmatch = append(onmatch, spec)
		}
	}
	if !problems.empty() {
		return cfg, problems.err()
	}

	cfg = translit.Config{
		Tokens:       raw.Tokens,
		Rules:        rules,
		OnMatchRules: onmatch,
		Whitespace: translit.Whitespace{
			Default:     raw.Whitespace.Default,
			TokenClass:  raw.Whitespace.TokenClass,
			Consolidate: raw.Whitespace.Consolidate,
		},
		Metadata: raw.Metadata,
	}
	if err := Validate(cfg); err != nil {
		return translit.Config{}, err
	}
	return cfg, nil
}
