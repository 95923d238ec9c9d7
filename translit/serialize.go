package translit

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// serialized is the persisted form of a Transliterator: the full derived
// state, so loading never recompiles the graph or re-runs the ambiguity
// check.
type serialized struct {
	Tokens           map[string][]string         `json:"tokens"`
	Rules            []TransliterationRule       `json:"rules"`
	Whitespace       Whitespace                  `json:"whitespace"`
	OnMatchRules     []OnMatchRule               `json:"onmatch_rules,omitempty"`
	OnMatchLookup    map[string]map[string][]int `json:"onmatch_rules_lookup,omitempty"`
	TokensByClass    map[string][]string         `json:"tokens_by_class"`
	Graph            *DirectedGraph              `json:"graph"`
	TokenizerPattern string                      `json:"tokenizer_pattern"`
	Metadata         map[string]any              `json:"metadata,omitempty"`
	IgnoreErrors     bool                        `json:"ignore_errors"`
	Version          string                      `json:"graphtransliterator_version"`
}

// Dump serializes the full derived state of the instance as JSON. A
// transliterator loaded from the dump transliterates identically to the
// original.
func (t *Transliterator) Dump() ([]byte, error) {
	data, err := json.Marshal(serialized{
		Tokens:           t.tokens,
		Rules:            t.rules,
		Whitespace:       t.whitespace,
		OnMatchRules:     t.onmatchRules,
		OnMatchLookup:    t.onmatchLookup,
		TokensByClass:    t.tokensByClass,
		Graph:            t.graph,
		TokenizerPattern: t.pattern,
		Metadata:         t.metadata,
		IgnoreErrors:     t.ignoreErrors,
		Version:          t.version,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to serialize transliterator")
	}
	return data, nil
}

// Load reconstructs a Transliterator from a Dump. The serialized graph and
// lookups are reused as is; the ambiguity check is not re-run.
func Load(data []byte) (*Transliterator, error) {
	var s serialized
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, "failed to parse serialized transliterator")
	}
	if s.Graph == nil || len(s.Graph.Nodes) == 0 {
		return nil, errors.New("serialized transliterator has no matching graph")
	}
	tokenizer, err := compileTokenizer(s.TokenizerPattern)
	if err != nil {
		return nil, err
	}
	return &Transliterator{
		tokens:         s.Tokens,
		tokenClasses:   tokenClassesOf(s.Tokens),
		tokensByClass:  s.TokensByClass,
		rules:          s.Rules,
		whitespace:     s.Whitespace,
		onmatchRules:   s.OnMatchRules,
		onmatchLookup:  s.OnMatchLookup,
		metadata:       s.Metadata,
		graph:          s.Graph,
		pattern:        s.TokenizerPattern,
		tokenizer:      tokenizer,
		ignoreErrors:   s.IgnoreErrors,
		checkAmbiguity: false,
		version:        s.Version,
	}, nil
}
