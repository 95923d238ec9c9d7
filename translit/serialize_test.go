package translit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpLoadRoundTrip(t *testing.T) {
	cfg := contextConfig()
	cfg.Metadata = map[string]any{"title": "test settings", "version": "0.0.1"}
	tr := newTestTransliterator(t, cfg)

	data, err := tr.Dump()
	require.NoError(t, err)

	loaded, err := Load(data)
	require.NoError(t, err)

	// The loaded instance behaves identically.
	inputs := []string{"a", "cc", "cbba", "acb", "ab", "abab", "Aa"}
	for _, input := range inputs {
		want, err := tr.Transliterate(input)
		require.NoError(t, err)
		got, err := loaded.Transliterate(input)
		require.NoError(t, err)
		assert.Equal(t, want, got, "input %q", input)
	}

	assert.Equal(t, tr.Productions(), loaded.Productions())
	assert.Equal(t, tr.TokenizerPattern(), loaded.TokenizerPattern())
	assert.Equal(t, tr.Whitespace(), loaded.Whitespace())
	assert.Equal(t, "test settings", loaded.Metadata()["title"])
	assert.Equal(t, Version, loaded.EngineVersion())
}

func TestDumpFields(t *testing.T) {
	tr := newTestTransliterator(t, Config{
		Tokens: map[string][]string{
			"a": {"class_1"},
			"b": {"class_1"},
			" ": {"wb"},
		},
		Rules: []RuleSpec{
			{Production: "B2", Tokens: []string{"a", "a"}},
			{Production: "B", Tokens: []string{"b"}},
		},
		Whitespace: Whitespace{Default: " ", TokenClass: "wb", Consolidate: true},
	})

	data, err := tr.Dump()
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &decoded))
	for _, field := range []string{
		"tokens", "rules", "whitespace", "tokens_by_class",
		"graph", "tokenizer_pattern", "graphtransliterator_version",
	} {
		assert.Contains(t, decoded, field)
	}

	var rules []TransliterationRule
	require.NoError(t, json.Unmarshal(decoded["rules"], &rules))
	require.Len(t, rules, 2)
	// Rules serialize in cost order with their derived costs.
	assert.Equal(t, "B2", rules[0].Production)
	assert.Equal(t, 0.41503749927884376, rules[0].Cost)
	assert.Equal(t, 0.5849625007211562, rules[1].Cost)
}

func TestLoadRejectsMissingGraph(t *testing.T) {
	_, err := Load([]byte(`{"tokens": {"a": ["class_1"]}}`))
	require.Error(t, err)
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	_, err := Load([]byte("{not json"))
	require.Error(t, err)
}
