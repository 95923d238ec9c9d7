package translit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkg/errors"
)

func newTestTransliterator(t *testing.T, cfg Config) *Transliterator {
	t.Helper()
	tr, err := New(cfg)
	require.NoError(t, err)
	return tr
}

func tokenizeConfig() Config {
	return Config{
		Tokens: map[string][]string{
			"a":  {"class_a"},
			"aa": {"class_a"},
			"b":  {"class_b"},
			" ":  {"wb"},
		},
		Rules: []RuleSpec{
			{Production: "A", Tokens: []string{"a"}},
			{Production: "AA", Tokens: []string{"aa"}},
			{Production: "B", Tokens: []string{"b"}},
			{Production: " ", Tokens: []string{" "}},
		},
		Whitespace: Whitespace{Default: " ", TokenClass: "wb", Consolidate: true},
	}
}

func TestTokenizeSentinels(t *testing.T) {
	tr := newTestTransliterator(t, tokenizeConfig())

	tokens, err := tr.Tokenize("ab")
	require.NoError(t, err)
	assert.Equal(t, []string{" ", "a", "b", " "}, tokens)

	tokens, err = tr.Tokenize("")
	require.NoError(t, err)
	assert.Equal(t, []string{" ", " "}, tokens)
}

func TestTokenizeLongestTokenFirst(t *testing.T) {
	tr := newTestTransliterator(t, tokenizeConfig())

	// "aa" is declared and outranks two single "a" tokens.
	tokens, err := tr.Tokenize("aab")
	require.NoError(t, err)
	assert.Equal(t, []string{" ", "aa", "b", " "}, tokens)
}

func TestTokenizeConsolidatesWhitespace(t *testing.T) {
	tr := newTestTransliterator(t, tokenizeConfig())

	tokens, err := tr.Tokenize("  a   b  ")
	require.NoError(t, err)
	assert.Equal(t, []string{" ", "a", " ", "b", " "}, tokens)

	// Interior runs collapse to the sequence a single space produces.
	single, err := tr.Tokenize("a b")
	require.NoError(t, err)
	double, err := tr.Tokenize("a  b")
	require.NoError(t, err)
	assert.Equal(t, single, double)
}

func TestTokenizeWithoutConsolidation(t *testing.T) {
	cfg := tokenizeConfig()
	cfg.Whitespace.Consolidate = false
	tr := newTestTransliterator(t, cfg)

	tokens, err := tr.Tokenize(" a ")
	require.NoError(t, err)
	assert.Equal(t, []string{" ", " ", "a", " ", " "}, tokens)
}

func TestTokenizeUnrecognizableInput(t *testing.T) {
	tr := newTestTransliterator(t, tokenizeConfig())

	_, err := tr.Tokenize("a!b")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnrecognizableToken))

	// With errors ignored the offending rune is skipped.
	tr.SetIgnoreErrors(true)
	tokens, err := tr.Tokenize("a!b")
	require.NoError(t, err)
	assert.Equal(t, []string{" ", "a", "b", " "}, tokens)
}

func TestTokenizerPatternFrom(t *testing.T) {
	pattern := tokenizerPatternFrom([]string{"b", "aa", "a", "+"})
	// Longest first, ties lexicographic, metacharacters quoted.
	assert.Equal(t, `(aa|\+|a|b)`, pattern)
}
