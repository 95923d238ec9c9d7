package translit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkg/errors"
)

func TestCheckForAmbiguityDetectsOverlap(t *testing.T) {
	cfg := Config{
		Tokens: map[string][]string{
			"a": {"class_1", "class_2"},
			" ": {"wb"},
		},
		Rules: []RuleSpec{
			// Both match "a" after any token of class_1 and class_2 at
			// once, at equal cost.
			{Production: "A1", PrevClasses: []string{"class_1"}, Tokens: []string{"a"}},
			{Production: "A2", PrevClasses: []string{"class_2"}, Tokens: []string{"a"}},
		},
		Whitespace: Whitespace{Default: " ", TokenClass: "wb", Consolidate: true},
	}

	_, err := New(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAmbiguousRules))

	// The check can be disabled for settings known to be unambiguous in
	// practice.
	cfg.SkipAmbiguityCheck = true
	tr, err := New(cfg)
	require.NoError(t, err)
	require.NotNil(t, tr)
}

func TestCheckForAmbiguityDisjointRules(t *testing.T) {
	_, err := New(Config{
		Tokens: map[string][]string{
			"a": {"class_a"},
			"b": {"class_b"},
			" ": {"wb"},
		},
		Rules: []RuleSpec{
			{Production: "A", PrevClasses: []string{"class_a"}, Tokens: []string{"a"}},
			{Production: "B", PrevClasses: []string{"class_b"}, Tokens: []string{"a"}},
		},
		Whitespace: Whitespace{Default: " ", TokenClass: "wb", Consolidate: true},
	})
	// The previous-context classes have no common member.
	require.NoError(t, err)
}

func TestCheckForAmbiguityCoveredByCheaperRule(t *testing.T) {
	_, err := New(Config{
		Tokens: map[string][]string{
			"a": {"class_1", "class_2", "token"},
			"b": {"token"},
			" ": {"token", "wb"},
		},
		Rules: []RuleSpec{
			{Production: "A1", PrevClasses: []string{"class_1"}, Tokens: []string{"a"}},
			{Production: "A2", PrevClasses: []string{"class_2"}, Tokens: []string{"a"}},
			// Cheaper and matching "a" in every context the pair above
			// overlaps in, so the overlap is moot.
			{
				Production:  "A3",
				PrevClasses: []string{"token"},
				Tokens:      []string{"a"},
				NextClasses: []string{"token"},
			},
		},
		Whitespace: Whitespace{Default: " ", TokenClass: "wb", Consolidate: true},
	})
	require.NoError(t, err)
}

func TestCheckForAmbiguityMutualEqualCostCover(t *testing.T) {
	// Three equal-cost rules whose pairwise overlaps are each covered by
	// the third rule resolve one another.
	_, err := New(Config{
		Tokens: map[string][]string{
			"a": {"class_1", "class_2", "token"},
			"b": {"token"},
			" ": {"wb", "token"},
		},
		Rules: []RuleSpec{
			{Production: "A1", PrevClasses: []string{"class_1"}, Tokens: []string{"a"}},
			{Production: "A2", PrevClasses: []string{"class_2"}, Tokens: []string{"a"}},
			{Production: "A3", PrevClasses: []string{"token"}, Tokens: []string{"a"}},
		},
		Whitespace: Whitespace{Default: " ", TokenClass: "wb", Consolidate: true},
	})
	require.NoError(t, err)
}

func TestTokenSetOperations(t *testing.T) {
	s := setOf([]string{"b", "a", "c"})
	assert.Equal(t, []string{"a", "b", "c"}, s.sorted())

	assert.Equal(t, []string{"b"}, s.intersect(singleton("b")).sorted())
	assert.Empty(t, s.intersect(singleton("z")))

	assert.True(t, setOf([]string{"a", "b"}).subsetOf(s))
	assert.False(t, s.subsetOf(setOf([]string{"a", "b"})))
}
