package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testYAML = []byte(`
tokens:
  a: [class_a]
  b: [class_b]
  c: [class_c]
  " ": [wb]
  Aa: [constrained_rule]
rules:
  a: A
  b: B
  <class_c> a: A(AFTER_CLASS_C)
  (<class_c> b) a: A(AFTER_B_AND_CLASS_C)
  (<class_c> b b) a: A(AFTER_BB_AND_CLASS_C)
  a <class_c>: A(BEFORE_CLASS_C)
  a (c <class_b>): A(BEFORE_C_AND_CLASS_B)
  c: C
  c c: C*2
  a (b b): A(BEFORE_B_B)
  (b b) a: A(AFTER_B_B)
  <wb> Aa: A(ONLY_A_CONSTRAINED_RULE)
onmatch_rules:
  - <class_a> <class_b> + <class_a> <class_b>: "!"
  - <class_a> + <class_b>: ","
whitespace:
  default: ' '
  token_class: wb
  consolidate: true
`)

func TestFromYAML(t *testing.T) {
	// Several of these rules overlap at equal cost on purpose, so the
	// ambiguity check stays off.
	tr, err := FromYAML(testYAML, WithoutAmbiguityCheck())
	require.NoError(t, err)

	tests := []struct {
		input string
		want  string
	}{
		{"a", "A"},
		{"aa", "AA"},
		{"cc", "C*2"},
		{"ca", "CA(AFTER_CLASS_C)"},
		{"cba", "CBA(AFTER_B_AND_CLASS_C)"},
		{"cbba", "CBBA(AFTER_BB_AND_CLASS_C)"},
		{"ac", "A(BEFORE_CLASS_C)C"},
		{"acb", "A(BEFORE_C_AND_CLASS_B)CB"},
		{"ab", "A,B"},
		{"abab", "A,B!A,B"},
		{"Aa", "A(ONLY_A_CONSTRAINED_RULE)"},
		{" a ", "A"},
	}
	for _, test := range tests {
		got, err := tr.Transliterate(test.input)
		require.NoError(t, err, "input %q", test.input)
		assert.Equal(t, test.want, got, "input %q", test.input)
	}
}

func TestFromYAMLAmbiguityCheckOnByDefault(t *testing.T) {
	_, err := FromYAML([]byte(`
tokens:
  a: [class_1, class_2]
  " ": [wb]
rules:
  <class_1> a: A1
  <class_2> a: A2
whitespace:
  default: ' '
  token_class: wb
  consolidate: true
`))
	require.Error(t, err)

	_, err = FromYAML([]byte(`
tokens:
  a: [class_1]
  " ": [wb]
rules:
  a: A
whitespace:
  default: ' '
  token_class: wb
  consolidate: true
`))
	require.NoError(t, err)
}

func TestFromYAMLWithIgnoreErrors(t *testing.T) {
	tr, err := FromYAML(testYAML, WithoutAmbiguityCheck(), WithIgnoreErrors())
	require.NoError(t, err)
	require.True(t, tr.IgnoreErrors())

	got, err := tr.Transliterate("a?b")
	require.NoError(t, err)
	assert.Equal(t, "A,B", got)
}

func TestFromYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, testYAML, 0644))

	tr, err := FromYAMLFile(path, WithoutAmbiguityCheck())
	require.NoError(t, err)
	got, err := tr.Transliterate("ab")
	require.NoError(t, err)
	assert.Equal(t, "A,B", got)

	_, err = FromYAMLFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestParseYAMLMalformed(t *testing.T) {
	_, err := ParseYAML([]byte("tokens: ["))
	require.Error(t, err)
}

func TestConfigFromMissingSections(t *testing.T) {
	_, err := ConfigFrom(&Raw{})
	require.Error(t, err)

	_, err = ConfigFrom(&Raw{Tokens: map[string][]string{"a": {"c"}}})
	require.Error(t, err)
}

func TestConfigFromDeterministicRuleOrder(t *testing.T) {
	raw, err := ParseYAML(testYAML)
	require.NoError(t, err)

	first, err := ConfigFrom(raw)
	require.NoError(t, err)
	second, err := ConfigFrom(raw)
	require.NoError(t, err)

	// Rule specs come out in a fixed order regardless of map iteration.
	require.Equal(t, len(first.Rules), len(second.Rules))
	for i := range first.Rules {
		assert.Equal(t, first.Rules[i], second.Rules[i])
	}
}

func TestConfigFromMetadata(t *testing.T) {
	tr, err := FromYAML([]byte(`
tokens:
  a: [class_1]
  " ": [wb]
rules:
  a: A
whitespace:
  default: ' '
  token_class: wb
  consolidate: true
metadata:
  title: test settings
  version: 0.0.1
`))
	require.NoError(t, err)
	assert.Equal(t, "test settings", tr.Metadata()["title"])
}
