package translit

import (
	"strings"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Transliterate converts input into its transliterated form. The input is
// tokenized, then scanned left to right: at every position the best matching
// rule's production is appended to the output, preceded by the production of
// the first satisfied on-match rule for the boundary, if any.
//
// A position no rule matches at fails with ErrNoMatchingRule unless the
// instance ignores errors, in which case the token is skipped and its output
// omitted. The rules applied are recorded for introspection, overwriting
// the record of the previous call.
func (t *Transliterator) Transliterate(input string) (string, error) {
	tokens, err := t.Tokenize(input)
	if err != nil {
		return "", err
	}
	t.lastInputTokens = tokens
	t.lastRuleKeys = nil

	var out strings.Builder
	pos := 1 // skip the initial sentinel
	for pos < len(tokens)-1 {
		key, ok := t.MatchAt(pos, tokens)
		if !ok {
			klog.Warningf("no matching transliteration rule at token position %d of %q", pos, tokens)
			if t.ignoreErrors {
				pos++
				continue
			}
			return "", errors.Wrapf(ErrNoMatchingRule, "at token position %d", pos)
		}
		t.lastRuleKeys = append(t.lastRuleKeys, key)
		rule := t.rules[key]
		if production, ok := t.onMatchProductionAt(pos, tokens); ok {
			out.WriteString(production)
		}
		out.WriteString(rule.Production)
		pos += len(rule.Tokens)
	}
	return out.String(), nil
}

// onMatchProductionAt finds the production to insert before the match
// starting at pos, if any. Candidates come from the lookup keyed by the
// boundary tokens; each candidate's full class windows are then checked
// against the stream, and the first satisfied candidate wins.
func (t *Transliterator) onMatchProductionAt(pos int, tokens []string) (string, bool) {
	if t.onmatchLookup == nil {
		return "", false
	}
	byPrev := t.onmatchLookup[tokens[pos]]
	if byPrev == nil {
		return "", false
	}
	for _, i := range byPrev[tokens[pos-1]] {
		rule := t.onmatchRules[i]
		if t.matchTokenWindow(pos-len(rule.PrevClasses), rule.PrevClasses, tokens, true, false, true) &&
			t.matchTokenWindow(pos, rule.NextClasses, tokens, false, true, true) {
			return rule.Production, true
		}
	}
	return "", false
}
