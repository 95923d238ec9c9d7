package translit

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// tokenizerPatternFrom builds the alternation pattern matching any declared
// token. Longer tokens come first so no token that is a strict prefix of
// another can shadow it; ties are broken lexicographically for determinism.
func tokenizerPatternFrom(tokens []string) string {
	ordered := make([]string, len(tokens))
	copy(ordered, tokens)
	sort.SliceStable(ordered, func(i, j int) bool {
		if len(ordered[i]) != len(ordered[j]) {
			return len(ordered[i]) > len(ordered[j])
		}
		return ordered[i] < ordered[j]
	})
	escaped := make([]string, len(ordered))
	for i, token := range ordered {
		escaped[i] = regexp.QuoteMeta(token)
	}
	return "(" + strings.Join(escaped, "|") + ")"
}

// Tokenize splits input into declared tokens, adding the default whitespace
// token as a sentinel at both ends. With consolidation enabled, runs of
// whitespace-class tokens collapse to one and leading and trailing
// whitespace is dropped.
//
// Input that matches no declared token fails with ErrUnrecognizableToken
// unless the instance ignores errors, in which case the offending rune is
// skipped.
func (t *Transliterator) Tokenize(input string) ([]string, error) {
	isWhitespace := func(token string) bool {
		return t.hasClass(token, t.whitespace.TokenClass)
	}

	tokens := []string{t.whitespace.Default}
	prevWhitespace := true

	pos := 0
	for pos < len(input) {
		match := t.tokenizer.FindString(input[pos:])
		if match == "" {
			klog.Warningf("unrecognizable token %q at position %d of %q", input[pos], pos, input)
			if !t.ignoreErrors {
				return nil, errors.Wrapf(ErrUnrecognizableToken, "at position %d of %q", pos, input)
			}
			_, size := utf8.DecodeRuneInString(input[pos:])
			pos += size
			continue
		}
		pos += len(match)
		if isWhitespace(match) {
			if prevWhitespace && t.whitespace.Consolidate {
				continue
			}
			prevWhitespace = true
		} else {
			prevWhitespace = false
		}
		tokens = append(tokens, match)
	}

	if t.whitespace.Consolidate {
		for len(tokens) > 1 && isWhitespace(tokens[len(tokens)-1]) {
			tokens = tokens[:len(tokens)-1]
		}
	}
	tokens = append(tokens, t.whitespace.Default)
	return tokens, nil
}
