package settings

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/translitkit/go-translit/translit"
)

// Easy-reading rule strings put the matched tokens in the middle and the
// context around them:
//
//	tokens                  plain token sequence
//	<class> tokens          preceding class constraints
//	(<class> tok) tokens    preceding classes, then preceding tokens
//	tokens (tok <class>)    following tokens, then following classes
//	tokens <class>          following class constraints
//
// On-match rule strings are two class sequences joined by "+":
//
//	<class_a> <class_b> + <class_c>

type itemKind int

const (
	itemLParen itemKind = iota
	itemRParen
	itemClass
	itemToken
)

type item struct {
	kind itemKind
	text string
}

// lexRuleKey splits a rule string into parentheses, <class> references and
// plain tokens. Whitespace separates items.
func lexRuleKey(s string) ([]item, error) {
	var items []item
	i := 0
	for i < len(s) {
		switch c := s[i]; {
		case c == ' ' || c == '\t':
			i++
		case c == '(':
			items = append(items, item{itemLParen, "("})
			i++
		case c == ')':
			items = append(items, item{itemRParen, ")"})
			i++
		case c == '<':
			end := strings.IndexByte(s[i:], '>')
			if end < 0 {
				return nil, errors.Errorf("unterminated class reference in %q", s)
			}
			name := s[i+1 : i+end]
			if name == "" {
				return nil, errors.Errorf("empty class reference in %q", s)
			}
			items = append(items, item{itemClass, name})
			i += end + 1
		default:
			end := i
			for end < len(s) && !strings.ContainsRune(" \t()<>", rune(s[end])) {
				end++
			}
			items = append(items, item{itemToken, s[i:end]})
			i = end
		}
	}
	return items, nil
}

// ParseRule parses an easy-reading rule string into its context parts. The
// production is left empty for the caller to fill.
func ParseRule(key string) (translit.RuleSpec, error) {
	var spec translit.RuleSpec

	// A rule for a whitespace token is written as the bare token; it has
	// no visible context syntax.
	if key != "" && strings.TrimSpace(key) == "" {
		spec.Tokens = []string{key}
		return spec, nil
	}

	items, err := lexRuleKey(key)
	if err != nil {
		return spec, err
	}
	i := 0

	// Preceding context: a parenthesized group of classes then tokens,
	// or bare classes.
	if i < len(items) && items[i].kind == itemLParen {
		i++
		for i < len(items) && items[i].kind == itemClass {
			spec.PrevClasses = append(spec.PrevClasses, items[i].text)
			i++
		}
		for i < len(items) && items[i].kind == itemToken {
			spec.PrevTokens = append(spec.PrevTokens, items[i].text)
			i++
		}
		if i >= len(items) || items[i].kind != itemRParen {
			return spec, errors.Errorf("unclosed preceding context in rule %q", key)
		}
		i++
	}
	for i < len(items) && items[i].kind == itemClass {
		spec.PrevClasses = append(spec.PrevClasses, items[i].text)
		i++
	}

	for i < len(items) && items[i].kind == itemToken {
		spec.Tokens = append(spec.Tokens, items[i].text)
		i++
	}
	if len(spec.Tokens) == 0 {
		return spec, errors.Errorf("rule %q matches no tokens", key)
	}

	// Following context: a parenthesized group of tokens then classes,
	// or bare classes.
	if i < len(items) && items[i].kind == itemLParen {
		i++
		for i < len(items) && items[i].kind == itemToken {
			spec.NextTokens = append(spec.NextTokens, items[i].text)
			i++
		}
		for i < len(items) && items[i].kind == itemClass {
			spec.NextClasses = append(spec.NextClasses, items[i].text)
			i++
		}
		if i >= len(items) || items[i].kind != itemRParen {
			return spec, errors.Errorf("unclosed following context in rule %q", key)
		}
		i++
	} else {
		for i < len(items) && items[i].kind == itemClass {
			spec.NextClasses = append(spec.NextClasses, items[i].text)
			i++
		}
	}
	if i != len(items) {
		return spec, errors.Errorf("unexpected %q in rule %q", items[i].text, key)
	}
	return spec, nil
}

// ParseOnMatchRule parses an easy-reading on-match string. Both class
// sequences must be non-empty.
func ParseOnMatchRule(key string) (translit.OnMatchSpec, error) {
	var spec translit.OnMatchSpec
	items, err := lexRuleKey(key)
	if err != nil {
		return spec, err
	}
	i := 0
	for i < len(items) && items[i].kind == itemClass {
		spec.PrevClasses = append(spec.PrevClasses, items[i].text)
		i++
	}
	if i >= len(items) || items[i].kind != itemToken || items[i].text != "+" {
		return spec, errors.Errorf("on-match rule %q must join two class sequences with \"+\"", key)
	}
	i++
	for i < len(items) && items[i].kind == itemClass {
		spec.NextClasses = append(spec.NextClasses, items[i].text)
		i++
	}
	if i != len(items) {
		return spec, errors.Errorf("unexpected %q in on-match rule %q", items[i].text, key)
	}
	if len(spec.PrevClasses) == 0 || len(spec.NextClasses) == 0 {
		return spec, errors.Errorf("on-match rule %q needs classes on both sides of \"+\"", key)
	}
	return spec, nil
}
