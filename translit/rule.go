package translit

import (
	"math"
	"strings"
)

// TransliterationRule is an immutable transliteration rule. Tokens is the
// sequence the rule consumes; the Prev/Next fields constrain the context
// around the match without being consumed. Cost is derived from the total
// constraint count: more context means a lower cost and a higher priority.
type TransliterationRule struct {
	Production  string   `json:"production"`
	PrevClasses []string `json:"prev_classes,omitempty"`
	PrevTokens  []string `json:"prev_tokens,omitempty"`
	Tokens      []string `json:"tokens"`
	NextTokens  []string `json:"next_tokens,omitempty"`
	NextClasses []string `json:"next_classes,omitempty"`
	Cost        float64  `json:"cost"`
}

// OnMatchRule inserts Production between two adjacent rule productions when
// the token classes around the match boundary line up.
type OnMatchRule struct {
	PrevClasses []string `json:"prev_classes"`
	NextClasses []string `json:"next_classes"`
	Production  string   `json:"production"`
}

// Whitespace configures whitespace handling during tokenization. Default is
// the sentinel token implicitly added to both ends of every input.
type Whitespace struct {
	Default     string `json:"default"`
	TokenClass  string `json:"token_class"`
	Consolidate bool   `json:"consolidate"`
}

// ruleCost derives the cost of a rule from its total constraint count.
// The cost is strictly decreasing in the count, so rules with more context
// sort first.
func ruleCost(constraintCount int) float64 {
	return math.Log2(1 + 1/float64(1+constraintCount))
}

func newTransliterationRule(spec RuleSpec) TransliterationRule {
	rule := TransliterationRule{
		Production:  spec.Production,
		PrevClasses: spec.PrevClasses,
		PrevTokens:  spec.PrevTokens,
		Tokens:      spec.Tokens,
		NextTokens:  spec.NextTokens,
		NextClasses: spec.NextClasses,
	}
	rule.Cost = ruleCost(rule.constraintCount())
	return rule
}

// constraintCount is the total number of tokens and classes the rule
// mentions, across context constraints and the matched sequence itself.
func (r TransliterationRule) constraintCount() int {
	return len(r.PrevClasses) + len(r.PrevTokens) + len(r.Tokens) +
		len(r.NextTokens) + len(r.NextClasses)
}

// prevCount is the number of positions the rule constrains before the match.
func (r TransliterationRule) prevCount() int {
	return len(r.PrevClasses) + len(r.PrevTokens)
}

// currAndNextCount is the number of positions the rule constrains from the
// match start onward.
func (r TransliterationRule) currAndNextCount() int {
	return len(r.Tokens) + len(r.NextTokens) + len(r.NextClasses)
}

func (r TransliterationRule) spec() RuleSpec {
	return RuleSpec{
		Production:  r.Production,
		PrevClasses: r.PrevClasses,
		PrevTokens:  r.PrevTokens,
		Tokens:      r.Tokens,
		NextTokens:  r.NextTokens,
		NextClasses: r.NextClasses,
	}
}

// String renders the rule in the easy-reading format, e.g.
// "(<class_c> b b) a (c <class_b>)".
func (r TransliterationRule) String() string {
	var b strings.Builder
	switch {
	case len(r.PrevClasses) > 0 && len(r.PrevTokens) > 0:
		b.WriteString("(" + classString(r.PrevClasses) + " " + tokenString(r.PrevTokens) + ") ")
	case len(r.PrevClasses) > 0:
		b.WriteString(classString(r.PrevClasses) + " ")
	case len(r.PrevTokens) > 0:
		b.WriteString("(" + tokenString(r.PrevTokens) + ") ")
	}
	b.WriteString(tokenString(r.Tokens))
	switch {
	case len(r.NextTokens) > 0 && len(r.NextClasses) > 0:
		b.WriteString(" (" + tokenString(r.NextTokens) + " " + classString(r.NextClasses) + ")")
	case len(r.NextTokens) > 0:
		b.WriteString(" (" + tokenString(r.NextTokens) + ")")
	case len(r.NextClasses) > 0:
		b.WriteString(" " + classString(r.NextClasses))
	}
	return b.String()
}

func tokenString(tokens []string) string {
	return strings.Join(tokens, " ")
}

func classString(classes []string) string {
	parts := make([]string, len(classes))
	for i, class := range classes {
		parts[i] = "<" + class + ">"
	}
	return strings.Join(parts, " ")
}
