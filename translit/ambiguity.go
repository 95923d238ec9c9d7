package translit

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// tokenSet is a set of concrete tokens a rule position could match.
type tokenSet map[string]struct{}

func (s tokenSet) intersect(other tokenSet) tokenSet {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	out := make(tokenSet)
	for token := range small {
		if _, ok := large[token]; ok {
			out[token] = struct{}{}
		}
	}
	return out
}

func (s tokenSet) subsetOf(other tokenSet) bool {
	for token := range s {
		if _, ok := other[token]; !ok {
			return false
		}
	}
	return true
}

func (s tokenSet) sorted() []string {
	tokens := make([]string, 0, len(s))
	for token := range s {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return tokens
}

func singleton(token string) tokenSet {
	return tokenSet{token: {}}
}

func setOf(tokens []string) tokenSet {
	s := make(tokenSet, len(tokens))
	for _, token := range tokens {
		s[token] = struct{}{}
	}
	return s
}

// CheckForAmbiguity verifies that no two rules of equal cost could match the
// same concrete token sequence, unless a rule of equal or lower cost covers
// the overlap (in which case that rule always wins and the overlap is moot).
//
// Rules are laid out as rows of per-position possibility sets over a common
// matrix width; same-cost pairs are intersected column by column, and any
// non-empty intersection without a covering cheaper rule is reported. Every
// conflict is logged before the check fails.
func (t *Transliterator) CheckForAmbiguity() error {
	rules := t.rules
	if len(rules) == 0 {
		return nil
	}

	allTokens := make(tokenSet, len(t.tokens))
	for token := range t.tokens {
		allTokens[token] = struct{}{}
	}

	globalMaxPrev, globalMaxCurrNext := 0, 0
	for _, rule := range rules {
		if n := rule.prevCount(); n > globalMaxPrev {
			globalMaxPrev = n
		}
		if n := rule.currAndNextCount(); n > globalMaxCurrNext {
			globalMaxCurrNext = n
		}
	}
	width := globalMaxPrev + globalMaxCurrNext

	// One row per rule: positions a rule does not constrain hold the
	// universal token set, left-padded so the matched tokens of every
	// rule line up at the same columns.
	matrix := make([][]tokenSet, len(rules))
	for i, rule := range rules {
		row := make([]tokenSet, 0, width)
		for k := rule.prevCount(); k < globalMaxPrev; k++ {
			row = append(row, allTokens)
		}
		row = append(row, t.possibleTokens(rule)...)
		for len(row) < width {
			row = append(row, allTokens)
		}
		matrix[i] = row
	}

	fullIntersection := func(i, j int) []tokenSet {
		intersections := make([]tokenSet, width)
		for k := 0; k < width; k++ {
			intersection := matrix[i][k].intersect(matrix[j][k])
			if len(intersection) == 0 {
				return nil
			}
			intersections[k] = intersection
		}
		return intersections
	}

	coveredBy := func(intersection []tokenSet, row []tokenSet) bool {
		for k := range intersection {
			if !intersection[k].subsetOf(row[k]) {
				return false
			}
		}
		return true
	}

	// A rule of equal or lower cost whose row covers the whole
	// intersection resolves the conflict: it outranks both rules of the
	// pair wherever they overlap.
	coveredByCheaper := func(intersection []tokenSet, i, j int) bool {
		for r := range rules {
			if r == i || r == j {
				continue
			}
			if rules[r].Cost > rules[i].Cost {
				continue
			}
			if coveredBy(intersection, matrix[r]) {
				return true
			}
		}
		return false
	}

	// Rules are cost sorted, so equal-total-count groups are contiguous.
	ambiguous := false
	for start := 0; start < len(rules); {
		end := start + 1
		for end < len(rules) && rules[end].constraintCount() == rules[start].constraintCount() {
			end++
		}
		for i := start; i < end-1; i++ {
			for j := i + 1; j < end; j++ {
				intersection := fullIntersection(i, j)
				if intersection == nil {
					continue
				}
				if coveredByCheaper(intersection, i, j) {
					continue
				}
				klog.Warningf("the pattern %s can be matched by both:\n  %s\n  %s",
					formatIntersection(intersection), rules[i], rules[j])
				ambiguous = true
			}
		}
		start = end
	}
	if ambiguous {
		return errors.WithStack(ErrAmbiguousRules)
	}
	return nil
}

// possibleTokens lays out the sets of concrete tokens a rule could match at
// each constrained position: class constraints expand to their member
// tokens, literal tokens become singletons.
func (t *Transliterator) possibleTokens(rule TransliterationRule) []tokenSet {
	row := make([]tokenSet, 0, rule.constraintCount())
	for _, class := range rule.PrevClasses {
		row = append(row, setOf(t.tokensByClass[class]))
	}
	for _, token := range rule.PrevTokens {
		row = append(row, singleton(token))
	}
	for _, token := range rule.Tokens {
		row = append(row, singleton(token))
	}
	for _, token := range rule.NextTokens {
		row = append(row, singleton(token))
	}
	for _, class := range rule.NextClasses {
		row = append(row, setOf(t.tokensByClass[class]))
	}
	return row
}

func formatIntersection(intersection []tokenSet) string {
	columns := make([]string, len(intersection))
	for i, s := range intersection {
		columns[i] = "{" + strings.Join(s.sorted(), " ") + "}"
	}
	return "[" + strings.Join(columns, ", ") + "]"
}
