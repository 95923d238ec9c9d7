package settings

import (
	"fmt"
	"sort"
	"strings"

	"github.com/translitkit/go-translit/translit"
)

// ValidationError aggregates validation failures by settings section
// ("tokens", "rules", "onmatch_rules", "whitespace").
type ValidationError struct {
	Problems map[string][]string
}

func (e *ValidationError) Error() string {
	sections := make([]string, 0, len(e.Problems))
	for section := range e.Problems {
		sections = append(sections, section)
	}
	sort.Strings(sections)
	var b strings.Builder
	b.WriteString("invalid settings:")
	for _, section := range sections {
		for _, problem := range e.Problems[section] {
			b.WriteString("\n  " + section + ": " + problem)
		}
	}
	return b.String()
}

type problems struct {
	bySection map[string][]string
}

func newProblems() *problems {
	return &problems{bySection: make(map[string][]string)}
}

func (p *problems) add(section, format string, args ...any) {
	p.bySection[section] = append(p.bySection[section], fmt.Sprintf(format, args...))
}

func (p *problems) empty() bool { return len(p.bySection) == 0 }

func (p *problems) err() error {
	if p.empty() {
		return nil
	}
	return &ValidationError{Problems: p.bySection}
}

// Validate checks construction settings for cross-referencing problems:
// every token a rule or the whitespace policy mentions must be declared, and
// every class mentioned must be attached to at least one token. All problems
// are collected; the returned error is a *ValidationError when any exist.
func Validate(cfg translit.Config) error {
	p := newProblems()

	classes := make(map[string]bool)
	for token, tokenClasses := range cfg.Tokens {
		if token == "" {
			p.add("tokens", "empty token declared")
		}
		if token == translit.ReservedRulesKey {
			p.add("tokens", "token %q is reserved", token)
		}
		for _, class := range tokenClasses {
			classes[class] = true
		}
	}

	checkTokens := func(section string, owner fmt.Stringer, field string, tokens []string) {
		for _, token := range tokens {
			if _, ok := cfg.Tokens[token]; !ok {
				p.add(section, "invalid token %q in %s of %s", token, field, owner)
			}
		}
	}
	checkClasses := func(section string, owner fmt.Stringer, field string, refs []string) {
		for _, class := range refs {
			if !classes[class] {
				p.add(section, "invalid token class %q in %s of %s", class, field, owner)
			}
		}
	}

	for _, spec := range cfg.Rules {
		rule := ruleName(spec)
		checkClasses("rules", rule, "prev_classes", spec.PrevClasses)
		checkTokens("rules", rule, "prev_tokens", spec.PrevTokens)
		checkTokens("rules", rule, "tokens", spec.Tokens)
		checkTokens("rules", rule, "next_tokens", spec.NextTokens)
		checkClasses("rules", rule, "next_classes", spec.NextClasses)
		if len(spec.Tokens) == 0 {
			p.add("rules", "rule with production %q matches no tokens", spec.Production)
		}
	}

	for _, spec := range cfg.OnMatchRules {
		rule := onMatchName(spec)
		checkClasses("onmatch_rules", rule, "prev_classes", spec.PrevClasses)
		checkClasses("onmatch_rules", rule, "next_classes", spec.NextClasses)
	}

	if _, ok := cfg.Tokens[cfg.Whitespace.Default]; !ok {
		p.add("whitespace", "invalid default token %q", cfg.Whitespace.Default)
	}
	if !classes[cfg.Whitespace.TokenClass] {
		p.add("whitespace", "invalid token class %q", cfg.Whitespace.TokenClass)
	}

	return p.err()
}

// ruleName renders a rule spec in the easy-reading format for error
// messages.
type ruleName translit.RuleSpec

func (r ruleName) String() string {
	rule := translit.RuleSpec(r)
	var parts []string
	if len(rule.PrevClasses) > 0 || len(rule.PrevTokens) > 0 {
		parts = append(parts, "("+strings.Join(classRefs(rule.PrevClasses), " ")+" "+strings.Join(rule.PrevTokens, " ")+")")
	}
	parts = append(parts, strings.Join(rule.Tokens, " "))
	if len(rule.NextTokens) > 0 || len(rule.NextClasses) > 0 {
		parts = append(parts, "("+strings.Join(rule.NextTokens, " ")+" "+strings.Join(classRefs(rule.NextClasses), " ")+")")
	}
	return strings.Join(parts, " ")
}

type onMatchName translit.OnMatchSpec

func (r onMatchName) String() string {
	return strings.Join(classRefs(r.PrevClasses), " ") + " + " + strings.Join(classRefs(r.NextClasses), " ")
}

func classRefs(classes []string) []string {
	refs := make([]string, len(classes))
	for i, class := range classes {
		refs[i] = "<" + class + ">"
	}
	return refs
}
