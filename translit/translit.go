// Package translit implements a graph-based transliteration engine: it
// converts the symbols of one language or script to those of another using
// user-defined, context-sensitive rewrite rules.
//
// A rule matches a sequence of tokens, optionally constrained by tokens or
// token classes immediately before and after it, and emits a production
// string. Rules are compiled once into a trie-shaped matching graph ordered
// by specificity, so the most specific rule always wins. An auxiliary set of
// "on match" rules may insert extra text between two adjacent productions
// based on the classes of the tokens at the match boundary.
//
// Construction settings are expected to be validated already; use the
// settings package to load and validate the "easy reading" YAML format.
package translit

import (
	"regexp"
	"sort"

	"github.com/pkg/errors"
)

// Version identifies the engine version stamped into serialized
// transliterators.
const Version = "1.2.0"

// RuleSpec describes a single transliteration rule before compilation.
// Tokens is required; the constraint fields may be nil.
type RuleSpec struct {
	Production  string
	PrevClasses []string
	PrevTokens  []string
	Tokens      []string
	NextTokens  []string
	NextClasses []string
}

// OnMatchSpec describes a rule inserting a production between two adjacent
// matches, based on the token classes on both sides of the match boundary.
type OnMatchSpec struct {
	PrevClasses []string
	NextClasses []string
	Production  string
}

// Config holds validated settings for constructing a Transliterator.
type Config struct {
	// Tokens maps each token of the input alphabet to its classes.
	Tokens map[string][]string
	// Rules are the transliteration rules, in any order.
	Rules []RuleSpec
	// OnMatchRules are optional insertion rules, tried in declared order.
	OnMatchRules []OnMatchSpec
	// Whitespace configures the whitespace token handling.
	Whitespace Whitespace
	// Metadata is carried through serialization untouched.
	Metadata map[string]any

	// IgnoreErrors makes Tokenize and Transliterate skip over
	// unrecognizable input and unmatched tokens instead of failing.
	IgnoreErrors bool
	// SkipAmbiguityCheck disables the build-time ambiguity check. Used
	// internally when the rule set is already known to be unambiguous.
	SkipAmbiguityCheck bool
}

// Transliterator converts input strings token by token using a compiled rule
// set. Instances are immutable after construction except for the last-match
// introspection state, so Transliterate is not safe for concurrent use on a
// shared instance.
type Transliterator struct {
	tokens         map[string][]string
	tokenClasses   map[string]map[string]bool
	tokensByClass  map[string][]string
	rules          []TransliterationRule
	whitespace     Whitespace
	onmatchRules   []OnMatchRule
	onmatchLookup  map[string]map[string][]int
	metadata       map[string]any
	graph          *DirectedGraph
	pattern        string
	tokenizer      *regexp.Regexp
	ignoreErrors   bool
	checkAmbiguity bool
	version        string

	// Overwritten by each Transliterate call.
	lastRuleKeys    []int
	lastInputTokens []string
}

// New compiles a Transliterator from validated settings. It derives rule
// costs, sorts rules by ascending cost, checks the rule set for ambiguity
// (unless disabled), and builds the matching graph, the on-match lookup and
// the tokenizer pattern.
func New(cfg Config) (*Transliterator, error) {
	rules := make([]TransliterationRule, len(cfg.Rules))
	for i, spec := range cfg.Rules {
		rules[i] = newTransliterationRule(spec)
	}
	sort.SliceStable(rules, func(i, j int) bool { return rules[i].Cost < rules[j].Cost })

	t := &Transliterator{
		tokens:         cfg.Tokens,
		tokenClasses:   tokenClassesOf(cfg.Tokens),
		tokensByClass:  tokensByClassOf(cfg.Tokens),
		rules:          rules,
		whitespace:     cfg.Whitespace,
		onmatchRules:   onMatchRulesOf(cfg.OnMatchRules),
		metadata:       cfg.Metadata,
		ignoreErrors:   cfg.IgnoreErrors,
		checkAmbiguity: !cfg.SkipAmbiguityCheck,
		version:        Version,
	}
	if t.checkAmbiguity {
		if err := t.CheckForAmbiguity(); err != nil {
			return nil, err
		}
	}
	t.pattern = tokenizerPatternFrom(tokenNamesOf(cfg.Tokens))
	tokenizer, err := compileTokenizer(t.pattern)
	if err != nil {
		return nil, err
	}
	t.tokenizer = tokenizer
	t.graph = buildGraph(rules)
	t.onmatchLookup = onMatchLookupFrom(cfg.Tokens, t.onmatchRules)
	return t, nil
}

// PrunedOf returns a new Transliterator built from the same settings but
// without the rules whose production is in productions. The rule set is
// recompiled wholesale; rule keys of the new instance are renumbered.
func (t *Transliterator) PrunedOf(productions ...string) (*Transliterator, error) {
	pruned := make([]string, len(productions))
	copy(pruned, productions)
	drop := make(map[string]bool, len(pruned))
	for _, p := range pruned {
		drop[p] = true
	}
	var specs []RuleSpec
	for _, rule := range t.rules {
		if drop[rule.Production] {
			continue
		}
		specs = append(specs, rule.spec())
	}
	onmatch := make([]OnMatchSpec, len(t.onmatchRules))
	for i, om := range t.onmatchRules {
		onmatch[i] = OnMatchSpec(om)
	}
	return New(Config{
		Tokens:             t.tokens,
		Rules:              specs,
		OnMatchRules:       onmatch,
		Whitespace:         t.whitespace,
		Metadata:           t.metadata,
		IgnoreErrors:       t.ignoreErrors,
		SkipAmbiguityCheck: !t.checkAmbiguity,
	})
}

// Tokens returns the mapping of tokens to their classes.
func (t *Transliterator) Tokens() map[string][]string { return t.tokens }

// TokensByClass returns the mapping of token classes to their member tokens.
func (t *Transliterator) TokensByClass() map[string][]string { return t.tokensByClass }

// Rules returns the transliteration rules sorted by ascending cost. The
// index of a rule in this slice is its rule key.
func (t *Transliterator) Rules() []TransliterationRule { return t.rules }

// Productions returns the production of every rule, in rule key order.
func (t *Transliterator) Productions() []string {
	productions := make([]string, len(t.rules))
	for i, rule := range t.rules {
		productions[i] = rule.Production
	}
	return productions
}

// OnMatchRules returns the on-match insertion rules in declared order.
func (t *Transliterator) OnMatchRules() []OnMatchRule { return t.onmatchRules }

// OnMatchLookup returns the lookup from token at a match boundary to the
// token preceding the boundary to candidate on-match rule indices.
func (t *Transliterator) OnMatchLookup() map[string]map[string][]int { return t.onmatchLookup }

// Whitespace returns the whitespace settings.
func (t *Transliterator) Whitespace() Whitespace { return t.whitespace }

// Metadata returns the metadata supplied at construction.
func (t *Transliterator) Metadata() map[string]any { return t.metadata }

// Graph returns the compiled matching graph.
func (t *Transliterator) Graph() *DirectedGraph { return t.graph }

// TokenizerPattern returns the regular expression alternation used to split
// input into tokens.
func (t *Transliterator) TokenizerPattern() string { return t.pattern }

// EngineVersion returns the engine version the instance was built (or
// loaded) with.
func (t *Transliterator) EngineVersion() string { return t.version }

// IgnoreErrors reports whether recoverable errors are skipped.
func (t *Transliterator) IgnoreErrors() bool { return t.ignoreErrors }

// SetIgnoreErrors toggles skipping of recoverable errors.
func (t *Transliterator) SetIgnoreErrors(ignore bool) { t.ignoreErrors = ignore }

// LastMatchedRuleKeys returns the keys of the rules applied by the most
// recent Transliterate call, in application order.
func (t *Transliterator) LastMatchedRuleKeys() []int { return t.lastRuleKeys }

// LastMatchedRules returns the rules applied by the most recent
// Transliterate call, in application order.
func (t *Transliterator) LastMatchedRules() []TransliterationRule {
	rules := make([]TransliterationRule, len(t.lastRuleKeys))
	for i, key := range t.lastRuleKeys {
		rules[i] = t.rules[key]
	}
	return rules
}

// LastInputTokens returns the tokenization of the most recent Transliterate
// input, including the sentinel whitespace tokens at both ends.
func (t *Transliterator) LastInputTokens() []string { return t.lastInputTokens }

// hasClass reports whether token carries the given class.
func (t *Transliterator) hasClass(token, class string) bool {
	return t.tokenClasses[token][class]
}

func tokenClassesOf(tokens map[string][]string) map[string]map[string]bool {
	classes := make(map[string]map[string]bool, len(tokens))
	for token, tokenClasses := range tokens {
		set := make(map[string]bool, len(tokenClasses))
		for _, class := range tokenClasses {
			set[class] = true
		}
		classes[token] = set
	}
	return classes
}

func tokensByClassOf(tokens map[string][]string) map[string][]string {
	byClass := make(map[string][]string)
	for token, tokenClasses := range tokens {
		for _, class := range tokenClasses {
			byClass[class] = append(byClass[class], token)
		}
	}
	for class := range byClass {
		sort.Strings(byClass[class])
	}
	return byClass
}

func tokenNamesOf(tokens map[string][]string) []string {
	names := make([]string, 0, len(tokens))
	for token := range tokens {
		names = append(names, token)
	}
	sort.Strings(names)
	return names
}

func onMatchRulesOf(specs []OnMatchSpec) []OnMatchRule {
	if len(specs) == 0 {
		return nil
	}
	rules := make([]OnMatchRule, len(specs))
	for i, spec := range specs {
		rules[i] = OnMatchRule(spec)
	}
	return rules
}

// onMatchLookupFrom builds the lookup keyed by the token at a match boundary,
// then by the token just before it. Rule indices in each bucket stay in
// declared order, so candidates are tried the way they were declared.
func onMatchLookupFrom(tokens map[string][]string, rules []OnMatchRule) map[string]map[string][]int {
	if len(rules) == 0 {
		return nil
	}
	classes := tokenClassesOf(tokens)
	names := tokenNamesOf(tokens)
	lookup := make(map[string]map[string][]int)
	for i, rule := range rules {
		lastPrevClass := rule.PrevClasses[len(rule.PrevClasses)-1]
		firstNextClass := rule.NextClasses[0]
		for _, curr := range names {
			if !classes[curr][firstNextClass] {
				continue
			}
			byPrev := lookup[curr]
			if byPrev == nil {
				byPrev = make(map[string][]int)
				lookup[curr] = byPrev
			}
			for _, prev := range names {
				if !classes[prev][lastPrevClass] {
					continue
				}
				byPrev[prev] = append(byPrev[prev], i)
			}
		}
	}
	return lookup
}

func compileTokenizer(pattern string) (*regexp.Regexp, error) {
	tokenizer, err := regexp.Compile(`\A` + pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to compile tokenizer pattern %q", pattern)
	}
	return tokenizer, nil
}
