package translit

// MatchAt finds the best (least costly) rule matching at position pos of
// tokens and returns its rule key. The token slice must carry the sentinel
// whitespace tokens at both ends, as produced by Tokenize. ok is false when
// no rule matches.
func (t *Transliterator) MatchAt(pos int, tokens []string) (key int, ok bool) {
	keys := t.matchAt(pos, tokens, false)
	if len(keys) == 0 {
		return 0, false
	}
	return keys[0], true
}

// MatchAllAt returns the keys of every rule matching at position pos of
// tokens, ordered by ascending cost. The result is empty when nothing
// matches.
func (t *Transliterator) MatchAllAt(pos int, tokens []string) []int {
	return t.matchAt(pos, tokens, true)
}

type matchFrame struct {
	node int
	pos  int
}

// matchAt walks the matching graph depth first with an explicit stack.
// Children are pushed in reverse cost order so the cheapest child pops
// first; the first satisfied rule node is therefore the most specific match.
func (t *Transliterator) matchAt(pos int, tokens []string, matchAll bool) []int {
	if pos < 0 || pos >= len(tokens) {
		return nil
	}
	var matches []int
	var stack []matchFrame

	push := func(nodeKey, pos int) {
		ordered := t.graph.Nodes[nodeKey].OrderedChildren
		if children := ordered[tokens[pos]]; len(children) > 0 {
			for i := len(children) - 1; i >= 0; i-- {
				stack = append(stack, matchFrame{children[i], pos})
			}
			return
		}
		// No token child consumes the current token: fall back to the
		// rule nodes with nothing further to consume. There may be more
		// than one, as some carry context constraints.
		ruleChildren := ordered[rulesKey]
		for i := len(ruleChildren) - 1; i >= 0; i-- {
			stack = append(stack, matchFrame{ruleChildren[i], pos})
		}
	}

	push(0, pos)
	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := t.graph.Nodes[frame.node]
		if node.Kind == NodeRule && t.matchConstraints(node, frame.pos, tokens) {
			if !matchAll {
				return []int{node.RuleKey}
			}
			matches = append(matches, node.RuleKey)
			continue
		}
		next := frame.pos
		if next < len(tokens)-1 {
			next++
		}
		push(frame.node, next)
	}
	return matches
}

// matchConstraints checks an accepting node's constraint set against the
// token stream. pos is the position just after the tokens the rule consumed.
func (t *Transliterator) matchConstraints(node *Node, pos int, tokens []string) bool {
	c := node.Constraints
	if c == nil {
		return true
	}
	numTokens := len(t.rules[node.RuleKey].Tokens)
	if len(c.PrevTokens) > 0 {
		// For rule (a) a with input "aa":
		//   ' ', a, a, ' '   pos
		//              ^
		//        ^          -numTokens
		//   ^               -len(PrevTokens)
		start := pos - numTokens - len(c.PrevTokens)
		if !t.matchTokenWindow(start, c.PrevTokens, tokens, true, false, false) {
			return false
		}
	}
	if len(c.NextTokens) > 0 {
		if !t.matchTokenWindow(pos, c.NextTokens, tokens, false, true, false) {
			return false
		}
	}
	if len(c.PrevClasses) > 0 {
		// Classes sit further back than any literal previous tokens.
		start := pos - numTokens - len(c.PrevTokens) - len(c.PrevClasses)
		if !t.matchTokenWindow(start, c.PrevClasses, tokens, true, false, true) {
			return false
		}
	}
	if len(c.NextClasses) > 0 {
		// Classes sit further forward than any literal next tokens.
		start := pos + len(c.NextTokens)
		if !t.matchTokenWindow(start, c.NextClasses, tokens, false, true, true) {
			return false
		}
	}
	return true
}

// matchTokenWindow compares a window of the token stream against literal
// tokens or required classes. A window extending past either end of the
// stream fails.
func (t *Transliterator) matchTokenWindow(start int, want []string, tokens []string, checkPrev, checkNext, byClass bool) bool {
	if checkPrev && start < 0 {
		return false
	}
	if checkNext && start+len(want) > len(tokens) {
		return false
	}
	for i, w := range want {
		if byClass {
			if !t.hasClass(tokens[start+i], w) {
				return false
			}
		} else if tokens[start+i] != w {
			return false
		}
	}
	return true
}
