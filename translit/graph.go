package translit

import (
	"sort"

	"github.com/pkg/errors"
)

// NodeKind tags the variant of a matching-graph node.
type NodeKind string

const (
	// NodeStart is the synthetic root, always at index 0.
	NodeStart NodeKind = "Start"
	// NodeToken is reached by consuming its token.
	NodeToken NodeKind = "token"
	// NodeRule is an accepting node referencing one rule key.
	NodeRule NodeKind = "rule"
)

// ReservedRulesKey is the OrderedChildren key collecting rule-node children
// that have no further tokens to consume. The settings validator rejects it
// as a token name so it cannot collide with a declared token.
const ReservedRulesKey = "__rules__"

const rulesKey = ReservedRulesKey

// RuleConstraints is the constraint set attached to an accepting node. All
// present constraints must hold simultaneously for the rule to match.
type RuleConstraints struct {
	PrevClasses []string `json:"prev_classes,omitempty"`
	PrevTokens  []string `json:"prev_tokens,omitempty"`
	NextTokens  []string `json:"next_tokens,omitempty"`
	NextClasses []string `json:"next_classes,omitempty"`
}

// Node is a matching-graph node. Token is set for NodeToken nodes; RuleKey
// and Constraints apply to NodeRule nodes. OrderedChildren maps the next
// token to consume to child node indices ordered by ascending rule cost.
// Rule-node children appear in every token-keyed list, so a rule accepting
// here competes with the longer rules continuing past it; the reserved
// rulesKey holds them alone for positions no token child consumes.
type Node struct {
	Kind            NodeKind         `json:"type"`
	Token           string           `json:"token,omitempty"`
	RuleKey         int              `json:"rule_key,omitempty"`
	Constraints     *RuleConstraints `json:"constraints,omitempty"`
	OrderedChildren map[string][]int `json:"ordered_children,omitempty"`
}

// Edge annotates a parent-child connection. Token is empty on edges leading
// to rule nodes. Cost is the minimum cost of any rule whose path uses the
// edge; child ordering derives from it.
type Edge struct {
	Token string  `json:"token,omitempty"`
	Cost  float64 `json:"cost"`
}

// DirectedGraph is a rooted, acyclic matching graph stored as a node arena
// with integer indices. It is built once per rule set and never mutated
// during matching.
type DirectedGraph struct {
	Nodes []*Node               `json:"node"`
	Edges map[int]map[int]*Edge `json:"edge,omitempty"`
}

// NewDirectedGraph returns an empty graph.
func NewDirectedGraph() *DirectedGraph {
	return &DirectedGraph{Edges: make(map[int]map[int]*Edge)}
}

// AddNode appends a node to the arena and returns its index.
func (g *DirectedGraph) AddNode(node *Node) int {
	g.Nodes = append(g.Nodes, node)
	return len(g.Nodes) - 1
}

// AddEdge connects two existing nodes. Both indices must be in range.
func (g *DirectedGraph) AddEdge(from, to int, edge *Edge) error {
	if from < 0 || from >= len(g.Nodes) {
		return errors.Errorf("edge source %d out of range", from)
	}
	if to < 0 || to >= len(g.Nodes) {
		return errors.Errorf("edge target %d out of range", to)
	}
	if g.Edges == nil {
		g.Edges = make(map[int]map[int]*Edge)
	}
	children := g.Edges[from]
	if children == nil {
		children = make(map[int]*Edge)
		g.Edges[from] = children
	}
	children[to] = edge
	return nil
}

// buildGraph compiles the cost-sorted rule list into a matching graph. Each
// rule's token sequence becomes a path from the Start node, reusing existing
// nodes for shared prefixes, terminated by an accepting rule node carrying
// the rule's context constraints.
func buildGraph(rules []TransliterationRule) *DirectedGraph {
	g := NewDirectedGraph()
	g.AddNode(&Node{Kind: NodeStart})

	// Token children per parent, for prefix reuse during construction.
	tokenChildren := map[int]map[string]int{}

	for ruleKey, rule := range rules {
		parent := 0
		for _, token := range rule.Tokens {
			children := tokenChildren[parent]
			child, ok := children[token]
			if !ok {
				child = g.AddNode(&Node{Kind: NodeToken, Token: token})
				_ = g.AddEdge(parent, child, &Edge{Token: token, Cost: rule.Cost})
				if children == nil {
					children = map[string]int{}
					tokenChildren[parent] = children
				}
				children[token] = child
			} else if edge := g.Edges[parent][child]; rule.Cost < edge.Cost {
				// Shared edge keeps the minimum cost of its rules.
				edge.Cost = rule.Cost
			}
			parent = child
		}
		ruleNode := g.AddNode(&Node{
			Kind:        NodeRule,
			RuleKey:     ruleKey,
			Constraints: constraintsOf(rule),
		})
		_ = g.AddEdge(parent, ruleNode, &Edge{Cost: rule.Cost})
	}

	g.orderChildren()
	return g
}

// constraintsOf extracts the constraint set of a rule, or nil if the rule is
// unconstrained.
func constraintsOf(rule TransliterationRule) *RuleConstraints {
	if rule.prevCount() == 0 && len(rule.NextTokens) == 0 && len(rule.NextClasses) == 0 {
		return nil
	}
	return &RuleConstraints{
		PrevClasses: rule.PrevClasses,
		PrevTokens:  rule.PrevTokens,
		NextTokens:  rule.NextTokens,
		NextClasses: rule.NextClasses,
	}
}

// orderChildren fills each node's OrderedChildren from its edges, sorted by
// ascending edge cost so the cheapest child is visited first. Ties keep
// insertion order, which is rule key order. Rule children are merged into
// every token-keyed list in the same cost order, so a matched token still
// leaves the rules accepting at this node reachable.
func (g *DirectedGraph) orderChildren() {
	for parent, children := range g.Edges {
		keys := make([]int, 0, len(children))
		for child := range children {
			keys = append(keys, child)
		}
		// Node indices grow with rule key, so sorting on (cost, index)
		// yields a stable cheapest-first order.
		sort.Slice(keys, func(i, j int) bool {
			ci, cj := children[keys[i]].Cost, children[keys[j]].Cost
			if ci != cj {
				return ci < cj
			}
			return keys[i] < keys[j]
		})
		var ruleChildren []int
		byToken := make(map[string][]int)
		for _, child := range keys {
			node := g.Nodes[child]
			if node.Kind == NodeRule {
				ruleChildren = append(ruleChildren, child)
			} else {
				byToken[node.Token] = append(byToken[node.Token], child)
			}
		}
		less := func(a, b int) bool {
			ca, cb := children[a].Cost, children[b].Cost
			if ca != cb {
				return ca < cb
			}
			return a < b
		}
		ordered := make(map[string][]int, len(byToken)+1)
		if len(ruleChildren) > 0 {
			ordered[rulesKey] = ruleChildren
		}
		for token, tokenChildren := range byToken {
			merged := make([]int, 0, len(tokenChildren)+len(ruleChildren))
			i, j := 0, 0
			for i < len(tokenChildren) && j < len(ruleChildren) {
				if less(tokenChildren[i], ruleChildren[j]) {
					merged = append(merged, tokenChildren[i])
					i++
				} else {
					merged = append(merged, ruleChildren[j])
					j++
				}
			}
			merged = append(merged, tokenChildren[i:]...)
			merged = append(merged, ruleChildren[j:]...)
			ordered[token] = merged
		}
		g.Nodes[parent].OrderedChildren = ordered
	}
}
