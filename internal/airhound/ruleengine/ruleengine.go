// Package ruleengine evaluates a flat, post-order boolean expression tree
// over a types.SigMatchSet to produce named rule hits. Evaluation never
// panics: any stack underflow, overflow, or leftover residue degrades to
// a false result instead of aborting.
package ruleengine

import "github.com/airhound/airhound/internal/airhound/types"

// NodeKind discriminates ExprNode variants.
type NodeKind int

const (
	NodeSig NodeKind = iota
	NodeAnyOf
	NodeAllOf
	NodeNot
)

// ExprNode is one entry in the shared post-order expression pool.
// Children precede parents; Count is only meaningful for AnyOf/AllOf and
// denotes how many already-pushed stack values the combinator consumes.
type ExprNode struct {
	Kind  NodeKind
	SigIx int // valid when Kind == NodeSig
	Count int // valid when Kind == NodeAnyOf || Kind == NodeAllOf
}

// Rule names a post-order expression slice within a shared pool.
type Rule struct {
	Name      string
	ExprStart int
	ExprLen   int
}

// Db is a compiled rule database: a shared node pool plus the rules that
// index into it.
type Db struct {
	Nodes []ExprNode
	Rules []Rule
}

// Valid reports whether every rule's span fits inside the node pool.
// EvalAll does not depend on it: it skips any rule whose span does not fit.
func (d Db) Valid() bool {
	for _, r := range d.Rules {
		if r.ExprStart < 0 || r.ExprLen < 0 || r.ExprStart+r.ExprLen > len(d.Nodes) {
			return false
		}
	}
	return true
}

// Eval walks a rule's node slice with a fixed-depth boolean stack and
// reports whether it fired. Any stack underflow, overflow, or residue
// other than exactly one value returns false — never a panic. Empty
// expressions return false. AllOf{0} is vacuously true; AnyOf{0} is
// vacuously false.
func Eval(nodes []ExprNode, set types.SigMatchSet) bool {
	if len(nodes) == 0 {
		return false
	}

	var stack [types.EvalStackDepth]bool
	sp := 0

	push := func(v bool) bool {
		if sp >= types.EvalStackDepth {
			return false
		}
		stack[sp] = v
		sp++
		return true
	}
	popN := func(n int) ([]bool, bool) {
		if n < 0 || sp < n {
			return nil, false
		}
		sp -= n
		return stack[sp : sp+n], true
	}

	for _, node := range nodes {
		switch node.Kind {
		case NodeSig:
			if !push(set.Get(node.SigIx)) {
				return false
			}
		case NodeAllOf:
			vals, ok := popN(node.Count)
			if !ok {
				return false
			}
			result := true
			for _, v := range vals {
				if !v {
					result = false
					break
				}
			}
			if !push(result) {
				return false
			}
		case NodeAnyOf:
			vals, ok := popN(node.Count)
			if !ok {
				return false
			}
			result := false
			for _, v := range vals {
				if v {
					result = true
					break
				}
			}
			if !push(result) {
				return false
			}
		case NodeNot:
			vals, ok := popN(1)
			if !ok {
				return false
			}
			if !push(!vals[0]) {
				return false
			}
		default:
			return false
		}
	}

	if sp != 1 {
		return false
	}
	return stack[0]
}

// EvalAll evaluates every rule in db against set and appends up to
// types.MaxRuleNames names of rules that fired, in rule-table order.
func EvalAll(db Db, set types.SigMatchSet) types.RuleNameList {
	var hits types.RuleNameList
	for _, r := range db.Rules {
		if r.ExprStart < 0 || r.ExprLen < 0 || r.ExprStart+r.ExprLen > len(db.Nodes) {
			continue
		}
		if Eval(db.Nodes[r.ExprStart:r.ExprStart+r.ExprLen], set) {
			if !hits.Append(r.Name) {
				break
			}
		}
	}
	return hits
}
