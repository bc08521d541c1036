package ruletree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"iter"
	"runtime"

	"github.com/npillmayer/cascade/dom/style"
)

/*
Rule nodes are immutable, except for their set of children, which only
grows. A node holds a strong link to its parent, but children are
referenced weakly: as soon as no styled element and no descendant uses a
node, it may be collected.
*/

// RuleNode is a node of the rule tree. A rule node stands for the path from
// the root to the node, i.e. for an ordered list of rules. Rule nodes are
// shared: two elements with the same list of rules will reference the same
// node.
type RuleNode struct {
	tree     *RuleTree
	parent   *RuleNode    // parent node; nil for the root
	source   StyleSource  // declarations of this node; none for the root
	level    CascadeLevel // cascade level of source
	depth    int          // length of the path
	children childrenMap  // mutex-protected map of children
}

func newRoot(tree *RuleTree) *RuleNode {
	return &RuleNode{tree: tree, level: UANormal}
}

func (node *RuleNode) String() string {
	if node.IsRoot() {
		return fmt.Sprintf("(RuleNode root #ch=%d)", node.ChildCount())
	}
	return fmt.Sprintf("(RuleNode %s %s)", node.level, node.source)
}

// Tree returns the rule tree this node belongs to.
func (node *RuleNode) Tree() *RuleTree {
	return node.tree
}

// Parent returns the parent node or nil (for the root of the tree).
func (node *RuleNode) Parent() *RuleNode {
	return node.parent
}

// IsRoot is true for the root node.
func (node *RuleNode) IsRoot() bool {
	return node.parent == nil
}

// Source returns the style source of the node. It is empty for the root.
func (node *RuleNode) Source() StyleSource {
	return node.source
}

// Level returns the cascade level of the node.
func (node *RuleNode) Level() CascadeLevel {
	return node.level
}

// Importance returns the importance class of declarations applied by this node.
func (node *RuleNode) Importance() Importance {
	return node.level.Importance()
}

// Depth returns the number of rules on the path up to and including this node.
func (node *RuleNode) Depth() int {
	return node.depth
}

// SelfAndAncestors iterates upwards, starting at node and ending with the root.
func (node *RuleNode) SelfAndAncestors() iter.Seq[*RuleNode] {
	return func(yield func(*RuleNode) bool) {
		for n := node; n != nil; n = n.parent {
			if !yield(n) {
				return
			}
		}
	}
}

// Rules returns the rules of the path, from the root downwards.
func (node *RuleNode) Rules() []Rule {
	rules := make([]Rule, node.depth)
	for n := range node.SelfAndAncestors() {
		if !n.IsRoot() {
			rules[n.depth-1] = Rule{Source: n.source, Level: n.level}
		}
	}
	return rules
}

// ChildCount returns the number of live children-nodes for a node
// (concurrency-safe).
func (node *RuleNode) ChildCount() int {
	return len(node.children.live())
}

// Children returns the live children of a node, in order of insertion.
func (node *RuleNode) Children() []*RuleNode {
	return node.children.live()
}

// EnsureChild returns the child of node for a style source at a cascade
// level. If no such child exists, it is created. Calling EnsureChild
// concurrently with the same arguments yields the same child for every caller.
//
// This operation is concurrency-safe.
func (node *RuleNode) EnsureChild(source StyleSource, level CascadeLevel) *RuleNode {
	assertThat(!source.IsNone(), "rule node child at %s without style source", level)
	key := childKey{id: source.ID(), level: level}
	child, created := node.children.ensure(key, func() *RuleNode {
		return node.tree.newNode(node, source, level)
	})
	node.tree.recordLookup(created)
	return child
}

// HasAnimationOrTransitionRules is true if the path contains a rule at an
// animation level (SMIL, animations or transitions).
func (node *RuleNode) HasAnimationOrTransitionRules() bool {
	for n := range node.SelfAndAncestors() {
		if n.level.Less(SMILOverride) {
			break
		}
		if n.level.IsAnimation() {
			return true
		}
	}
	return false
}

// WinningDeclarations collects, per property, the declaration in effect on
// this path. Declarations with an importance different from their node's
// level do not apply at that node. No values are computed.
func (node *RuleNode) WinningDeclarations(guards *style.Guards) *style.PropertyMap {
	pmap := style.NewPropertyMap()
	for n := range node.SelfAndAncestors() {
		if n.IsRoot() {
			break
		}
		important := n.level.IsImportant()
		for decl := range n.source.Read(n.level.Guard(guards)).Backward() {
			if decl.Important == important {
				pmap.Add(decl.Key, decl.Value)
			}
		}
	}
	return pmap
}

// --- Node creation ---------------------------------------------------------

func (tree *RuleTree) newNode(parent *RuleNode, source StyleSource, level CascadeLevel) *RuleNode {
	n := &RuleNode{
		tree:   tree,
		parent: parent,
		source: source,
		level:  level,
		depth:  parent.depth + 1,
	}
	tree.created.Add(1)
	runtime.AddCleanup(n, func(t *RuleTree) {
		t.freed.Add(1)
		t.freeCount.Add(1)
	}, tree)
	return n
}
