package ruletree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"sync"
	"sync/atomic"
)

// DefaultGCInterval is the number of freed nodes after which MaybeGC will
// sweep the tree.
const DefaultGCInterval = 300

// RuleTree is the shared tree of rule nodes. It owns the root node.
// All operations are safe for concurrent use.
type RuleTree struct {
	root       *RuleNode
	gcInterval int64
	gcMutex    sync.Mutex // serializes sweeps

	created   atomic.Int64 // nodes created
	freed     atomic.Int64 // nodes collected
	freeCount atomic.Int64 // nodes collected since the last sweep
	hits      atomic.Int64 // EnsureChild found an existing child
	misses    atomic.Int64 // EnsureChild created a child
	fastPaths atomic.Int64 // UpdateRuleAtLevel left the path unchanged
	sweeps    atomic.Int64 // number of sweeps
	swept     atomic.Int64 // number of stale child slots removed
}

// Option is a type to help initializing rule trees at creation time.
type Option func(*RuleTree)

// GCInterval is an option to set the number of freed nodes which will make
// MaybeGC sweep the tree. n ≤ 0 selects the default.
//
// Use it like this:
//
//	tree := ruletree.New(ruletree.GCInterval(1000))
func GCInterval(n int) Option {
	return func(tree *RuleTree) {
		if n <= 0 {
			n = DefaultGCInterval
		}
		tree.gcInterval = int64(n)
	}
}

// New creates an empty rule tree.
func New(opts ...Option) *RuleTree {
	tree := &RuleTree{gcInterval: DefaultGCInterval}
	tree.root = newRoot(tree)
	for _, option := range opts {
		option(tree)
	}
	return tree
}

// Root returns the root node. Its path is the empty list of rules.
func (tree *RuleTree) Root() *RuleNode {
	return tree.root
}

// InsertOrderedRules inserts a list of rules, starting at the root, and
// returns the node representing the list. Rules have to be given in cascade
// order. Important declarations get no special treatment (see
// InsertOrderedRulesWithImportant).
func (tree *RuleTree) InsertOrderedRules(rules []Rule) *RuleNode {
	return tree.InsertOrderedRulesFrom(tree.root, rules)
}

// InsertOrderedRulesFrom appends a list of rules to the path of node from.
func (tree *RuleTree) InsertOrderedRulesFrom(from *RuleNode, rules []Rule) *RuleNode {
	assertThat(from != nil && from.tree == tree, "inserting rules from a node of another tree")
	current := from
	for _, r := range rules {
		current = current.EnsureChild(r.Source, r.Level)
	}
	return current
}

func (tree *RuleTree) recordLookup(created bool) {
	if created {
		tree.misses.Add(1)
	} else {
		tree.hits.Add(1)
	}
}

// --- Garbage collection ----------------------------------------------------

// MaybeGC sweeps the tree if more than the configured number of nodes have
// been collected since the last sweep. It returns the number of stale
// slots removed.
func (tree *RuleTree) MaybeGC() int {
	if tree.freeCount.Load() <= tree.gcInterval {
		return 0
	}
	return tree.GC()
}

// GC removes the traces of collected nodes from their parents.
// Nodes still referenced are never touched, so GC may run concurrently
// with style resolution.
func (tree *RuleTree) GC() int {
	tree.gcMutex.Lock()
	defer tree.gcMutex.Unlock()
	tree.freeCount.Store(0)
	removed := 0
	stack := []*RuleNode{tree.root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		children, n := node.children.sweep()
		removed += n
		stack = append(stack, children...)
	}
	tree.sweeps.Add(1)
	tree.swept.Add(int64(removed))
	tracer().Debugf("rule tree GC removed %d stale children", removed)
	return removed
}

// Stats is a snapshot of rule tree counters.
type Stats struct {
	NodesCreated int64 // rule nodes created, excluding the root
	NodesFreed   int64 // rule nodes reclaimed
	ChildHits    int64 // lookups finding an existing child
	ChildMisses  int64 // lookups creating a child
	FastPaths    int64 // rule replacements which kept the path
	Sweeps       int64 // GC runs
	SlotsSwept   int64 // stale child slots removed by GC
	PendingFrees int64 // nodes freed since the last GC
}

// Live returns the number of nodes not yet reclaimed.
func (s Stats) Live() int64 {
	return s.NodesCreated - s.NodesFreed
}

// Stats returns the current counters of the tree.
func (tree *RuleTree) Stats() Stats {
	return Stats{
		NodesCreated: tree.created.Load(),
		NodesFreed:   tree.freed.Load(),
		ChildHits:    tree.hits.Load(),
		ChildMisses:  tree.misses.Load(),
		FastPaths:    tree.fastPaths.Load(),
		Sweeps:       tree.sweeps.Load(),
		SlotsSwept:   tree.swept.Load(),
		PendingFrees: tree.freeCount.Load(),
	}
}
