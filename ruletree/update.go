package ruletree

import (
	"slices"

	"github.com/npillmayer/cascade/dom/style"
)

// UpdateRuleAtLevel replaces the rule at a level which is unique per element
// (style attribute, SMIL, animations or transitions). If source is nil, an
// existing rule at this level is removed.
//
// UpdateRuleAtLevel returns the new node together with two flags: replaced
// is false if the path is unchanged and path itself is returned;
// importantChanged is true if important rules on the path have been added,
// removed or exchanged, in which case clients will have to re-compute the
// complete rule node, as the position of important rules depends on all of
// the matched rules.
func (tree *RuleTree) UpdateRuleAtLevel(level CascadeLevel, source *StyleSource,
	path *RuleNode, guards *style.Guards) (node *RuleNode, replaced bool, importantChanged bool) {
	//
	assertThat(level.IsUniquePerElement(), "cannot update rule at level %s", level)
	assertThat(path != nil && path.tree == tree, "updating a path of another tree")
	current := path
	var above []*RuleNode
	for !current.IsRoot() && level.Less(current.level) {
		above = append(above, current)
		current = current.parent
	}
	if !current.IsRoot() && current.level == level {
		if source != nil && current.source.SameAs(*source) {
			tree.fastPaths.Add(1)
			tracer().Debugf("rule at level %s unchanged", level)
			return path, false, false
		}
		importantChanged = level.IsImportant()
		current = current.parent
		assertThat(current.IsRoot() || current.level != level, "more than one rule at level %s", level)
	}
	if source != nil {
		decls := source.Read(level.Guard(guards))
		if level.IsImportant() {
			if decls.AnyImportant() {
				current = current.EnsureChild(*source, level)
				importantChanged = true
			}
		} else if decls.AnyNormal() {
			current = current.EnsureChild(*source, level)
		}
	}
	for _, n := range slices.Backward(above) {
		current = current.EnsureChild(n.source, n.level)
	}
	return current, true, importantChanged
}

// RemoveTransitionRuleIfApplicable returns the parent of path if path ends
// with a transition rule, otherwise path.
func (tree *RuleTree) RemoveTransitionRuleIfApplicable(path *RuleNode) *RuleNode {
	if !path.IsRoot() && path.level == Transitions {
		return path.parent
	}
	return path
}

// RemoveAnimationRules returns a path without any animation or transition
// rules. If path does not carry such rules, path is returned.
func (tree *RuleTree) RemoveAnimationRules(path *RuleNode) *RuleNode {
	if !path.HasAnimationOrTransitionRules() {
		return path
	}
	var kept []*RuleNode
	last := path
	for n := range path.SelfAndAncestors() {
		if n.IsRoot() || n.level.Less(SMILOverride) {
			break
		}
		if !n.level.IsAnimation() {
			kept = append(kept, n)
		}
		last = n
	}
	current := last.parent
	for _, n := range slices.Backward(kept) {
		current = current.EnsureChild(n.source, n.level)
	}
	tracer().Debugf("removed animation rules, depth %d => %d", path.depth, current.depth)
	return current
}

// AddAnimationRulesAtTransitionLevel places a block of animation values at
// the transition level of path, replacing an existing transition rule.
func (tree *RuleTree) AddAnimationRulesAtTransitionLevel(path *RuleNode,
	block *style.DeclarationBlock, guards *style.Guards) *RuleNode {
	//
	source := FromDeclarations(block)
	node, replaced, _ := tree.UpdateRuleAtLevel(Transitions, &source, path, guards)
	if !replaced {
		return path
	}
	return node
}
