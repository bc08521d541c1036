package ruletree

import (
	"cmp"
	"slices"

	"github.com/npillmayer/cascade/dom/style"
)

// authorImportant is a withheld author rule, remembering the shadow cascade
// order of the tree it came from.
type authorImportant struct {
	source StyleSource
	order  ShadowCascadeOrder
}

// importantRules collects rules with important declarations, bucketed by
// origin, in the order they have been matched.
type importantRules struct {
	author    []authorImportant
	styleAttr StyleSource
	user      []StyleSource
	ua        []StyleSource
}

// InsertOrderedRulesWithImportant inserts a list of rules given in normal
// cascade order and returns the node representing the complete cascade,
// including important declarations.
//
// Every rule is inserted at its (normal) level, even if its declaration block
// is empty. Rules containing important declarations are inserted a second
// time, after all normal rules, at the important level of their origin:
// author-important rules first, then the important style attribute, then
// user-important and finally user-agent-important rules. Author rules from
// different shadow trees are ordered so that inner trees win. A transition
// rule always ends the path.
//
// If no rule contains important declarations, the result is the same as the
// one of InsertOrderedRules.
func (tree *RuleTree) InsertOrderedRulesWithImportant(rules []Rule, guards *style.Guards) *RuleNode {
	current := tree.root
	var important importantRules
	var transition StyleSource
	foundImportant := false
	for _, r := range rules {
		assertThat(!r.Level.IsImportant(), "important level %s in list of normal rules", r.Level)
		if r.Source.Read(r.Level.Guard(guards)).AnyImportant() {
			foundImportant = true
			important.withhold(r)
		}
		if r.Level == Transitions && foundImportant {
			// at most one transition, which comes last
			assertThat(transition.IsNone(), "more than one transition rule")
			transition = r.Source
			continue
		}
		current = current.EnsureChild(r.Source, r.Level)
	}
	if !foundImportant {
		return current
	}
	tracer().Debugf("inserting withheld important rules: %d author, %d user, %d user-agent",
		len(important.author), len(important.user), len(important.ua))
	current = important.insert(current)
	if !transition.IsNone() {
		current = current.EnsureChild(transition, Transitions)
	}
	return current
}

func (imp *importantRules) withhold(r Rule) {
	switch r.Level.Kind() {
	case KindAuthorNormal:
		imp.author = append(imp.author, authorImportant{r.Source, r.Level.ShadowCascadeOrder()})
	case KindStyleAttributeNormal:
		assertThat(imp.styleAttr.IsNone(), "more than one style attribute rule")
		imp.styleAttr = r.Source
	case KindUserNormal:
		imp.user = append(imp.user, r.Source)
	case KindUANormal:
		imp.ua = append(imp.ua, r.Source)
	}
}

// insert appends the withheld rules to the path of current, in order of
// increasing importance.
func (imp *importantRules) insert(current *RuleNode) *RuleNode {
	if imp.fromDifferentTrees() {
		// rules of the same tree keep their matching order
		slices.SortStableFunc(imp.author, func(a, b authorImportant) int {
			return cmp.Compare(-a.order, -b.order)
		})
	}
	for _, r := range imp.author {
		current = current.EnsureChild(r.source, AuthorImportant(-r.order))
	}
	if !imp.styleAttr.IsNone() {
		current = current.EnsureChild(imp.styleAttr, StyleAttributeImportant)
	}
	for _, source := range imp.user {
		current = current.EnsureChild(source, UserImportant)
	}
	for _, source := range imp.ua {
		current = current.EnsureChild(source, UAImportant)
	}
	return current
}

func (imp *importantRules) fromDifferentTrees() bool {
	for _, r := range imp.author[min(1, len(imp.author)):] {
		if r.order != imp.author[0].order {
			return true
		}
	}
	return false
}

// ComputeRuleNode converts the applicable declarations found by selector
// matching into a rule node. The list is expected in normal cascade order;
// it is drained, so the caller may re-use its storage.
func (tree *RuleTree) ComputeRuleNode(decls *[]ApplicableDeclaration, guards *style.Guards) *RuleNode {
	rules := make([]Rule, len(*decls))
	for i, d := range *decls {
		rules[i] = Rule{Source: d.Source, Level: d.Level}
	}
	clear(*decls)
	*decls = (*decls)[:0]
	return tree.InsertOrderedRulesWithImportant(rules, guards)
}
