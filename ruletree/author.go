package ruletree

import (
	"github.com/npillmayer/cascade/dom/style"
)

// Element is what the attribution query needs to know about a document
// element. Implementations live in the DOM layer.
type Element interface {
	// InheritanceParent returns the element the given one inherits from, or
	// nil for the root element.
	InheritanceParent() Element
	// PrimaryRuleNode returns the rule node of the element itself, i.e. not of
	// one of its pseudo-elements.
	PrimaryRuleNode() *RuleNode
}

// PseudoElement identifies a pseudo-element of an element. PseudoNone
// addresses the element itself.
type PseudoElement uint8

// Pseudo-elements known to the styling engine.
const (
	PseudoNone PseudoElement = iota
	PseudoBefore
	PseudoAfter
	PseudoFirstLine
	PseudoFirstLetter
	PseudoMarker
	PseudoSelection
	PseudoBackdrop
	PseudoOofPlaceholder // placeholder box for out-of-flow content
)

var pseudoNames = [...]string{"", "::before", "::after", "::first-line", "::first-letter",
	"::marker", "::selection", "::backdrop", "::oof-placeholder"}

func (p PseudoElement) String() string {
	if int(p) < len(pseudoNames) {
		return pseudoNames[p]
	}
	return "::unknown"
}

// InheritsFromDefaultValues is true for pseudo-elements which do not inherit
// from their originating element.
func (p PseudoElement) InheritsFromDefaultValues() bool {
	return p == PseudoBackdrop || p == PseudoOofPlaceholder
}

// AuthorSpecifiedMask selects the property groups HasAuthorSpecifiedRules
// will look at.
type AuthorSpecifiedMask uint8

// Property groups for HasAuthorSpecifiedRules.
const (
	AuthorSpecifiedBackground AuthorSpecifiedMask = 1 << iota
	AuthorSpecifiedBorder
	AuthorSpecifiedPadding
)

// HasAuthorSpecifiedRules checks if any property out of the groups in mask
// is determined by an author-origin rule for element (or its pseudo-element),
// given that node is the rule node of element/pseudo. Properties set to
// 'inherit' by user-agent or user rules are looked up at the inheritance
// parent.
//
// If authorColorsAllowed is false, color properties do not count, with the
// exception of background-color: an author background-color still counts,
// unless it is transparent.
func (node *RuleNode) HasAuthorSpecifiedRules(element Element, pseudo PseudoElement,
	guards *style.Guards, mask AuthorSpecifiedMask, authorColorsAllowed bool) bool {
	//
	properties := style.NewPropertySet()
	if mask&AuthorSpecifiedBackground != 0 {
		properties.Insert(style.BackgroundProperties...)
	}
	if mask&AuthorSpecifiedBorder != 0 {
		properties.Insert(style.BorderProperties...)
	}
	if mask&AuthorSpecifiedPadding != 0 {
		properties.Insert(style.PaddingProperties...)
	}
	if !authorColorsAllowed {
		for _, key := range properties.Keys() {
			if style.IgnoredWhenColorsDisabled(key) {
				properties.Remove(key)
			}
		}
		if mask&AuthorSpecifiedBackground != 0 {
			properties.Insert("background-color")
		}
	}
	path := node
	for path != nil && !properties.Empty() {
		inherited := style.NewPropertySet()
		for n := range path.SelfAndAncestors() {
			if n.IsRoot() {
				break
			}
			important := n.level.IsImportant()
			isAuthor := n.level.Origin() == OriginAuthor
			for decl := range n.source.Read(n.level.Guard(guards)).Backward() {
				if decl.Important != important || !properties.Contains(decl.Key) {
					continue
				}
				if isAuthor {
					if !authorColorsAllowed && decl.Key == "background-color" && decl.Value.IsTransparent() {
						properties.Remove(decl.Key)
						continue
					}
					tracer().Debugf("%s set by author rule %s", decl.Key, n)
					return true
				}
				properties.Remove(decl.Key)
				if decl.Value.IsInherit() {
					inherited.Insert(decl.Key)
				}
			}
		}
		if inherited.Empty() {
			break
		}
		if pseudo != PseudoNone {
			if pseudo.InheritsFromDefaultValues() {
				break
			}
			pseudo = PseudoNone // continue with the originating element
		} else if element != nil {
			element = element.InheritanceParent()
		}
		if element == nil {
			break
		}
		path = element.PrimaryRuleNode()
		properties = inherited
	}
	return false
}
