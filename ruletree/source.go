package ruletree

import (
	"github.com/npillmayer/cascade/dom/style"
)

// StyleSource references the declarations of a rule. It is either the body
// of a style rule, in which case the selector text is kept for diagnostics,
// or a bare declaration block (style attributes, animation and transition
// values).
//
// The zero value is the empty source of the root node.
type StyleSource struct {
	block    *style.DeclarationBlock
	selector string
}

// FromRule creates a style source for the body of a style rule.
func FromRule(selector string, block *style.DeclarationBlock) StyleSource {
	assertThat(block != nil, "style source for rule %q without declarations", selector)
	return StyleSource{block: block, selector: selector}
}

// FromDeclarations creates a style source for a bare declaration block.
func FromDeclarations(block *style.DeclarationBlock) StyleSource {
	assertThat(block != nil, "style source without declarations")
	return StyleSource{block: block}
}

// IsNone is true for the empty source of the root node.
func (s StyleSource) IsNone() bool {
	return s.block == nil
}

// Block returns the declaration block. Reading its declarations needs a
// guard (see Read).
func (s StyleSource) Block() *style.DeclarationBlock {
	return s.block
}

// Selector returns the selector text for rule sources, otherwise "".
func (s StyleSource) Selector() string {
	return s.selector
}

// IsRule is true for sources stemming from a style rule.
func (s StyleSource) IsRule() bool {
	return s.selector != ""
}

// ID returns the identity of the underlying declaration block.
func (s StyleSource) ID() style.BlockID {
	if s.block == nil {
		return 0
	}
	return s.block.ID()
}

// SameAs compares the identity of two sources. Sources are identical if
// they reference the same declaration block.
func (s StyleSource) SameAs(other StyleSource) bool {
	return s.block.SameAs(other.block)
}

// Read grants access to the declarations, given the guard for the cascade
// level the source is used at.
func (s StyleSource) Read(g *style.ReadGuard) style.Declarations {
	assertThat(!s.IsNone(), "cannot read declarations of empty style source")
	return s.block.ReadWith(g)
}

func (s StyleSource) String() string {
	if s.IsNone() {
		return "(none)"
	}
	if s.selector != "" {
		return s.selector + " " + s.block.String()
	}
	return s.block.String()
}

// Rule is a style source at a cascade level, i.e. one entry of the ordered
// list of rules applying to an element.
type Rule struct {
	Source StyleSource
	Level  CascadeLevel
}

// R is a shortcut for creating a Rule.
func R(source StyleSource, level CascadeLevel) Rule {
	return Rule{Source: source, Level: level}
}

// ApplicableDeclaration is a rule found by selector matching, together with
// the data selector matching used to order it.
type ApplicableDeclaration struct {
	Source      StyleSource
	Level       CascadeLevel
	Specificity uint32 // packed specificity, higher values win
	SourceOrder uint32 // position of the rule within all stylesheets
}
