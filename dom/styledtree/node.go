package styledtree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"sync"

	"github.com/npillmayer/cascade/dom/style"
	"github.com/npillmayer/cascade/ruletree"
	"github.com/npillmayer/cascade/tree"
	"golang.org/x/net/html"
)

// StyNode is a style node, the building block of the styled tree.
// Every element of an HTML parse tree gets a styled node, referencing the
// rule node for the element itself and, if rules match, rule nodes for
// some of its pseudo-elements.
type StyNode struct {
	tree.Node[*StyNode] // we build on top of general purpose tree
	htmlNode            *html.Node

	mu        sync.RWMutex // protects the fields below
	primary   *ruletree.RuleNode
	pseudos   map[ruletree.PseudoElement]*ruletree.RuleNode
	styleAttr *style.DeclarationBlock // parsed style attribute, if any
}

// NewNodeForHTMLNode creates a new styled node linked to an HTML node.
func NewNodeForHTMLNode(h *html.Node) *StyNode {
	sn := &StyNode{htmlNode: h}
	sn.Payload = sn // Payload will always reference the node itself
	return sn
}

// Node gets the styled node from a generic tree node.
func Node(n *tree.Node[*StyNode]) *StyNode {
	if n == nil {
		return nil
	}
	return n.Payload
}

// HTMLNode gets the HTML DOM node corresponding to this styled node.
func (sn *StyNode) HTMLNode() *html.Node {
	return sn.htmlNode
}

func (sn *StyNode) String() string {
	if sn == nil || sn.htmlNode == nil {
		return "<nil>"
	}
	return "<" + sn.htmlNode.Data + ">"
}

// InheritanceParent returns the element sn inherits from.
//
// Interface ruletree.Element
func (sn *StyNode) InheritanceParent() ruletree.Element {
	if parent := Node(sn.Parent()); parent != nil {
		return parent
	}
	return nil
}

// PrimaryRuleNode returns the rule node of the element itself.
//
// Interface ruletree.Element
func (sn *StyNode) PrimaryRuleNode() *ruletree.RuleNode {
	sn.mu.RLock()
	defer sn.mu.RUnlock()
	return sn.primary
}

var _ ruletree.Element = &StyNode{}

// RuleNode returns the rule node for the element (pseudo == PseudoNone) or
// for one of its pseudo-elements. It returns nil if no rules apply to the
// pseudo-element.
func (sn *StyNode) RuleNode(pseudo ruletree.PseudoElement) *ruletree.RuleNode {
	if pseudo == ruletree.PseudoNone {
		return sn.PrimaryRuleNode()
	}
	sn.mu.RLock()
	defer sn.mu.RUnlock()
	return sn.pseudos[pseudo]
}

func (sn *StyNode) setRuleNode(pseudo ruletree.PseudoElement, node *ruletree.RuleNode) {
	sn.mu.Lock()
	defer sn.mu.Unlock()
	if pseudo == ruletree.PseudoNone {
		sn.primary = node
		return
	}
	if node == nil {
		delete(sn.pseudos, pseudo)
		return
	}
	if sn.pseudos == nil {
		sn.pseudos = make(map[ruletree.PseudoElement]*ruletree.RuleNode)
	}
	sn.pseudos[pseudo] = node
}

// StyleAttribute returns the parsed style attribute of the element, or nil.
func (sn *StyNode) StyleAttribute() *style.DeclarationBlock {
	sn.mu.RLock()
	defer sn.mu.RUnlock()
	return sn.styleAttr
}

// Styles collects the declarations in effect for the element, without
// resolving inheritance.
func (sn *StyNode) Styles(guards *style.Guards) *style.PropertyMap {
	if rules := sn.PrimaryRuleNode(); rules != nil {
		return rules.WinningDeclarations(guards)
	}
	return style.NewPropertyMap()
}

// initialStyles is read-only after package initialization.
var initialStyles = style.InitialValues()

// GetPropertyValue returns the property value for a given key.
// If the property is inherited, it may cascade. If no rule provides a value,
// the initial value of the property is returned.
func (sn *StyNode) GetPropertyValue(key string, guards *style.Guards) style.Property {
	p, ok := sn.Styles(guards).Property(key)
	if ok && !p.IsInherit() {
		return p
	}
	// not found in local dicts => cascade, if allowed
	if p.IsInherit() || style.IsCascading(key) {
		tracer().P("key", key).Debugf("styling: cascading for key %s", key)
		for anc := Node(sn.Parent()); anc != nil; anc = Node(anc.Parent()) {
			if p, ok := anc.Styles(guards).Property(key); ok && !p.IsInherit() {
				return p
			}
		}
	}
	p, _ = initialStyles.Property(key)
	return p
}

// HasAuthorSpecifiedRules checks if an author has styled one of the
// property groups in mask for the element or one of its pseudo-elements.
func (sn *StyNode) HasAuthorSpecifiedRules(pseudo ruletree.PseudoElement, guards *style.Guards,
	mask ruletree.AuthorSpecifiedMask, authorColorsAllowed bool) bool {
	//
	rules := sn.RuleNode(pseudo)
	if rules == nil {
		return false
	}
	return rules.HasAuthorSpecifiedRules(sn, pseudo, guards, mask, authorColorsAllowed)
}

// Walk calls f for sn and all of its descendants, parents before children.
func (sn *StyNode) Walk(f func(*StyNode)) {
	f(sn)
	for _, ch := range sn.Children() {
		ch.Payload.Walk(f)
	}
}
