package cssom

import (
	"github.com/npillmayer/cascade/dom/style"
	"github.com/npillmayer/cascade/ruletree"
)

// StyleSheet is an interface to abstract away a stylesheet-implementation.
// In order to de-couple implementations of CSS-stylesheets from the
// construction of rule nodes, we introduce an interface
// for CSS stylesheets. Clients for the styling engine will have to
// provide a concrete implementation of this interface (e.g., see
// package douceuradapter).
//
// The declaration blocks of a stylesheet are created once and keep their
// identity for the lifetime of the stylesheet. They are protected by the
// stylesheet's lock.
//
// See interface Rule.
type StyleSheet interface {
	Origin() ruletree.Origin // cascade origin of all the rules
	Lock() *style.SharedLock // lock protecting the declaration blocks
	AppendRules(StyleSheet)  // append rules from another stylesheet
	Empty() bool             // does this stylesheet contain any rules?
	Rules() []Rule           // all the rules of a stylesheet
}

// Rule is the type stylesheets consists of.
//
// See interface StyleSheet.
type Rule interface {
	Selector() string                      // the prelude / selectors of the rule
	Declarations() *style.DeclarationBlock // the body of the rule
}

// NormalLevel returns the cascade level for normal declarations of an origin.
// Author rules are assumed to stem from the document tree, i.e. they have a
// shadow cascade order of 0.
func NormalLevel(origin ruletree.Origin) ruletree.CascadeLevel {
	switch origin {
	case ruletree.OriginUserAgent:
		return ruletree.UANormal
	case ruletree.OriginUser:
		return ruletree.UserNormal
	}
	return ruletree.AuthorNormal(0)
}
