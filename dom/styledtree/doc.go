/*
Package styledtree is a straightforward default implementation of a styled document tree.

# Overview

A Styler walks an HTML parse tree, matches the rules of a set of
stylesheets against every element and hands the applicable declarations
over to a rule tree. Every element gets a styled node, which holds the rule
node of the element and, where rules for them exist, of some of its
pseudo-elements. Styled nodes are built on top of tree.Node and are styled
concurrently by a tree.Walker; the rule tree is shared between all workers.

Styled nodes implement ruletree.Element, thus queries like
HasAuthorSpecifiedRules are able to follow 'inherit' to the parent element.

After a document has been styled, style attributes, animation values and
transition values may be changed element by element. The Styler updates
the rule nodes incrementally, without re-running selector matching, as
long as important declarations are not affected.

___________________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package styledtree

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'cascade.dom'.
func tracer() tracing.Trace {
	return tracing.Select("cascade.dom")
}
