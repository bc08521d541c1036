/*
Package cssom provides the glue between stylesheets and the rule tree.

# Overview

CSSOM is the "CSS Object Model", similar to the DOM for HTML.
CSS handling is de-coupled by introducing interfaces StyleSheet and Rule.
Concrete implementations may be found in sub-packages (e.g., package
douceuradapter).

Selector matching is delegated to the great work of
https://godoc.org/github.com/andybalholm/cascadia. A Matcher compiles the
selectors of a set of stylesheets once and, for every element (or one of its
pseudo-elements), produces the list of applicable declarations in normal
cascade order: by cascade origin, then by specificity, then by source
order. This list is what package ruletree consumes to compute rule nodes.

A good explanation of styling may be found in

	https://hacks.mozilla.org/2017/08/inside-a-super-fast-css-engine-quantum-css-aka-stylo/

___________________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package cssom

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'cascade.cssom'.
func tracer() tracing.Trace {
	return tracing.Select("cascade.cssom")
}
