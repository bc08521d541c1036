/*
Package ruletree implements the CSS rule tree.

For every styled element, selector matching produces an ordered list of
matching rules, each tagged with a cascade level. The rule tree converts
such a list into a single node of a shared tree: the path from the root to
that node spells out the list. Elements with identical matched rules end
up with the identical node, which makes comparing the cascades of two
elements a pointer comparison and lets computed results be cached per node.

The rule tree has been popularized by Gecko and later by Stylo, the styling
engine of Servo. A good explanation may be found in

	https://hacks.mozilla.org/2017/08/inside-a-super-fast-css-engine-quantum-css-aka-stylo/

# Cascade Levels

Every rule on a path lives at a CascadeLevel. Levels are totally ordered,
and along a path levels never decrease. Rules carrying !important
declarations are moved to the important levels by
InsertOrderedRulesWithImportant, author rules from different shadow trees
being ordered by their shadow cascade order.

# Incremental Updates

Animations, transitions and style attributes change much more often than
the stylesheets do. UpdateRuleAtLevel replaces the rule at one of these
levels while re-using the rest of the path, returning the old path if
nothing changed.

# Concurrency

Style resolution runs on many goroutines at once. All tree operations are
safe for concurrent use: every node protects its children with a lock of
its own, and looking up or creating a child for a given rule and level
yields exactly one child, no matter how many goroutines ask.

# Lifetime

Nodes are kept alive by their users (styled elements) and by their
descendants. A parent only references its children weakly. Nodes which are
no longer referenced are reclaimed by the Go garbage collector; the
remnants in their parents' children maps are swept by GC and MaybeGC.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package ruletree

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'cascade.ruletree'.
func tracer() tracing.Trace {
	return tracing.Select("cascade.ruletree")
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("cascade.ruletree: "+msg, msgargs...)
		tracer().Errorf(msg)
		panic(msg)
	}
}
