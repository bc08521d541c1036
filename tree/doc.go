/*
Package tree implements a general purpose tree of mutable nodes, together
with a Walker to operate on (sub-)trees concurrently.

Walkers chain operations, like a small query language:

	nodes, err := tree.NewWalker(root).TopDown(action).Promise()()

Every chained operation is carried out by a pipeline stage with its own
worker goroutines. Calling the promise is the synchronization point.

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package tree

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer will return a tracer. We are tracing to 'cascade.tree'
func tracer() tracing.Trace {
	return tracing.Select("cascade.tree")
}
