package tree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"errors"
)

// ErrInvalidFilter is reported if a pipeline filter step is defunct.
var ErrInvalidFilter = errors.New("filter stage is invalid")

// ErrEmptyTree is reported if a Walker is called with an empty tree. Refer to
// the documentation of NewWalker() for details about this scenario.
var ErrEmptyTree = errors.New("cannot walk empty tree")

// ErrNoMoreFiltersAccepted is reported if a client already called Promise(),
// but tried to re-use a walker with another filter.
var ErrNoMoreFiltersAccepted = errors.New("in promise mode; will not accept new filters; use a new walker")

// Walker holds information for operating on trees: finding nodes and
// doing work on them. Clients usually create a Walker for a (sub-)tree
// to search for a selection of nodes matching certain criteria, and
// then perform some operation on this selection.
//
// A typical usage of a Walker looks like this ("FindNodesAndDoSomething()" is
// a placeholder for a sequence of function calls, see below):
//
//	w := NewWalker(node)
//	futureResult := w.FindNodesAndDoSomething(...).Promise()
//	nodes, err := futureResult()
//
// ATTENTION: Clients must call Promise() as the final link of the
// expression chain, even if they do not expect the expression to
// return a non-empty set of nodes. Operations do not start before
// Promise() is called.
type Walker[T comparable] struct {
	initial   *Node[T]     // initial node of (sub-)tree
	pipe      *pipeline[T] // pipeline of filters to perform work on tree nodes
	workers   int          // number of workers per filter, 0 for default
	promising bool         // client has called Promise()
}

// NewWalker creates a Walker for the initial node of a (sub-)tree.
// The first subsequent call to a node filter function will have this
// initial node as input.
//
// If initial is nil, NewWalker will return a nil-Walker, resulting
// in a NOP-pipeline of operations, resulting in an empty set of nodes
// and an error (ErrEmptyTree).
func NewWalker[T comparable](initial *Node[T]) *Walker[T] {
	if initial == nil {
		return nil
	}
	tracer().Debugf("new tree-walker, initial node = %v", initial)
	return &Walker[T]{initial: initial, pipe: newPipeline[T]()}
}

// WithWorkers sets the number of concurrent workers for every operation.
// n ≤ 0 selects a default depending on the number of CPUs.
func (w *Walker[T]) WithWorkers(n int) *Walker[T] {
	if w != nil {
		w.workers = n
	}
	return w
}

// appendFilterForTask will create a new filter for a task and append
// that filter at the end of the pipeline.
func (w *Walker[T]) appendFilterForTask(task workerTask[T], udata any) *Walker[T] {
	if w.promising {
		tracer().Errorf(ErrNoMoreFiltersAccepted.Error())
		panic(ErrNoMoreFiltersAccepted)
	}
	w.pipe.appendFilter(newFilter(task, udata))
	return w
}

// Promise is a future synchronisation point.
// It starts the operations of the Walker concurrently and returns a
// function (the promise). Calling the promise will block until all
// concurrent operations on the tree nodes have finished and returns the
// resulting set of nodes, in no particular order, together with the last
// error reported by an operation.
func (w *Walker[T]) Promise() func() ([]*Node[T], error) {
	if w == nil { // empty Walker => return nil set and an error
		return func() ([]*Node[T], error) {
			return nil, ErrEmptyTree
		}
	}
	if w.promising {
		panic(ErrNoMoreFiltersAccepted)
	}
	w.promising = true // will block calls to establish new filters
	if len(w.pipe.stages) == 0 {
		return func() ([]*Node[T], error) {
			return []*Node[T]{w.initial}, w.pipe.lastError()
		}
	}
	results := w.pipe.start(w.initial, workerCount(w.workers))
	signal := make(chan struct{})
	var selection []*Node[T]
	go func() {
		defer close(signal)
		selection = waitForCompletion(results, &w.pipe.queuecount)
	}()
	return func() ([]*Node[T], error) {
		<-signal
		return selection, w.pipe.lastError()
	}
}

// ----------------------------------------------------------------------

// Predicate is a function type to match against nodes of a tree.
// Is is used as an argument for various Walker functions to
// collect a selection of nodes.
// test is the node under test, node is the input node.
type Predicate[T comparable] func(test *Node[T], node *Node[T]) (match *Node[T], err error)

// Whatever is a predicate to match anything (see type Predicate).
// It is useful to match the first node in a given direction.
func Whatever[T comparable]() Predicate[T] {
	return func(test *Node[T], node *Node[T]) (*Node[T], error) {
		return test, nil
	}
}

// NodeIsLeaf is a predicate to match leafs of a tree.
func NodeIsLeaf[T comparable]() Predicate[T] {
	return func(test *Node[T], node *Node[T]) (match *Node[T], err error) {
		if test.ChildCount() == 0 {
			return test, nil
		}
		return nil, nil
	}
}

// ----------------------------------------------------------------------

// DescendentsWith finds descendents matching a predicate.
// The search does not include the start node.
//
// If w is nil, DescendentsWith will return nil.
func (w *Walker[T]) DescendentsWith(predicate Predicate[T]) *Walker[T] {
	if w == nil {
		return nil
	}
	if predicate == nil {
		w.pipe.report(ErrInvalidFilter)
		return w
	}
	return w.appendFilterForTask(descendentsWith[T], predicate)
}

func descendentsWith[T comparable](node *Node[T], isBuffered bool, udata userdata, push func(*Node[T]),
	pushBuf func(*Node[T], any)) error {
	//
	if isBuffered {
		predicate := udata.filterdata.(Predicate[T])
		var origin *Node[T]
		if pp, ok := udata.nodelocal.(parentAndPosition[T]); ok {
			origin = pp.origin
		}
		matchedNode, err := predicate(node, origin)
		if err != nil {
			return err // do not descend further
		}
		if matchedNode != nil {
			push(matchedNode) // found one, put on output channel for next pipeline stage
		}
		revisitChildrenOf(node, origin, pushBuf)
		return nil
	}
	revisitChildrenOf(node, node, pushBuf)
	return nil
}

// AllDescendents traverses all descendents.
// The traversal does not include the start node.
// This is just a wrapper around `w.DescendentsWith(Whatever)`.
//
// If w is nil, AllDescendents will return nil.
func (w *Walker[T]) AllDescendents() *Walker[T] {
	return w.DescendentsWith(Whatever[T]())
}

// Filter calls a client-provided function on each node of the selection.
// The user function should return the input node if it is accepted and
// nil otherwise.
//
// If w is nil, Filter will return nil.
func (w *Walker[T]) Filter(f Predicate[T]) *Walker[T] {
	if w == nil {
		return nil
	}
	if f == nil {
		w.pipe.report(ErrInvalidFilter)
		return w
	}
	return w.appendFilterForTask(clientFilter[T], f)
}

func clientFilter[T comparable](node *Node[T], isBuffered bool, udata userdata, push func(*Node[T]),
	pushBuf func(*Node[T], any)) error {
	//
	userfunc := udata.filterdata.(Predicate[T])
	n, err := userfunc(node, node)
	if n != nil && err == nil {
		push(n) // forward filtered node to next pipeline stage
	}
	return err
}

// Action is a function type to operate on tree nodes.
// Resulting nodes will be pushed to the next pipeline stage, if
// no error occured.
type Action[T comparable] func(n *Node[T], parent *Node[T], position int) (*Node[T], error)

// TopDown traverses a tree starting at (and including) the root node.
// The traversal guarantees that parents are always processed before
// their children. Siblings and their subtrees are processed concurrently.
//
// If the action function returns an error for a node,
// descending the branch below this node is aborted.
//
// If w is nil, TopDown will return nil.
func (w *Walker[T]) TopDown(action Action[T]) *Walker[T] {
	if w == nil {
		return nil
	}
	if action == nil {
		w.pipe.report(ErrInvalidFilter)
		return w
	}
	return w.appendFilterForTask(topDown[T], action)
}

// ad-hoc container
type parentAndPosition[T comparable] struct {
	parent   *Node[T]
	position int
	origin   *Node[T] // start node of a traversal
}

func topDown[T comparable](node *Node[T], isBuffered bool, udata userdata, push func(*Node[T]),
	pushBuf func(*Node[T], any)) error {
	//
	if !isBuffered {
		pushBuf(node, nil) // simply move incoming nodes over to buffer queue
		return nil
	}
	action := udata.filterdata.(Action[T])
	var parent *Node[T]
	var position int
	if pp, ok := udata.nodelocal.(parentAndPosition[T]); ok {
		parent, position = pp.parent, pp.position
	}
	result, err := action(node, parent, position)
	if err != nil {
		return err // do not descend further
	}
	if result != nil {
		push(result) // result -> next pipeline stage
	}
	revisitChildrenOf(node, nil, pushBuf) // hand over node as parent
	return nil
}

func revisitChildrenOf[T comparable](node *Node[T], origin *Node[T], pushBuf func(*Node[T], any)) {
	for position, ch := range node.Children() {
		pushBuf(ch, parentAndPosition[T]{parent: node, position: position, origin: origin})
	}
}
