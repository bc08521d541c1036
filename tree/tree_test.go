package tree

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTree creates a tree with fanout children per node, down to depth.
func buildTree(fanout, depth int) (*Node[string], int) {
	root := NewNode("n")
	count := 1
	var grow func(n *Node[string], d int)
	grow = func(n *Node[string], d int) {
		if d == depth {
			return
		}
		for i := range fanout {
			ch := NewNode(fmt.Sprintf("%s.%d", n.Payload, i))
			n.AddChild(ch)
			count++
			grow(ch, d+1)
		}
	}
	grow(root, 0)
	return root, count
}

func TestNodeChildren(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cascade.tree")
	defer teardown()
	//
	root := NewNode("root")
	a, b := NewNode("a"), NewNode("b")
	assert.Same(t, root, root.AddChild(a).AddChild(b))
	assert.Equal(t, 2, root.ChildCount())
	assert.Same(t, root, b.Parent())
	assert.Nil(t, root.Parent())
	ch, ok := root.Child(1)
	require.True(t, ok)
	assert.Same(t, b, ch)
	_, ok = root.Child(2)
	assert.False(t, ok)
	_, ok = root.Child(-1)
	assert.False(t, ok)
	children := root.Children()
	children[0] = nil
	assert.Same(t, a, root.Children()[0], "Children returns a copy")
	assert.Equal(t, "(Node #ch=2 root)", root.String())
}

func TestTopDownVisitsParentsFirst(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cascade.tree")
	defer teardown()
	//
	root, count := buildTree(3, 4)
	var mx sync.Mutex
	visited := make(map[*Node[string]]bool)
	action := func(n *Node[string], parent *Node[string], position int) (*Node[string], error) {
		mx.Lock()
		defer mx.Unlock()
		if n != root {
			if !visited[parent] || n.Parent() != parent {
				return nil, fmt.Errorf("node %s visited before its parent", n.Payload)
			}
			if ch, _ := parent.Child(position); ch != n {
				return nil, fmt.Errorf("node %s has wrong position %d", n.Payload, position)
			}
		}
		visited[n] = true
		return n, nil
	}
	for _, workers := range []int{0, 1, 7} {
		clear(visited)
		nodes, err := NewWalker(root).WithWorkers(workers).TopDown(action).Promise()()
		require.NoError(t, err)
		assert.Len(t, nodes, count)
		assert.Len(t, visited, count)
	}
}

func TestTopDownErrorStopsDescent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cascade.tree")
	defer teardown()
	//
	root, _ := buildTree(2, 3)
	errStop := errors.New("stop")
	var mx sync.Mutex
	var seen []string
	action := func(n *Node[string], parent *Node[string], position int) (*Node[string], error) {
		mx.Lock()
		seen = append(seen, n.Payload)
		mx.Unlock()
		if n.Payload == "n.0" {
			return nil, errStop
		}
		return nil, nil
	}
	nodes, err := NewWalker(root).TopDown(action).Promise()()
	assert.ErrorIs(t, err, errStop)
	assert.Empty(t, nodes)
	assert.Contains(t, seen, "n.1.1.1")
	assert.NotContains(t, seen, "n.0.0")
	assert.Len(t, seen, 1+2+2+4)
}

func TestDescendentsAndFilter(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cascade.tree")
	defer teardown()
	//
	root, count := buildTree(3, 2)
	all, err := NewWalker(root).AllDescendents().Promise()()
	require.NoError(t, err)
	assert.Len(t, all, count-1)
	assert.NotContains(t, all, root)
	leafs, err := NewWalker(root).DescendentsWith(NodeIsLeaf[string]()).Promise()()
	require.NoError(t, err)
	assert.Len(t, leafs, 9)
	onlyFirst := func(test *Node[string], node *Node[string]) (*Node[string], error) {
		if p := test.Parent(); p != nil && p.Children()[0] == test {
			return test, nil
		}
		return nil, nil
	}
	firsts, err := NewWalker(root).AllDescendents().Filter(onlyFirst).Promise()()
	require.NoError(t, err)
	assert.Len(t, firsts, 1+3)
}

func TestWalkerMisuse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cascade.tree")
	defer teardown()
	//
	nodes, err := NewWalker[string](nil).TopDown(nil).AllDescendents().Promise()()
	assert.ErrorIs(t, err, ErrEmptyTree)
	assert.Nil(t, nodes)
	root := NewNode("root")
	nodes, err = NewWalker(root).TopDown(nil).Promise()()
	assert.ErrorIs(t, err, ErrInvalidFilter)
	assert.Equal(t, []*Node[string]{root}, nodes)
	w := NewWalker(root).AllDescendents()
	_, err = w.Promise()()
	assert.NoError(t, err)
	assert.Panics(t, func() { w.Filter(Whatever[string]()) })
}
