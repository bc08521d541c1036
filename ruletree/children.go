package ruletree

import (
	"sync"
	"weak"

	"github.com/npillmayer/cascade/dom/style"
)

// childKey identifies a child: at most one child exists per declaration
// block identity and cascade level.
type childKey struct {
	id    style.BlockID
	level CascadeLevel
}

// childSlot is a weak reference to a child, remembering its key for sweeping.
type childSlot struct {
	key childKey
	ref weak.Pointer[RuleNode]
}

// --- Concurrency-safe map of children ---------------------------------

// childrenMap holds the children of a rule node. Lookups take the read
// lock, creation takes the write lock and checks again, so concurrent
// callers asking for the same key will all receive the same child.
type childrenMap struct {
	sync.RWMutex
	index map[childKey]int // position of a key in slots
	slots []childSlot      // children in order of insertion
}

// ensure returns the child for key, creating it with create if there is no
// live child for key. The second return value is true if a child has been
// created.
func (chs *childrenMap) ensure(key childKey, create func() *RuleNode) (*RuleNode, bool) {
	chs.RLock()
	if i, ok := chs.index[key]; ok {
		if child := chs.slots[i].ref.Value(); child != nil {
			chs.RUnlock()
			return child, false
		}
	}
	chs.RUnlock()
	chs.Lock()
	defer chs.Unlock()
	if i, ok := chs.index[key]; ok { // somebody may have been faster
		if child := chs.slots[i].ref.Value(); child != nil {
			return child, false
		}
		child := create() // collected child: re-use its slot
		chs.slots[i].ref = weak.Make(child)
		return child, true
	}
	if chs.index == nil {
		chs.index = make(map[childKey]int)
	}
	child := create()
	chs.index[key] = len(chs.slots)
	chs.slots = append(chs.slots, childSlot{key: key, ref: weak.Make(child)})
	return child, true
}

// live returns the children which have not been collected, in order of insertion.
func (chs *childrenMap) live() []*RuleNode {
	chs.RLock()
	defer chs.RUnlock()
	children := make([]*RuleNode, 0, len(chs.slots))
	for _, slot := range chs.slots {
		if child := slot.ref.Value(); child != nil {
			children = append(children, child)
		}
	}
	return children
}

// sweep removes the slots of collected children and returns the live
// children together with the number of slots removed.
func (chs *childrenMap) sweep() ([]*RuleNode, int) {
	chs.Lock()
	defer chs.Unlock()
	children := make([]*RuleNode, 0, len(chs.slots))
	kept := chs.slots[:0]
	for _, slot := range chs.slots {
		if child := slot.ref.Value(); child != nil {
			children = append(children, child)
			kept = append(kept, slot)
		}
	}
	removed := len(chs.slots) - len(kept)
	if removed == 0 {
		return children, 0
	}
	for i := len(kept); i < len(chs.slots); i++ {
		chs.slots[i] = childSlot{}
	}
	chs.slots = kept
	clear(chs.index)
	for i, slot := range chs.slots {
		chs.index[slot.key] = i
	}
	return children, removed
}
