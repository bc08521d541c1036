package style

import (
	"errors"
	"fmt"
	"iter"
	"strings"
	"sync/atomic"
)

// ErrNotCompound is returned by SplitCompoundProperty for keys which are not
// shortcut properties.
var ErrNotCompound = errors.New("not recognized as compound property")

// Declaration is a single CSS declaration, e.g.
//
//	padding-top: 3px !important
type Declaration struct {
	Key       string
	Value     Property
	Important bool
}

func (d Declaration) String() string {
	if d.Important {
		return d.Key + ": " + d.Value.String() + " !important"
	}
	return d.Key + ": " + d.Value.String()
}

// BlockID is the identity of a declaration block. Two handles refer to the
// same block if and only if their IDs are equal.
type BlockID uint64

var blockSerial atomic.Uint64

// DeclarationBlock is an immutable list of declarations, as found in the body
// of a style rule or in a style attribute. Declaration blocks are shared
// between the stylesheet, the rule tree and styled nodes. Every block receives
// a unique identity at creation time; a rule tree uses this identity to tell
// the same rule from a rule with an equal body.
//
// Reading the declarations requires a read guard of the stylesheet lock the
// block has been created with (see ReadWith).
type DeclarationBlock struct {
	id           BlockID
	lock         *SharedLock
	decls        []Declaration
	anyImportant bool
	anyNormal    bool
}

// NewDeclarationBlock creates a declaration block, protected by lock.
// lock may be nil for blocks not owned by any stylesheet, which then may be
// read with any guard.
//
// Shortcut properties (see IsCompoundProperty) are split into their longhands.
// If a shortcut cannot be split, it is kept verbatim.
func NewDeclarationBlock(lock *SharedLock, decls ...Declaration) *DeclarationBlock {
	b := &DeclarationBlock{
		id:    BlockID(blockSerial.Add(1)),
		lock:  lock,
		decls: make([]Declaration, 0, len(decls)),
	}
	for _, d := range decls {
		d.Key = strings.ToLower(strings.TrimSpace(d.Key))
		if IsCompoundProperty(d.Key) {
			kvs, err := SplitCompoundProperty(d.Key, d.Value)
			if err == nil {
				for _, kv := range kvs {
					b.append(Declaration{Key: kv.Key, Value: kv.Value, Important: d.Important})
				}
				continue
			}
			tracer().Debugf("keeping shortcut %s: %v", d.Key, err)
		}
		b.append(d)
	}
	return b
}

func (b *DeclarationBlock) append(d Declaration) {
	b.decls = append(b.decls, d)
	if d.Important {
		b.anyImportant = true
	} else {
		b.anyNormal = true
	}
}

// ID returns the identity of the block. Reading the identity does not need a guard.
func (b *DeclarationBlock) ID() BlockID {
	return b.id
}

// Lock returns the stylesheet lock protecting the block, or nil.
func (b *DeclarationBlock) Lock() *SharedLock {
	return b.lock
}

// SameAs is the identity comparison. nil blocks are never identical.
func (b *DeclarationBlock) SameAs(other *DeclarationBlock) bool {
	return b != nil && other != nil && b.id == other.id
}

// Equal compares the declarations of two blocks, not their identity.
func (b *DeclarationBlock) Equal(other *DeclarationBlock) bool {
	if b == nil || other == nil {
		return b == other
	}
	if len(b.decls) != len(other.decls) {
		return false
	}
	for i := range b.decls {
		if b.decls[i] != other.decls[i] {
			return false
		}
	}
	return true
}

func (b *DeclarationBlock) String() string {
	if b == nil {
		return "{}"
	}
	parts := make([]string, len(b.decls))
	for i, d := range b.decls {
		parts[i] = d.String()
	}
	return fmt.Sprintf("#%d{%s}", b.id, strings.Join(parts, "; "))
}

// ReadWith grants read access to the declarations of b. The guard has to be
// taken from the lock b has been created with; a guard from a different lock
// is a programming error and will panic.
func (b *DeclarationBlock) ReadWith(g *ReadGuard) Declarations {
	assertThat(b != nil, "read access to nil declaration block")
	if b.lock != nil {
		assertThat(g != nil, "read access to declaration block #%d without guard", b.id)
		assertThat(g.lock == b.lock, "declaration block #%d read with guard of lock %q, expected %q",
			b.id, g.lock.name, b.lock.name)
		assertThat(!g.released.Load(), "declaration block #%d read with released guard", b.id)
	}
	return Declarations{block: b}
}

// Declarations is a read-only view of a declaration block, obtained by
// DeclarationBlock.ReadWith.
type Declarations struct {
	block *DeclarationBlock
}

// Len returns the number of (longhand) declarations.
func (d Declarations) Len() int {
	return len(d.block.decls)
}

// At returns the i-th declaration.
func (d Declarations) At(i int) Declaration {
	return d.block.decls[i]
}

// AnyImportant is true if at least one declaration is marked !important.
func (d Declarations) AnyImportant() bool {
	return d.block.anyImportant
}

// AnyNormal is true if at least one declaration is not marked !important.
func (d Declarations) AnyNormal() bool {
	return d.block.anyNormal
}

// Get returns the declaration in effect for key within this block:
// an important declaration wins over normal ones, otherwise the last one wins.
func (d Declarations) Get(key string) (Declaration, bool) {
	var found Declaration
	var ok bool
	for _, decl := range d.block.decls {
		if decl.Key != key || (ok && found.Important && !decl.Important) {
			continue
		}
		found, ok = decl, true
	}
	return found, ok
}

// All iterates over the declarations in source order.
func (d Declarations) All() iter.Seq2[int, Declaration] {
	return func(yield func(int, Declaration) bool) {
		for i, decl := range d.block.decls {
			if !yield(i, decl) {
				return
			}
		}
	}
}

// Backward iterates over the declarations from last to first, i.e. in order
// of decreasing precedence within the block.
func (d Declarations) Backward() iter.Seq[Declaration] {
	return func(yield func(Declaration) bool) {
		for i := len(d.block.decls) - 1; i >= 0; i-- {
			if !yield(d.block.decls[i]) {
				return
			}
		}
	}
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("cascade.style: "+msg, msgargs...)
		tracer().Errorf(msg)
		panic(msg)
	}
}
