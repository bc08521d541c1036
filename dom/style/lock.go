package style

import (
	"sync"
	"sync/atomic"
)

// SharedLock protects the rules of a group of stylesheets. Style resolution
// workers hold read guards while reading declaration blocks; CSSOM mutations
// need the write guard.
//
// Stylesheets of the user-agent and user origins usually share one lock,
// author stylesheets another.
type SharedLock struct {
	mu   sync.RWMutex
	name string
}

// NewSharedLock creates a lock. The name is used for diagnostics only.
func NewSharedLock(name string) *SharedLock {
	return &SharedLock{name: name}
}

// Name returns the diagnostic name of the lock.
func (l *SharedLock) Name() string {
	return l.name
}

// Read acquires a read guard. Clients must call Release on the guard when done.
func (l *SharedLock) Read() *ReadGuard {
	l.mu.RLock()
	return &ReadGuard{lock: l}
}

// Write acquires a write guard. Clients must call Release on the guard when done.
func (l *SharedLock) Write() *WriteGuard {
	l.mu.Lock()
	return &WriteGuard{lock: l}
}

// ReadGuard is a capability to read declaration blocks protected by a
// SharedLock.
type ReadGuard struct {
	lock     *SharedLock
	released atomic.Bool
}

// Release gives up the read lock. Releasing twice is a no-op.
func (g *ReadGuard) Release() {
	if g.released.CompareAndSwap(false, true) {
		g.lock.mu.RUnlock()
	}
}

// Lock returns the lock this guard belongs to.
func (g *ReadGuard) Lock() *SharedLock {
	return g.lock
}

// WriteGuard is an exclusive capability to mutate stylesheets protected by
// a SharedLock.
type WriteGuard struct {
	lock     *SharedLock
	released atomic.Bool
}

// Release gives up the write lock. Releasing twice is a no-op.
func (g *WriteGuard) Release() {
	if g.released.CompareAndSwap(false, true) {
		g.lock.mu.Unlock()
	}
}

// Lock returns the lock this guard belongs to.
func (g *WriteGuard) Lock() *SharedLock {
	return g.lock
}

// Guards bundles the read guards needed to read declaration blocks of all
// cascade origins: one for author-origin data (author stylesheets, style
// attributes, animations), one for user-agent and user stylesheets.
type Guards struct {
	Author   *ReadGuard
	UAOrUser *ReadGuard
}

// SameGuards returns a Guards value using one guard for both origin groups.
// This is the common setup if all stylesheets share a single lock.
func SameGuards(g *ReadGuard) *Guards {
	return &Guards{Author: g, UAOrUser: g}
}

// Release releases both guards.
func (gs *Guards) Release() {
	if gs == nil {
		return
	}
	if gs.Author != nil {
		gs.Author.Release()
	}
	if gs.UAOrUser != nil && gs.UAOrUser != gs.Author {
		gs.UAOrUser.Release()
	}
}
