package service

import "sync"

// ownerLocks hands out one mutex per owner. Entries are dropped once no
// goroutine holds or waits on them.
type ownerLocks struct {
	mu    sync.Mutex
	locks map[string]*ownerLock
}

type ownerLock struct {
	sync.Mutex
	refs int
}

func newOwnerLocks() *ownerLocks {
	return &ownerLocks{locks: make(map[string]*ownerLock)}
}

// lock blocks until owner's mutex is held and returns its release func.
func (o *ownerLocks) lock(owner string) func() {
	o.mu.Lock()
	l, ok := o.locks[owner]
	if !ok {
		l = &ownerLock{}
		o.locks[owner] = l
	}
	l.refs++
	o.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		o.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(o.locks, owner)
		}
		o.mu.Unlock()
	}
}
