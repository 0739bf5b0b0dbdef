package scheduling

import "sync"

// branchLocks serializes scheduling per branch. Scheduling is a
// read-simulate-write over the branch's day ticket list, so at most one
// operation may run per branch at a time. Locking the whole branch is
// stricter than the required per-(branch, day) exclusion, but a rollover
// can cross days mid-operation, so the coarser key is the safe one.
type branchLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newBranchLocks() *branchLocks {
	return &branchLocks{locks: make(map[int64]*sync.Mutex)}
}

func (b *branchLocks) lock(branchID int64) func() {
	b.mu.Lock()
	l, ok := b.locks[branchID]
	if !ok {
		l = &sync.Mutex{}
		b.locks[branchID] = l
	}
	b.mu.Unlock()

	l.Lock()
	return l.Unlock
}
