package services

import "sync"

var userLocks sync.Map // map[int64]*sync.Mutex

// LockUser takes the per-user critical section and returns the unlock
// function. Every read-step/apply/persist sequence, finalize, cancel and
// cart sync for one user runs under this lock, whichever surface (bot or
// web API) the event arrived on.
func LockUser(userID int64) func() {
	v, _ := userLocks.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
