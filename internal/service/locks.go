package service

import "sync"

// taskLocker serializes recurrence-state mutations per task. The period
// counter and anchor are read-modify-write, so occurrence creation and the
// completion workflow must never interleave for the same task; both go
// through one locker instance. Entries are reference counted and dropped
// when the last holder releases them, so the map stays bounded by the
// number of tasks currently being mutated.
type taskLocker struct {
	mu    sync.Mutex
	locks map[uint]*taskLock
}

type taskLock struct {
	sync.Mutex
	refs int
}

func newTaskLocker() *taskLocker {
	return &taskLocker{locks: make(map[uint]*taskLock)}
}

// lock blocks until the task is free and returns the release function.
// Different tasks proceed independently. Not reentrant.
func (l *taskLocker) lock(taskID uint) func() {
	l.mu.Lock()
	entry, ok := l.locks[taskID]
	if !ok {
		entry = &taskLock{}
		l.locks[taskID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.Lock()
	return func() {
		entry.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, taskID)
		}
		l.mu.Unlock()
	}
}
