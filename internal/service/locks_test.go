package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskLockerSerializesSameTask(t *testing.T) {
	l := newTaskLocker()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.lock(1)
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestTaskLockerIndependentTasks(t *testing.T) {
	l := newTaskLocker()

	// Holding one task's lock must not block another task's.
	unlock1 := l.lock(1)
	unlock2 := l.lock(2)
	unlock2()
	unlock1()
}

func TestTaskLockerDropsReleasedEntries(t *testing.T) {
	l := newTaskLocker()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		taskID := uint(i % 5)
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.lock(taskID)
			unlock()
		}()
	}
	wg.Wait()

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Empty(t, l.locks, "released entries should not linger")
}
