package wgui

import "time"

// Tasks counts outstanding asynchronous work and hands completions back to
// the scheduler goroutine.
//
// Go, Drain, Wait and Pending must be called from the scheduler goroutine.
// Only the work functions run elsewhere; their results are applied on the
// scheduler goroutine so renderer and hook state never need locks.
type Tasks struct {
	pending int
	done    chan func()
	wake    func()
}

// NewTasks creates a task tracker. wake, if not nil, is called from the worker
// goroutine after a completion is queued so a blocked event wait returns.
func NewTasks(wake func()) *Tasks {
	return &Tasks{done: make(chan func(), 64), wake: wake}
}

// Go runs work on a new goroutine. The function it returns is applied by a
// later Drain or Wait on the scheduler goroutine, after which the task counts
// as finished. A nil apply function finishes the task without further action.
func (t *Tasks) Go(name string, work func() (apply func())) {
	t.pending++
	Logger().Debug("task started", "task", name, "pending", t.pending)
	go func() {
		apply := work()
		t.done <- func() {
			if apply != nil {
				apply()
			}
			t.pending--
			Logger().Debug("task finished", "task", name, "pending", t.pending)
		}
		if t.wake != nil {
			t.wake()
		}
	}()
}

// Pending returns the number of tasks that have not been applied yet.
func (t *Tasks) Pending() int { return t.pending }

// Drain applies every completion that is ready without blocking and returns
// how many were applied.
func (t *Tasks) Drain() int {
	n := 0
	for {
		select {
		case fn := <-t.done:
			fn()
			n++
		default:
			return n
		}
	}
}

// Wait blocks up to d for one completion, applies it together with any others
// that are ready, and returns how many were applied.
func (t *Tasks) Wait(d time.Duration) int {
	if t.pending == 0 {
		return 0
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case fn := <-t.done:
		fn()
		return 1 + t.Drain()
	case <-timer.C:
		return 0
	}
}
