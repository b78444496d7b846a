// Package clock schedules the periodic tasks that drive game rooms.
//
// Rooms never read the wall clock directly: they ask a Scheduler to call
// them back at a fixed period. The Ticker scheduler is backed by
// time.Ticker; Manual is advanced by hand so timer-driven behaviour can be
// tested deterministically.
package clock

import (
	"sync"
	"time"
)

// Cancel stops a scheduled task. It is safe to call more than once and from
// inside the task itself.
type Cancel func()

type Scheduler interface {
	// Every calls fn once per period until cancelled.
	Every(period time.Duration, fn func()) Cancel
}

// Ticker runs each task on its own goroutine fed by a time.Ticker.
type Ticker struct{}

func (Ticker) Every(period time.Duration, fn func()) Cancel {
	t := time.NewTicker(period)
	done := make(chan struct{})
	go func() {
		defer t.Stop()
		for {
			select {
			case <-t.C:
				fn()
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}

// Manual is a logical clock. Tasks only run inside Advance, on the caller's
// goroutine, in due-time order.
type Manual struct {
	mu    sync.Mutex
	now   time.Time
	tasks []*task
}

type task struct {
	period time.Duration
	next   time.Time
	fn     func()
}

func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Every(period time.Duration, fn func()) Cancel {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := &task{period: period, next: m.now.Add(period), fn: fn}
	m.tasks = append(m.tasks, t)
	return func() { m.remove(t) }
}

func (m *Manual) remove(t *task) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, other := range m.tasks {
		if other == t {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return
		}
	}
}

// Advance moves the clock forward by d, running every task that falls due.
// Tasks scheduled or cancelled by a running task take effect immediately.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		var due *task
		for _, t := range m.tasks {
			if t.next.After(target) {
				continue
			}
			if due == nil || t.next.Before(due.next) {
				due = t
			}
		}
		if due == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = due.next
		due.next = due.next.Add(due.period)
		m.mu.Unlock()

		due.fn()
	}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending is the number of scheduled tasks that have not been cancelled.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}
