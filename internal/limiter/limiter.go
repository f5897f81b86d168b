// Package limiter provides a bounded-concurrency task group.
//
// A Group admits at most N concurrently-running tasks; extra submissions
// queue on the internal semaphore and are released as running tasks finish,
// regardless of how those tasks ended. Wait joins every submission before
// returning ("settle all"): a task that fails or returns early never
// short-circuits its siblings.
//
// The relationship validator uses a Group as the sole throttle against the
// (possibly rate-limited) evidence source.
package limiter

import "sync"

const (
	// DefaultLimit is used when a caller passes a non-positive limit.
	DefaultLimit = 5

	// MinLimit and MaxLimit clamp caller-supplied limits.
	MinLimit = 1
	MaxLimit = 20
)

// Clamp normalizes a requested concurrency limit: non-positive values fall
// back to DefaultLimit, everything else is clamped to [MinLimit, MaxLimit].
func Clamp(n int) int {
	if n <= 0 {
		return DefaultLimit
	}
	if n < MinLimit {
		return MinLimit
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}

// Group runs submitted tasks with bounded concurrency.
//
// Concurrency:
//   - Go may be called from multiple goroutines, but the usual pattern is a
//     single producer submitting all tasks and then calling Wait.
//   - Wait must not be called concurrently with further Go calls.
type Group struct {
	sem chan struct{}
	wg  sync.WaitGroup
}

// NewGroup creates a Group admitting at most Clamp(limit) concurrent tasks.
func NewGroup(limit int) *Group {
	return &Group{sem: make(chan struct{}, Clamp(limit))}
}

// Limit returns the effective concurrency bound.
func (g *Group) Limit() int { return cap(g.sem) }

// Go submits one task. The task starts as soon as a semaphore slot is free;
// until then it is queued. The slot is always returned when the task
// finishes, whatever its outcome.
func (g *Group) Go(task func()) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		g.sem <- struct{}{}
		defer func() { <-g.sem }()
		task()
	}()
}

// Wait blocks until every submitted task has finished.
func (g *Group) Wait() {
	g.wg.Wait()
}
