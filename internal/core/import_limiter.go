package core

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// DefaultMaxConcurrentImports is the default limit for parallel batches.
	DefaultMaxConcurrentImports = 5

	// DefaultMaxWaitTime is how long Acquire waits for a slot before rejecting.
	DefaultMaxWaitTime = 30 * time.Second
)

// ImportLimiter bounds the number of batches that run at once. Each running
// batch holds one database transaction, so the limit also bounds the
// connections imports can take from the pool.
type ImportLimiter struct {
	slots   chan struct{}
	maxWait time.Duration
	active  atomic.Int64

	// onChange receives the active count after every acquire and release.
	onChange func(active int)
}

// NewImportLimiter returns a limiter allowing maxConcurrent batches. Callers
// that cannot get a slot within maxWait receive ErrTooManyImports.
func NewImportLimiter(maxConcurrent int, maxWait time.Duration) *ImportLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentImports
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}
	return &ImportLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// OnChange registers fn to observe the active count. Not safe to call once
// the limiter is in use.
func (l *ImportLimiter) OnChange(fn func(active int)) {
	l.onChange = fn
}

// Acquire waits for a slot. The returned release func must be called exactly
// once when the batch finishes; extra calls are ignored.
func (l *ImportLimiter) Acquire(ctx context.Context) (release func(), err error) {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, ErrTooManyImports
	}

	l.notify(l.active.Add(1))

	var once sync.Once
	return func() {
		once.Do(func() {
			l.notify(l.active.Add(-1))
			<-l.slots
		})
	}, nil
}

func (l *ImportLimiter) notify(active int64) {
	if l.onChange != nil {
		l.onChange(int(active))
	}
}

// Active returns the number of running batches.
func (l *ImportLimiter) Active() int {
	return int(l.active.Load())
}

// MaxConcurrent returns the configured limit.
func (l *ImportLimiter) MaxConcurrent() int {
	return cap(l.slots)
}

// Available returns the number of free slots.
func (l *ImportLimiter) Available() int {
	return cap(l.slots) - len(l.slots)
}

// WaitForDrain blocks until no batch is running or ctx is done. Used during
// shutdown so open transactions can commit before the pool closes.
func (l *ImportLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.Active() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// LimiterStatus is a snapshot of the limiter for the health endpoint.
type LimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"maxConcurrent"`
}

// Status returns the current limiter state.
func (l *ImportLimiter) Status() LimiterStatus {
	return LimiterStatus{
		Active:        l.Active(),
		Available:     l.Available(),
		MaxConcurrent: l.MaxConcurrent(),
	}
}
