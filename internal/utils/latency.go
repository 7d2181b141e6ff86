package utils

import (
	"sort"
	"sync"
	"time"
)

// LatencyTracker keeps a sliding window of duration samples in a ring
// buffer and answers percentile queries over the window. Safe for
// concurrent use.
type LatencyTracker struct {
	mu     sync.RWMutex
	window []time.Duration
	next   int
	filled bool
	total  int
}

// NewLatencyTracker creates a tracker whose window holds up to size samples.
func NewLatencyTracker(size int) *LatencyTracker {
	if size <= 0 {
		size = 512
	}
	return &LatencyTracker{window: make([]time.Duration, size)}
}

// Observe records one duration, evicting the oldest sample once the window
// is full.
func (l *LatencyTracker) Observe(d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.window[l.next] = d
	l.next++
	if l.next == len(l.window) {
		l.next = 0
		l.filled = true
	}
	l.total++
}

// Percentile returns the p-th percentile (0-100) over the current window,
// or zero when nothing has been observed.
func (l *LatencyTracker) Percentile(p float64) time.Duration {
	l.mu.RLock()
	samples := l.snapshot()
	l.mu.RUnlock()

	if len(samples) == 0 {
		return 0
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })

	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	index := int((p / 100.0) * float64(len(samples)-1))
	return samples[index]
}

// Count returns the total number of samples ever observed, including those
// already evicted from the window.
func (l *LatencyTracker) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.total
}

// snapshot copies the populated part of the window. Callers must hold the
// lock.
func (l *LatencyTracker) snapshot() []time.Duration {
	if l.filled {
		return append([]time.Duration(nil), l.window...)
	}
	return append([]time.Duration(nil), l.window[:l.next]...)
}
