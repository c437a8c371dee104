package internal

import "time"

// RateWindow tracks the timestamps of recently sent requests, oldest first,
// bounded to a fixed number of entries. Timestamps are monotonically
// nondecreasing except for synthetic entries backfilled at the front, which
// are always older than every real entry.
type RateWindow struct {
	max     int
	entries []time.Time
}

// NewRateWindow returns an empty window bounded to max entries.
func NewRateWindow(max int) *RateWindow {
	if max < 1 {
		max = 1
	}
	return &RateWindow{
		max:     max,
		entries: make([]time.Time, 0, max),
	}
}

// Len returns the number of tracked timestamps.
func (w *RateWindow) Len() int {
	return len(w.entries)
}

// Full reports whether the window has reached its bound.
func (w *RateWindow) Full() bool {
	return len(w.entries) == w.max
}

// Oldest returns the timestamp at the front of the window.
func (w *RateWindow) Oldest() (time.Time, bool) {
	if len(w.entries) == 0 {
		return time.Time{}, false
	}
	return w.entries[0], true
}

// Append records a new request timestamp at the back. If the window is full
// the oldest entry is evicted, so the bound always holds.
func (w *RateWindow) Append(t time.Time) {
	if len(w.entries) == w.max {
		copy(w.entries, w.entries[1:])
		w.entries = w.entries[:len(w.entries)-1]
	}
	w.entries = append(w.entries, t)
}

// Prune evicts every entry strictly older than cutoff. Entries are ordered, so
// only a prefix can be stale.
func (w *RateWindow) Prune(cutoff time.Time) {
	stale := 0
	for stale < len(w.entries) && w.entries[stale].Before(cutoff) {
		stale++
	}
	if stale > 0 {
		w.entries = w.entries[:copy(w.entries, w.entries[stale:])]
	}
}

// Backfill pushes n synthetic entries timestamped t onto the front of the
// window. Synthetic entries are only added while capacity remains: real
// entries are never evicted to make room for bookkeeping.
func (w *RateWindow) Backfill(n int, t time.Time) {
	if free := w.max - len(w.entries); n > free {
		n = free
	}
	if n <= 0 {
		return
	}

	w.entries = append(w.entries, make([]time.Time, n)...)
	copy(w.entries[n:], w.entries[:len(w.entries)-n])
	for i := 0; i < n; i++ {
		w.entries[i] = t
	}
}

// snapshot returns a copy of the tracked timestamps, for tests and logging.
func (w *RateWindow) snapshot() []time.Time {
	out := make([]time.Time, len(w.entries))
	copy(out, w.entries)
	return out
}
