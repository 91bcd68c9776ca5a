// internal/core/activity/log.go
package activity

import (
	"slices"
	"time"

	"github.com/ammerola/voucher-ledger/internal/core/domain"
)

// Log is an append-only audit trail kept newest first. Entry ids derive from
// the clock in milliseconds and are bumped past the previous id when two
// entries land in the same millisecond.
type Log struct {
	entries []domain.ActivityEntry
	now     func() time.Time
	lastID  int64
}

// Option configures a Log.
type Option func(*Log)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

// New returns an empty log.
func New(opts ...Option) *Log {
	l := &Log{now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Append records a new entry at the head of the log.
func (l *Log) Append(kind domain.ActivityKind, message string) domain.ActivityEntry {
	ts := l.now()
	id := ts.UnixMilli()
	if id <= l.lastID {
		id = l.lastID + 1
	}
	l.lastID = id

	entry := domain.ActivityEntry{
		ID:        id,
		Timestamp: ts.UTC(),
		Kind:      kind,
		Message:   message,
	}
	l.entries = slices.Insert(l.entries, 0, entry)
	return entry
}

// Entries returns a copy of every entry, newest first.
func (l *Log) Entries() []domain.ActivityEntry {
	return slices.Clone(l.entries)
}

// Len returns the number of entries.
func (l *Log) Len() int {
	return len(l.entries)
}

// Restore replaces the log with persisted entries, which are expected newest
// first.
func (l *Log) Restore(entries []domain.ActivityEntry) {
	l.entries = slices.Clone(entries)
	l.lastID = 0
	for _, e := range l.entries {
		l.lastID = max(l.lastID, e.ID)
	}
}
