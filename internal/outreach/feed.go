package outreach

import (
	"sync"
	"time"
)

const (
	maxPending = 50
	// pendingTTL bounds how long a posted comment is shown without the
	// backend listing it. Comments removed upstream disappear after it.
	pendingTTL = 10 * time.Minute
)

type pendingComment struct {
	Comment
	postedAt time.Time
}

// Feed remembers comments posted through this process until the backend
// list includes them, so a cached or lagging read does not hide a comment
// the visitor just posted.
type Feed struct {
	mu      sync.Mutex
	last    []Comment
	pending []pendingComment
	now     func() time.Time
}

// NewFeed constructs an empty Feed.
func NewFeed() *Feed {
	return &Feed{now: time.Now}
}

// Merge records a successful read and returns it with any pending comments
// it does not contain yet, newest first. Expired pending comments are
// dropped.
func (f *Feed) Merge(fetched []Comment) []Comment {
	f.mu.Lock()
	defer f.mu.Unlock()

	seen := make(map[int]struct{}, len(fetched))
	for _, c := range fetched {
		seen[c.ID] = struct{}{}
	}
	cutoff := f.now().Add(-pendingTTL)
	kept := f.pending[:0]
	for _, p := range f.pending {
		if _, ok := seen[p.ID]; ok || p.postedAt.Before(cutoff) {
			continue
		}
		kept = append(kept, p)
	}
	f.pending = kept

	out := make([]Comment, 0, len(f.pending)+len(fetched))
	for _, p := range f.pending {
		out = append(out, p.Comment)
	}
	out = append(out, fetched...)
	f.last = out
	return append([]Comment(nil), out...)
}

// Prepend adds a freshly created comment in front of the last list.
func (f *Feed) Prepend(c Comment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = append([]pendingComment{{Comment: c, postedAt: f.now()}}, f.pending...)
	if len(f.pending) > maxPending {
		f.pending = f.pending[:maxPending]
	}
	f.last = append([]Comment{c}, f.last...)
}

// Last returns a copy of the most recent list.
func (f *Feed) Last() []Comment {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Comment(nil), f.last...)
}
