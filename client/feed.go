package client

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// ErrStale is returned for a response overtaken by a newer request or by a
// change of session while it was in flight.
var ErrStale = errors.New("stale response")

// FetchFunc loads issues for a filter.
type FetchFunc func(ctx context.Context, f Filter) ([]Issue, error)

// Feed sequences listing requests. Each Refresh supersedes the one before
// it: the older request is cancelled and its response, if any, discarded.
type Feed struct {
	fetch FetchFunc

	mu      sync.Mutex
	gen     uint64
	applied uint64
	cancel  context.CancelFunc
	issues  []Issue
}

func NewFeed(fetch FetchFunc) *Feed {
	return &Feed{fetch: fetch}
}

func (f *Feed) Refresh(ctx context.Context, filter Filter) ([]Issue, error) {
	f.mu.Lock()
	f.gen++
	gen := f.gen
	if f.cancel != nil {
		f.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.mu.Unlock()
	defer cancel()

	issues, err := f.fetch(ctx, filter)

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		return nil, ErrStale
	}
	f.cancel = nil
	if err != nil {
		return nil, err
	}
	f.issues = issues
	f.applied = gen
	return f.snapshot(), nil
}

// Generation is the number of the latest refresh issued.
func (f *Feed) Generation() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gen
}

// Applied is the generation whose result Issues returns.
func (f *Feed) Applied() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.applied
}

func (f *Feed) Issues() []Issue {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot()
}

func (f *Feed) Find(id string) (Issue, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, issue := range f.issues {
		if issue.ID == id {
			return issue, true
		}
	}
	return Issue{}, false
}

// Remove drops an issue from the current result without refetching.
func (f *Feed) Remove(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, issue := range f.issues {
		if issue.ID == id {
			f.issues = append(f.issues[:i:i], f.issues[i+1:]...)
			return true
		}
	}
	return false
}

// Replace swaps in an updated copy of an issue already in the result.
func (f *Feed) Replace(updated Issue) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, issue := range f.issues {
		if issue.ID == updated.ID {
			f.issues[i] = updated
			return true
		}
	}
	return false
}

func (f *Feed) snapshot() []Issue {
	out := make([]Issue, len(f.issues))
	copy(out, f.issues)
	return out
}
