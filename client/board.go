package client

import (
	"context"
	"sync"

	"civictrack/models"

	"github.com/pkg/errors"
)

var (
	ErrNotEditing   = errors.New("no issue is being edited")
	ErrUnknownIssue = errors.New("issue is not on the board")
)

// IssueAdmin performs the admin-only issue mutations.
type IssueAdmin interface {
	TransitionIssue(ctx context.Context, id string, t Transition) (Issue, error)
	DeleteIssue(ctx context.Context, id string) error
}

// Board is the admin issue table: a filtered feed plus at most one open
// edit.
type Board struct {
	admin IssueAdmin
	feed  *Feed

	mu      sync.Mutex
	editing string
	editGen uint64
	pending Transition
}

func NewBoard(admin IssueAdmin, feed *Feed) *Board {
	return &Board{admin: admin, feed: feed}
}

func (b *Board) Load(ctx context.Context, f Filter) ([]Issue, error) {
	return b.feed.Refresh(ctx, f)
}

func (b *Board) Issues() []Issue { return b.feed.Issues() }

// StartEdit opens an edit seeded from the issue's current values, so
// fields the admin leaves alone are saved unchanged.
func (b *Board) StartEdit(id string) error {
	issue, ok := b.feed.Find(id)
	if !ok {
		return ErrUnknownIssue
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.editing = id
	b.editGen++
	b.pending = TransitionFrom(issue)
	return nil
}

// Edit returns the open edit, if any.
func (b *Board) Edit() (id string, t Transition, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.editing, b.pending, b.editing != ""
}

func (b *Board) SetStatus(s models.IssueStatus) error {
	if !s.Valid() {
		return errors.Errorf("invalid status %q", s)
	}
	return b.update(func(t *Transition) { t.Status = s })
}

func (b *Board) SetNotes(notes string) error {
	return b.update(func(t *Transition) { t.ResolutionNotes = notes })
}

// SetAssignee sets the admin user id; "" unassigns.
func (b *Board) SetAssignee(userID string) error {
	return b.update(func(t *Transition) { t.AssignedTo = userID })
}

func (b *Board) update(fn func(*Transition)) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.editing == "" {
		return ErrNotEditing
	}
	fn(&b.pending)
	return nil
}

// Save sends the open edit as one request. On failure the edit stays open
// with its pending values. An edit reopened while the request was in
// flight is left alone.
func (b *Board) Save(ctx context.Context) (Issue, error) {
	b.mu.Lock()
	id, gen, t := b.editing, b.editGen, b.pending
	b.mu.Unlock()
	if id == "" {
		return Issue{}, ErrNotEditing
	}

	updated, err := b.admin.TransitionIssue(ctx, id, t)
	if err != nil {
		return Issue{}, err
	}

	b.feed.Replace(updated)
	b.mu.Lock()
	if b.editGen == gen {
		b.editing = ""
		b.pending = Transition{}
	}
	b.mu.Unlock()
	return updated, nil
}

func (b *Board) Cancel() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.editing = ""
	b.pending = Transition{}
}

// Delete removes an issue once confirm approves. Without approval no
// request is made. It reports whether the issue was deleted.
func (b *Board) Delete(ctx context.Context, id string, confirm func() bool) (bool, error) {
	if confirm == nil || !confirm() {
		return false, nil
	}
	if err := b.admin.DeleteIssue(ctx, id); err != nil {
		return false, err
	}
	b.feed.Remove(id)
	b.mu.Lock()
	if b.editing == id {
		b.editing = ""
		b.pending = Transition{}
	}
	b.mu.Unlock()
	return true, nil
}
