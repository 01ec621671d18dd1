// Package memory holds in-process implementations of the repositories, used
// by tests and by the "memory" store driver for local development.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"civictrack/models"
	"civictrack/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type IssueRepo struct {
	mu     sync.RWMutex
	issues map[primitive.ObjectID]models.Issue
}

func NewIssueRepo() *IssueRepo {
	return &IssueRepo{issues: map[primitive.ObjectID]models.Issue{}}
}

func (r *IssueRepo) Create(_ context.Context, issue *models.Issue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if issue.ID.IsZero() {
		issue.ID = primitive.NewObjectID()
	}
	r.issues[issue.ID] = *issue
	return nil
}

func (r *IssueRepo) Get(_ context.Context, id primitive.ObjectID) (*models.Issue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	issue, ok := r.issues[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &issue, nil
}

func (r *IssueRepo) List(_ context.Context, f repository.IssueFilter) ([]models.Issue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := []models.Issue{}
	for _, issue := range r.issues {
		if f.Status != "" && issue.Status != f.Status {
			continue
		}
		if f.Category != "" && issue.Category != f.Category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(issue.Title), search) {
			continue
		}
		if f.CreatedBy != nil && issue.CreatedBy != *f.CreatedBy {
			continue
		}
		out = append(out, issue)
	}
	sortByCreation(out, repository.NormalizeSort(f.Sort) == repository.SortOldest)
	return out, nil
}

func (r *IssueRepo) Recent(ctx context.Context, limit int64) ([]models.Issue, error) {
	issues, _ := r.List(ctx, repository.IssueFilter{})
	if int64(len(issues)) > limit {
		issues = issues[:limit]
	}
	return issues, nil
}

func (r *IssueRepo) ApplyTransition(_ context.Context, id primitive.ObjectID, t models.Transition) (*models.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	issue, ok := r.issues[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	issue = issue.Apply(t, time.Now().UTC())
	r.issues[id] = issue
	return &issue, nil
}

func (r *IssueRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.issues[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.issues, id)
	return nil
}

func (r *IssueRepo) Stats(_ context.Context, now time.Time) (*models.IssueStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	start := repository.StatsWindowStart(now)
	stats := &models.IssueStats{
		Total:    int64(len(r.issues)),
		ByStatus: map[models.IssueStatus]int64{},
	}
	byCategory := map[models.IssueCategory]int64{}
	byDay := map[string]int64{}
	for _, issue := range r.issues {
		stats.ByStatus[issue.Status]++
		byCategory[issue.Category]++
		if !issue.CreatedAt.Before(start) {
			byDay[issue.CreatedAt.UTC().Format("2006-01-02")]++
		}
	}
	stats.Open = stats.ByStatus[models.Pending] + stats.ByStatus[models.InProgress]

	stats.ByCategory = []models.CategoryCount{}
	for c, n := range byCategory {
		stats.ByCategory = append(stats.ByCategory, models.CategoryCount{Name: string(c), Value: n})
	}
	sort.Slice(stats.ByCategory, func(i, j int) bool {
		if stats.ByCategory[i].Value != stats.ByCategory[j].Value {
			return stats.ByCategory[i].Value > stats.ByCategory[j].Value
		}
		return stats.ByCategory[i].Name < stats.ByCategory[j].Name
	})

	days := make([]models.DayCount, 0, len(byDay))
	for d, n := range byDay {
		days = append(days, models.DayCount{Date: d, Count: n})
	}
	stats.Last7Days = repository.FillDays(start, days)
	return stats, nil
}

func sortByCreation(issues []models.Issue, ascending bool) {
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i].CreatedAt, issues[j].CreatedAt
		if a.Equal(b) {
			// ObjectIDs grow with creation time, so they break ties in insertion order.
			if ascending {
				return issues[i].ID.Hex() < issues[j].ID.Hex()
			}
			return issues[i].ID.Hex() > issues[j].ID.Hex()
		}
		if ascending {
			return a.Before(b)
		}
		return a.After(b)
	})
}

type UserRepo struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]models.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: map[primitive.ObjectID]models.User{}}
}

func (r *UserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	for _, u := range r.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[primitive.ObjectID]models.User, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (r *UserRepo) ListByRole(_ context.Context, role models.Role) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.User{}
	for _, u := range r.users {
		if role == "" || u.Role == role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

var (
	_ repository.IssueRepository = (*IssueRepo)(nil)
	_ repository.UserRepository  = (*UserRepo)(nil)
)
