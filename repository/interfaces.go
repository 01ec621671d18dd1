package repository

//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks civictrack/repository IssueRepository,UserRepository

import (
	"context"
	"errors"
	"time"

	"civictrack/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

type IssueRepository interface {
	Create(ctx context.Context, issue *models.Issue) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.Issue, error)
	List(ctx context.Context, filter IssueFilter) ([]models.Issue, error)
	Recent(ctx context.Context, limit int64) ([]models.Issue, error)
	ApplyTransition(ctx context.Context, id primitive.ObjectID, t models.Transition) (*models.Issue, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Stats(ctx context.Context, now time.Time) (*models.IssueStats, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]models.User, error)
}
