package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sandeepkv93/codereview-portal/internal/database"
	"github.com/sandeepkv93/codereview-portal/internal/domain"
	"github.com/sandeepkv93/codereview-portal/internal/observability"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrContactNotFound     = errors.New("contact not found")
	ErrContactStateChanged = errors.New("contact status changed concurrently")
	ErrInvalidID           = errors.New("invalid id")
)

//go:generate mockgen -source=repository.go -destination=gomock/repository_mock.go -package=gomock

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// UpsertByEmail inserts a user with role "user" when the email is new and
	// otherwise only refreshes name and image. created reports which happened.
	UpsertByEmail(ctx context.Context, profile domain.UserProfile) (user *domain.User, created bool, err error)
	SetRole(ctx context.Context, email, role string) (*domain.User, error)
	List(ctx context.Context, req PageRequest) (PageResult[domain.User], error)
}

type ActivityRepository interface {
	Create(ctx context.Context, activity *domain.Activity) error
	// ListRecentByUser returns at most limit activities, newest first.
	ListRecentByUser(ctx context.Context, userID string, limit int) ([]domain.Activity, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
}

type ContactFilter struct {
	Status domain.ContactStatus
	Page   PageRequest
}

type ContactRepository interface {
	Create(ctx context.Context, contact *domain.Contact) error
	FindByID(ctx context.Context, id string) (*domain.Contact, error)
	List(ctx context.Context, filter ContactFilter) (PageResult[domain.Contact], error)
	// UpdateStatus moves a contact from one status to another. It fails with
	// ErrContactStateChanged when the stored status is no longer from.
	UpdateStatus(ctx context.Context, id string, from, to domain.ContactStatus) error
	// ListSince returns contacts created at or after since, oldest first.
	ListSince(ctx context.Context, since time.Time) ([]domain.Contact, error)
}

// Stores bundles one backend's repositories.
type Stores struct {
	Users      UserRepository
	Activities ActivityRepository
	Contacts   ContactRepository
}

// NewStores returns the repositories for whichever backend is open.
func NewStores(b *database.Backend) Stores {
	if b.Mongo != nil {
		return NewMongoStores(b.Mongo)
	}
	return NewGormStores(b.SQL)
}

// now is the write timestamp for every backend. Millisecond precision matches
// what the document store keeps, so reads return what was written.
func now() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }

func observe(ctx context.Context, repo, op string, err error) {
	outcome := "success"
	switch {
	case err == nil:
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrContactNotFound):
		outcome = "not_found"
	default:
		outcome = "error"
	}
	observability.RecordRepositoryOperation(ctx, repo, op, outcome)
}
