package service

import (
	"context"
	"time"

	"github.com/sandeepkv93/codereview-portal/internal/domain"
	"github.com/sandeepkv93/codereview-portal/internal/repository"
	"github.com/sandeepkv93/codereview-portal/internal/security"
)

//go:generate mockgen -source=interfaces.go -destination=gomock/interfaces_mock.go -package=gomock
//go:generate mockgen -source=oauth_provider.go -destination=gomock/oauth_provider_mock.go -package=gomock
//go:generate mockgen -source=contact_notifier.go -destination=gomock/contact_notifier_mock.go -package=gomock
//go:generate mockgen -source=contact_archive.go -destination=gomock/contact_archive_mock.go -package=gomock

type IdentityServiceInterface interface {
	ProviderName() string
	LoginURL(state string) string
	CompleteGoogleSignIn(ctx context.Context, code string) (*SignInResult, error)
	IssueSession(claims security.SessionClaims) (string, time.Time, error)
	ParseSession(token string) (*security.SessionClaims, error)
	Refresh(ctx context.Context, claims security.SessionClaims) (security.SessionClaims, bool)
	SessionView(claims security.SessionClaims, expires time.Time) SessionView
}

type ActivityServiceInterface interface {
	ListRecent(ctx context.Context, email string, limit int) (*ActivityList, error)
	Record(ctx context.Context, email string, in ActivityInput) (*ActivityView, error)
}

type ContactServiceInterface interface {
	Submit(ctx context.Context, in ContactInput) (*domain.Contact, error)
}

type AdminContactServiceInterface interface {
	List(ctx context.Context, status string, page repository.PageRequest) (repository.PageResult[domain.Contact], error)
	UpdateStatus(ctx context.Context, id, status string) (*domain.Contact, error)
}

var (
	_ IdentityServiceInterface     = (*IdentityService)(nil)
	_ ActivityServiceInterface     = (*ActivityService)(nil)
	_ ContactServiceInterface      = (*ContactService)(nil)
	_ AdminContactServiceInterface = (*AdminContactService)(nil)
)
