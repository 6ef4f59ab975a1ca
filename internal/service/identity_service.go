package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sandeepkv93/codereview-portal/internal/domain"
	"github.com/sandeepkv93/codereview-portal/internal/observability"
	"github.com/sandeepkv93/codereview-portal/internal/repository"
	"github.com/sandeepkv93/codereview-portal/internal/security"
)

var (
	ErrSignInRejected = errors.New("sign-in rejected")
	ErrInvalidRole    = errors.New("invalid role")
)

// SessionUser is the user block of the session payload.
type SessionUser struct {
	ID    string `json:"id,omitempty"`
	Role  string `json:"role,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
	Image string `json:"image,omitempty"`
}

type SessionView struct {
	User    SessionUser `json:"user"`
	Expires string      `json:"expires"`
}

type SignInResult struct {
	User    *domain.User
	Token   string
	Expires time.Time
}

type IdentityService struct {
	users    repository.UserRepository
	provider OAuthProvider
	tokens   *security.SessionTokenManager
	roles    *RoleResolver
	logger   *slog.Logger
}

func NewIdentityService(
	users repository.UserRepository,
	provider OAuthProvider,
	tokens *security.SessionTokenManager,
	roles *RoleResolver,
	logger *slog.Logger,
) *IdentityService {
	if logger == nil {
		logger = slog.Default()
	}
	return &IdentityService{users: users, provider: provider, tokens: tokens, roles: roles, logger: logger}
}

func (s *IdentityService) ProviderName() string { return s.provider.Name() }

func (s *IdentityService) LoginURL(state string) string {
	return s.provider.AuthCodeURL(state)
}

// SignIn upserts the user keyed by email. Any storage failure rejects the
// sign-in so no session is issued for an unknown record.
func (s *IdentityService) SignIn(ctx context.Context, profile domain.UserProfile) (*domain.User, error) {
	profile = profile.Normalized()
	if profile.Email == "" {
		observability.RecordAuthSignIn(ctx, s.provider.Name(), "rejected")
		return nil, fmt.Errorf("%w: missing email", ErrSignInRejected)
	}
	user, created, err := s.users.UpsertByEmail(ctx, profile)
	if err != nil {
		observability.RecordAuthSignIn(ctx, s.provider.Name(), "error")
		s.logger.ErrorContext(ctx, "sign-in user upsert failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrSignInRejected, err)
	}
	if created {
		s.logger.InfoContext(ctx, "user created", "user_id", user.ID, "email", user.Email)
	} else {
		s.logger.InfoContext(ctx, "user updated", "user_id", user.ID, "email", user.Email)
	}
	s.roles.Invalidate(ctx, user.Email)
	observability.RecordAuthSignIn(ctx, s.provider.Name(), "success")
	return user, nil
}

func (s *IdentityService) CompleteGoogleSignIn(ctx context.Context, code string) (*SignInResult, error) {
	start := time.Now()
	token, err := s.provider.Exchange(ctx, code)
	if err != nil {
		observability.RecordGoogleOAuthRequestDuration(ctx, "exchange", "error", time.Since(start))
		observability.RecordAuthSignIn(ctx, s.provider.Name(), "exchange_failed")
		return nil, fmt.Errorf("%w: exchange: %v", ErrSignInRejected, err)
	}
	observability.RecordGoogleOAuthRequestDuration(ctx, "exchange", "success", time.Since(start))

	start = time.Now()
	info, err := s.provider.FetchUserInfo(ctx, token)
	if err != nil {
		observability.RecordGoogleOAuthRequestDuration(ctx, "userinfo", "error", time.Since(start))
		observability.RecordAuthSignIn(ctx, s.provider.Name(), "userinfo_failed")
		return nil, fmt.Errorf("%w: userinfo: %v", ErrSignInRejected, err)
	}
	observability.RecordGoogleOAuthRequestDuration(ctx, "userinfo", "success", time.Since(start))

	user, err := s.SignIn(ctx, domain.UserProfile{Email: info.Email, Name: info.Name, Image: info.Picture})
	if err != nil {
		return nil, err
	}
	signed, expires, err := s.IssueSession(security.SessionClaims{
		Email:   user.Email,
		Name:    user.Name,
		Picture: user.Image,
		UserID:  user.ID,
		Role:    user.Role,
	})
	if err != nil {
		return nil, err
	}
	return &SignInResult{User: user, Token: signed, Expires: expires}, nil
}

func (s *IdentityService) IssueSession(claims security.SessionClaims) (string, time.Time, error) {
	return s.tokens.Sign(claims)
}

func (s *IdentityService) ParseSession(token string) (*security.SessionClaims, error) {
	return s.tokens.Parse(token)
}

// Refresh merges the stored role and id into claims. A lookup failure keeps
// the previous values; the session stays usable with possibly stale data.
func (s *IdentityService) Refresh(ctx context.Context, claims security.SessionClaims) (security.SessionClaims, bool) {
	if claims.Email == "" {
		return claims, false
	}
	id, err := s.roles.Resolve(ctx, claims.Email)
	if err != nil {
		outcome := "error"
		if IsUserNotFound(err) {
			outcome = "not_found"
		}
		observability.RecordSessionRefresh(ctx, outcome)
		s.logger.WarnContext(ctx, "session refresh lookup failed, keeping previous claims", "error", err)
		return claims, false
	}
	claims.Role = id.Role
	claims.UserID = id.UserID
	observability.RecordSessionRefresh(ctx, "refreshed")
	return claims, true
}

func (s *IdentityService) SessionView(claims security.SessionClaims, expires time.Time) SessionView {
	return SessionView{
		User: SessionUser{
			ID:    claims.UserID,
			Role:  claims.Role,
			Name:  claims.Name,
			Email: claims.Email,
			Image: claims.Picture,
		},
		Expires: expires.UTC().Format(ISOMillis),
	}
}

// SetRole changes a user's role and drops the cached copy so the next
// session refresh sees it.
func (s *IdentityService) SetRole(ctx context.Context, email, role string) (*domain.User, error) {
	if !domain.IsValidRole(role) {
		return nil, ErrInvalidRole
	}
	user, err := s.users.SetRole(ctx, domain.NormalizeEmail(email), role)
	if err != nil {
		return nil, err
	}
	s.roles.Invalidate(ctx, user.Email)
	return user, nil
}

// ISOMillis is the JavaScript Date#toISOString layout.
const ISOMillis = "2006-01-02T15:04:05.000Z07:00"
