package security

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

var ErrInvalidSessionToken = errors.New("invalid session token")

const sessionKeyInfo = "codereview-portal session signing key v1"

// SessionClaims is what the browser carries between requests. Role and UserID
// are copied from the user record and may lag behind it until the next refresh.
type SessionClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	UserID  string `json:"uid,omitempty"`
	Role    string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type SessionTokenManager struct {
	issuer   string
	audience string
	maxAge   time.Duration
	key      []byte
	now      func() time.Time
}

// NewSessionTokenManager derives the HS256 key from secret so the raw
// AUTH_SECRET is never used directly as MAC key material.
func NewSessionTokenManager(secret, issuer, audience string, maxAge time.Duration) (*SessionTokenManager, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("session secret must be at least 32 bytes")
	}
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), []byte(issuer), []byte(sessionKeyInfo)), key); err != nil {
		return nil, fmt.Errorf("derive session key: %w", err)
	}
	return &SessionTokenManager{
		issuer:   issuer,
		audience: audience,
		maxAge:   maxAge,
		key:      key,
		now:      time.Now,
	}, nil
}

func (m *SessionTokenManager) MaxAge() time.Duration { return m.maxAge }

// Sign issues a token valid for the configured max age, starting now.
func (m *SessionTokenManager) Sign(c SessionClaims) (string, time.Time, error) {
	issuedAt := m.now().UTC()
	expires := issuedAt.Add(m.maxAge)
	c.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    m.issuer,
		Subject:   c.Email,
		Audience:  jwt.ClaimStrings{m.audience},
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		NotBefore: jwt.NewNumericDate(issuedAt.Add(-30 * time.Second)),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.key)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expires, nil
}

func (m *SessionTokenManager) Parse(token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return m.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(m.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSessionToken, err)
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("%w: missing email", ErrInvalidSessionToken)
	}
	return claims, nil
}
