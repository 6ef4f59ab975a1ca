package domain

import (
	"strings"
	"time"
	"unicode/utf16"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	MaxUserNameLength = 100
)

type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Email     string    `gorm:"uniqueIndex;size:254;not null" json:"email"`
	Name      string    `gorm:"size:100" json:"name"`
	Image     string    `gorm:"size:1024" json:"image,omitempty"`
	Role      string    `gorm:"size:16;not null;default:user;index:idx_users_role" json:"role"`
	CreatedAt time.Time `gorm:"index:idx_users_created_at,sort:desc" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// UserProfile is what an identity provider tells us about a person at sign-in.
type UserProfile struct {
	Email string
	Name  string
	Image string
}

// Normalized lowercases the email and clips the name to MaxUserNameLength
// UTF-16 units. A provider name over the bound is clipped rather than
// failing the sign-in.
func (p UserProfile) Normalized() UserProfile {
	return UserProfile{
		Email: NormalizeEmail(p.Email),
		Name:  clipUTF16(strings.TrimSpace(p.Name), MaxUserNameLength),
		Image: strings.TrimSpace(p.Image),
	}
}

// clipUTF16 cuts s to at most n UTF-16 units without splitting a surrogate pair.
func clipUTF16(s string, n int) string {
	units := 0
	for i, r := range s {
		units += utf16.RuneLen(r)
		if units > n {
			return s[:i]
		}
	}
	return s
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func IsValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}
