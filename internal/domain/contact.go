package domain

import (
	"errors"
	"time"
)

type ContactStatus string

const (
	ContactUnread  ContactStatus = "unread"
	ContactRead    ContactStatus = "read"
	ContactReplied ContactStatus = "replied"

	MaxContactNameLength    = 100
	MaxContactEmailLength   = 254
	MaxContactSubjectLength = 200
	MinContactMessageLength = 10
	MaxContactMessageLength = 5000
)

var ErrInvalidContactTransition = errors.New("invalid contact status transition")

func (s ContactStatus) Valid() bool {
	switch s {
	case ContactUnread, ContactRead, ContactReplied:
		return true
	default:
		return false
	}
}

// CanTransitionTo allows unread->read, read->replied and unread->replied.
// Staying in the same state is allowed and treated as a no-op by callers.
func (s ContactStatus) CanTransitionTo(next ContactStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	switch s {
	case ContactUnread:
		return next == ContactRead || next == ContactReplied
	case ContactRead:
		return next == ContactReplied
	default:
		return false
	}
}

type Contact struct {
	ID        string        `gorm:"primaryKey;size:36" json:"id"`
	Name      string        `gorm:"size:100;not null" json:"name"`
	Email     string        `gorm:"size:254;not null;index:idx_contacts_email" json:"email"`
	Subject   string        `gorm:"size:200;not null" json:"subject"`
	Message   string        `gorm:"type:text;not null" json:"message"`
	Status    ContactStatus `gorm:"size:16;not null;default:unread;index:idx_contacts_status" json:"status"`
	CreatedAt time.Time     `gorm:"index:idx_contacts_created_at,sort:desc" json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}
