package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sandeepkv93/codereview-portal/internal/domain"
	"github.com/sandeepkv93/codereview-portal/internal/observability"
	"github.com/sandeepkv93/codereview-portal/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

var ErrInvalidContactStatus = errors.New("invalid contact status")

// TransitionError reports a status change the workflow does not allow.
type TransitionError struct {
	From domain.ContactStatus
	To   domain.ContactStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("contact status cannot move from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return domain.ErrInvalidContactTransition }

type AdminContactService struct {
	contacts repository.ContactRepository
}

func NewAdminContactService(contacts repository.ContactRepository) *AdminContactService {
	return &AdminContactService{contacts: contacts}
}

func (s *AdminContactService) List(ctx context.Context, status string, page repository.PageRequest) (repository.PageResult[domain.Contact], error) {
	st := domain.ContactStatus(status)
	if status != "" && !st.Valid() {
		return repository.PageResult[domain.Contact]{}, ErrInvalidContactStatus
	}
	return s.contacts.List(ctx, repository.ContactFilter{Status: st, Page: page})
}

// UpdateStatus applies one workflow step. Asking for the current status is a
// no-op; a concurrent change surfaces as repository.ErrContactStateChanged.
func (s *AdminContactService) UpdateStatus(ctx context.Context, id, status string) (_ *domain.Contact, err error) {
	ctx, span := observability.StartSpan(ctx, "contact.status.update",
		attribute.String("contact.id", id),
		attribute.String("contact.status.target", status),
	)
	defer func() { observability.EndSpan(span, err) }()

	next := domain.ContactStatus(status)
	if !next.Valid() {
		observability.RecordAdminContactMutation(ctx, "status", "invalid")
		return nil, ErrInvalidContactStatus
	}
	current, err := s.contacts.FindByID(ctx, id)
	if err != nil {
		observability.RecordAdminContactMutation(ctx, "status", outcomeOf(err))
		return nil, err
	}
	if current.Status == next {
		observability.RecordAdminContactMutation(ctx, "status", "noop")
		return current, nil
	}
	if !current.Status.CanTransitionTo(next) {
		observability.RecordAdminContactMutation(ctx, "status", "conflict")
		return nil, &TransitionError{From: current.Status, To: next}
	}
	if err := s.contacts.UpdateStatus(ctx, id, current.Status, next); err != nil {
		outcome := outcomeOf(err)
		if errors.Is(err, repository.ErrContactStateChanged) {
			outcome = "conflict"
		}
		observability.RecordAdminContactMutation(ctx, "status", outcome)
		return nil, err
	}
	observability.RecordAdminContactMutation(ctx, "status", "success")
	updated, err := s.contacts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return updated, nil
}
