package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/sandeepkv93/codereview-portal/internal/domain"
	"github.com/sandeepkv93/codereview-portal/internal/i18n"
	"github.com/sandeepkv93/codereview-portal/internal/observability"
	"github.com/sandeepkv93/codereview-portal/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// ContactInput is the raw form submission. Length rules apply to the
// untrimmed values; the stored record is trimmed and escaped.
type ContactInput struct {
	Name    string `json:"name" validate:"trimmed_required,u16max=100"`
	Email   string `json:"email" validate:"trimmed_required,email_shape,u16max=254"`
	Subject string `json:"subject" validate:"trimmed_required,u16max=200"`
	Message string `json:"message" validate:"trimmed_required,u16min=10,u16max=5000"`
}

var contactMessageKeys = map[string]string{
	"name.trimmed_required":    i18n.MsgContactNameReq,
	"name.u16max":              i18n.MsgContactNameMax,
	"email.trimmed_required":   i18n.MsgContactEmailReq,
	"email.email_shape":        i18n.MsgContactEmailFormat,
	"email.u16max":             i18n.MsgContactEmailMax,
	"subject.trimmed_required": i18n.MsgContactSubjectReq,
	"subject.u16max":           i18n.MsgContactSubjectMax,
	"message.trimmed_required": i18n.MsgContactMessageReq,
	"message.u16min":           i18n.MsgContactMessageMin,
	"message.u16max":           i18n.MsgContactMessageMax,
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML replaces the five HTML-significant characters with entities.
func EscapeHTML(s string) string { return htmlEscaper.Replace(s) }

// ErrContactRecordInvalid rejects a submission whose stored form would
// break the contact record bounds.
var ErrContactRecordInvalid = errors.New("contact record out of bounds")

type ContactService struct {
	contacts repository.ContactRepository
	notifier ContactNotifier
	timeout  time.Duration
	logger   *slog.Logger
	inflight sync.WaitGroup
}

func NewContactService(contacts repository.ContactRepository, notifier ContactNotifier, timeout time.Duration, logger *slog.Logger) *ContactService {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &ContactService{contacts: contacts, notifier: notifier, timeout: timeout, logger: logger}
}

func ValidateContact(in ContactInput) error {
	return validateStruct(in, contactMessageKeys)
}

// Submit validates and stores an inquiry, then notifies the admin in the
// background. Notification failures never reach the caller.
func (s *ContactService) Submit(ctx context.Context, in ContactInput) (*domain.Contact, error) {
	if err := ValidateContact(in); err != nil {
		observability.RecordContactSubmission(ctx, "invalid")
		return nil, err
	}
	c := &domain.Contact{
		Name:    EscapeHTML(trimForm(in.Name)),
		Email:   domain.NormalizeEmail(in.Email),
		Subject: EscapeHTML(trimForm(in.Subject)),
		Message: EscapeHTML(trimForm(in.Message)),
		Status:  domain.ContactUnread,
	}
	if err := checkStoredContact(c); err != nil {
		observability.RecordContactSubmission(ctx, "invalid")
		return nil, err
	}
	if err := s.contacts.Create(ctx, c); err != nil {
		observability.RecordContactSubmission(ctx, "error")
		s.logger.ErrorContext(ctx, "contact store failed", "error", err)
		return nil, err
	}
	observability.RecordContactSubmission(ctx, "accepted")
	s.dispatch(ctx, ContactNotification{
		Name:       c.Name,
		Email:      c.Email,
		Subject:    c.Subject,
		Message:    c.Message,
		ReceivedAt: c.CreatedAt,
	})
	return c, nil
}

// checkStoredContact applies the record bounds to the trimmed and escaped
// values. Input that passes the form rules can still break them: trimming
// shortens the message and escaping grows the name and subject.
func checkStoredContact(c *domain.Contact) error {
	switch {
	case c.Name == "" || UTF16Len(c.Name) > domain.MaxContactNameLength,
		c.Email == "" || UTF16Len(c.Email) > domain.MaxContactEmailLength,
		c.Subject == "" || UTF16Len(c.Subject) > domain.MaxContactSubjectLength,
		UTF16Len(c.Message) < domain.MinContactMessageLength || UTF16Len(c.Message) > domain.MaxContactMessageLength:
		return ErrContactRecordInvalid
	}
	return nil
}

func (s *ContactService) dispatch(ctx context.Context, n ContactNotification) {
	if s.notifier == nil {
		return
	}
	bg := context.WithoutCancel(ctx)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		sendCtx, cancel := context.WithTimeout(bg, s.timeout)
		defer cancel()
		sendCtx, span := observability.StartSpan(sendCtx, "contact.notify", attribute.String("channel", s.notifier.Channel()))
		start := time.Now()
		err := s.notifier.NotifyContact(sendCtx, n)
		if errors.Is(err, ErrNotificationSkipped) {
			observability.EndSpan(span, nil)
		} else {
			observability.EndSpan(span, err)
		}
		outcome := "sent"
		switch {
		case err == nil:
			s.logger.InfoContext(sendCtx, "contact notification sent", "channel", s.notifier.Channel(), "visitor_email", n.Email)
		case errors.Is(err, ErrNotificationSkipped):
			outcome = "skipped"
		default:
			outcome = "failed"
			s.logger.ErrorContext(sendCtx, "contact notification failed", "channel", s.notifier.Channel(), "error", err)
		}
		observability.RecordContactNotification(sendCtx, s.notifier.Channel(), outcome, time.Since(start))
	}()
}

// Wait blocks until background notifications finish or ctx ends.
func (s *ContactService) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
