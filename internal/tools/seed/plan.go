package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sandeepkv93/codereview-portal/internal/domain"
	"github.com/sandeepkv93/codereview-portal/internal/repository"
)

const maxSeedRows = 200

var demoTargets = []string{
	"payments-service#482",
	"web-frontend#1290",
	"infra-terraform#77",
	"mobile-app#305",
	"search-indexer#58",
}

var demoSubjects = []string{
	"Question about team plans",
	"Review turnaround times",
	"Enterprise SSO support",
}

// Plan describes one seed run. Users are upserted, so re-running only adds
// activities and contacts.
type Plan struct {
	Email      string
	Name       string
	Role       string
	Activities int
	Contacts   int
}

func (p Plan) validate() error {
	if strings.TrimSpace(p.Email) == "" {
		return errors.New("email is required")
	}
	if !domain.IsValidRole(p.Role) {
		return fmt.Errorf("unknown role %q", p.Role)
	}
	if p.Activities < 0 || p.Activities > maxSeedRows || p.Contacts < 0 || p.Contacts > maxSeedRows {
		return fmt.Errorf("activities and contacts must be between 0 and %d", maxSeedRows)
	}
	return nil
}

func (p Plan) Describe() ([]string, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	return []string{
		fmt.Sprintf("would upsert user %s with role %s", domain.NormalizeEmail(p.Email), p.Role),
		fmt.Sprintf("would create %d activities for that user", p.Activities),
		fmt.Sprintf("would create %d unread contacts", p.Contacts),
	}, nil
}

// Apply writes the plan through the repositories of whichever store is open.
func Apply(ctx context.Context, stores repository.Stores, p Plan) ([]string, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	email := domain.NormalizeEmail(p.Email)
	user, created, err := stores.Users.UpsertByEmail(ctx, domain.UserProfile{Email: email, Name: p.Name})
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	details := []string{fmt.Sprintf("user %s (created=%t)", user.Email, created)}
	if user.Role != p.Role {
		if user, err = stores.Users.SetRole(ctx, email, p.Role); err != nil {
			return details, fmt.Errorf("set role: %w", err)
		}
		details = append(details, "role set to "+user.Role)
	}

	types := domain.ActivityTypes()
	for i := 0; i < p.Activities; i++ {
		t := types[i%len(types)]
		target := demoTargets[i%len(demoTargets)]
		a := &domain.Activity{
			Type:        t,
			Description: fmt.Sprintf("%s on %s", t.Label(), target),
			TargetName:  target,
			UserID:      user.ID,
		}
		if err := stores.Activities.Create(ctx, a); err != nil {
			return details, fmt.Errorf("create activity %d: %w", i+1, err)
		}
	}
	details = append(details, fmt.Sprintf("activities created: %d", p.Activities))

	for i := 0; i < p.Contacts; i++ {
		c := &domain.Contact{
			Name:    fmt.Sprintf("Prospect %d", i+1),
			Email:   fmt.Sprintf("prospect%d@example.com", i+1),
			Subject: demoSubjects[i%len(demoSubjects)],
			Message: "Hello, we would like to learn more about the review workflow for our team.",
			Status:  domain.ContactUnread,
		}
		if err := stores.Contacts.Create(ctx, c); err != nil {
			return details, fmt.Errorf("create contact %d: %w", i+1, err)
		}
	}
	details = append(details, fmt.Sprintf("contacts created: %d", p.Contacts))
	return details, nil
}
