package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"unicode"

	"github.com/sandeepkv93/codereview-portal/internal/domain"
	"github.com/sandeepkv93/codereview-portal/internal/i18n"
	"github.com/sandeepkv93/codereview-portal/internal/observability"
	"github.com/sandeepkv93/codereview-portal/internal/repository"
)

const (
	DefaultActivityLimit = 5
	MaxActivityLimit     = 20
)

var ErrActivityFieldsRequired = errors.New("type, description and targetName are required")

// ActivityView is the wire form of an activity.
type ActivityView struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Description string `json:"description"`
	TargetName  string `json:"targetName"`
	CreatedAt   string `json:"createdAt"`
	UserID      string `json:"userId"`
}

type ActivityList struct {
	Activities []ActivityView `json:"activities"`
	Total      int64          `json:"total"`
}

type ActivityInput struct {
	Type        string `json:"type" validate:"oneof=review_completed project_created comment_added settings_updated review_started"`
	Description string `json:"description" validate:"u16max=500"`
	TargetName  string `json:"targetName" validate:"u16max=255"`
}

var activityMessageKeys = map[string]string{
	"type.oneof":         i18n.MsgActivityTypeInvalid,
	"description.u16max": i18n.MsgActivityDescTooLong,
	"targetName.u16max":  i18n.MsgActivityTargetLong,
}

type ActivityService struct {
	users      repository.UserRepository
	activities repository.ActivityRepository
}

func NewActivityService(users repository.UserRepository, activities repository.ActivityRepository) *ActivityService {
	return &ActivityService{users: users, activities: activities}
}

// ParseLimit reads the leading integer of raw, defaults to 5 when there is
// none and clamps the result to [1, 20].
func ParseLimit(raw string) int {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return DefaultActivityLimit
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// Overflow: sign decides which bound it lands on.
		if s[0] == '-' {
			return 1
		}
		return MaxActivityLimit
	}
	return min(max(n, 1), MaxActivityLimit)
}

// ResolveUser maps a session email to the stored user.
func (s *ActivityService) ResolveUser(ctx context.Context, email string) (*domain.User, error) {
	return s.users.FindByEmail(ctx, domain.NormalizeEmail(email))
}

func (s *ActivityService) ListRecent(ctx context.Context, email string, limit int) (*ActivityList, error) {
	user, err := s.ResolveUser(ctx, email)
	if err != nil {
		observability.RecordActivityOperation(ctx, "list", outcomeOf(err))
		return nil, err
	}
	limit = min(max(limit, 1), MaxActivityLimit)
	items, err := s.activities.ListRecentByUser(ctx, user.ID, limit)
	if err != nil {
		observability.RecordActivityOperation(ctx, "list", "error")
		return nil, err
	}
	total, err := s.activities.CountByUser(ctx, user.ID)
	if err != nil {
		observability.RecordActivityOperation(ctx, "list", "error")
		return nil, err
	}
	out := &ActivityList{Activities: make([]ActivityView, 0, len(items)), Total: total}
	for i := range items {
		out.Activities = append(out.Activities, NewActivityView(&items[i]))
	}
	observability.RecordActivityOperation(ctx, "list", "success")
	observability.RecordActivityListSize(ctx, len(out.Activities))
	return out, nil
}

// Record stores a new activity for the session user. Description and
// target name are trimmed before any rule runs. Missing fields yield
// ErrActivityFieldsRequired; enum and length violations a *ValidationError.
func (s *ActivityService) Record(ctx context.Context, email string, in ActivityInput) (*ActivityView, error) {
	in.Description = trimForm(in.Description)
	in.TargetName = trimForm(in.TargetName)
	if in.Type == "" || in.Description == "" || in.TargetName == "" {
		observability.RecordActivityOperation(ctx, "create", "invalid")
		return nil, ErrActivityFieldsRequired
	}
	if err := validateStruct(in, activityMessageKeys); err != nil {
		observability.RecordActivityOperation(ctx, "create", "invalid")
		return nil, err
	}
	user, err := s.ResolveUser(ctx, email)
	if err != nil {
		observability.RecordActivityOperation(ctx, "create", outcomeOf(err))
		return nil, err
	}
	a := &domain.Activity{
		Type:        domain.ActivityType(in.Type),
		Description: in.Description,
		TargetName:  in.TargetName,
		UserID:      user.ID,
	}
	if err := s.activities.Create(ctx, a); err != nil {
		observability.RecordActivityOperation(ctx, "create", "error")
		return nil, err
	}
	observability.RecordActivityOperation(ctx, "create", "success")
	view := NewActivityView(a)
	return &view, nil
}

func NewActivityView(a *domain.Activity) ActivityView {
	return ActivityView{
		ID:          a.ID,
		Type:        string(a.Type),
		Description: a.Description,
		TargetName:  a.TargetName,
		CreatedAt:   a.CreatedAt.UTC().Format(ISOMillis),
		UserID:      a.UserID,
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, repository.ErrUserNotFound), errors.Is(err, repository.ErrContactNotFound):
		return "not_found"
	default:
		return "error"
	}
}
