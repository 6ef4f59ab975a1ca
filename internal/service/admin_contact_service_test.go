package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/sandeepkv93/codereview-portal/internal/domain"
	"github.com/sandeepkv93/codereview-portal/internal/repository"
	repogomock "github.com/sandeepkv93/codereview-portal/internal/repository/gomock"
)

func TestAdminContactUpdateStatusTransitions(t *testing.T) {
	ctx := context.Background()

	t.Run("unread to read", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		contacts := repogomock.NewMockContactRepository(ctrl)
		gomock.InOrder(
			contacts.EXPECT().FindByID(gomock.Any(), "c1").Return(&domain.Contact{ID: "c1", Status: domain.ContactUnread}, nil),
			contacts.EXPECT().UpdateStatus(gomock.Any(), "c1", domain.ContactUnread, domain.ContactRead).Return(nil),
			contacts.EXPECT().FindByID(gomock.Any(), "c1").Return(&domain.Contact{ID: "c1", Status: domain.ContactRead}, nil),
		)
		got, err := NewAdminContactService(contacts).UpdateStatus(ctx, "c1", "read")
		if err != nil || got.Status != domain.ContactRead {
			t.Fatalf("got=%+v err=%v", got, err)
		}
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		contacts := repogomock.NewMockContactRepository(ctrl)
		contacts.EXPECT().FindByID(gomock.Any(), "c1").Return(&domain.Contact{ID: "c1", Status: domain.ContactRead}, nil)
		if _, err := NewAdminContactService(contacts).UpdateStatus(ctx, "c1", "read"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("backwards move rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		contacts := repogomock.NewMockContactRepository(ctrl)
		contacts.EXPECT().FindByID(gomock.Any(), "c1").Return(&domain.Contact{ID: "c1", Status: domain.ContactReplied}, nil)
		_, err := NewAdminContactService(contacts).UpdateStatus(ctx, "c1", "unread")
		var terr *TransitionError
		if !errors.As(err, &terr) || !errors.Is(err, domain.ErrInvalidContactTransition) {
			t.Fatalf("expected transition error, got %v", err)
		}
	})

	t.Run("bad status", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		contacts := repogomock.NewMockContactRepository(ctrl)
		if _, err := NewAdminContactService(contacts).UpdateStatus(ctx, "c1", "archived"); !errors.Is(err, ErrInvalidContactStatus) {
			t.Fatalf("expected ErrInvalidContactStatus, got %v", err)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		contacts := repogomock.NewMockContactRepository(ctrl)
		contacts.EXPECT().FindByID(gomock.Any(), "nope").Return(nil, repository.ErrContactNotFound)
		if _, err := NewAdminContactService(contacts).UpdateStatus(ctx, "nope", "read"); !errors.Is(err, repository.ErrContactNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("concurrent change", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		contacts := repogomock.NewMockContactRepository(ctrl)
		contacts.EXPECT().FindByID(gomock.Any(), "c1").Return(&domain.Contact{ID: "c1", Status: domain.ContactUnread}, nil)
		contacts.EXPECT().UpdateStatus(gomock.Any(), "c1", domain.ContactUnread, domain.ContactReplied).Return(repository.ErrContactStateChanged)
		if _, err := NewAdminContactService(contacts).UpdateStatus(ctx, "c1", "replied"); !errors.Is(err, repository.ErrContactStateChanged) {
			t.Fatalf("expected state changed, got %v", err)
		}
	})
}

func TestAdminContactListFiltersByStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	contacts := repogomock.NewMockContactRepository(ctrl)
	contacts.EXPECT().List(gomock.Any(), repository.ContactFilter{Status: domain.ContactUnread, Page: repository.PageRequest{Page: 2, PageSize: 10}}).
		Return(repository.PageResult[domain.Contact]{Items: []domain.Contact{}, Page: 2, PageSize: 10}, nil)
	svc := NewAdminContactService(contacts)

	if _, err := svc.List(context.Background(), "unread", repository.PageRequest{Page: 2, PageSize: 10}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if _, err := svc.List(context.Background(), "bogus", repository.PageRequest{}); !errors.Is(err, ErrInvalidContactStatus) {
		t.Fatalf("expected invalid status, got %v", err)
	}
}
