package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/sandeepkv93/codereview-portal/internal/domain"
	"github.com/sandeepkv93/codereview-portal/internal/repository"
	"github.com/sandeepkv93/codereview-portal/internal/service"
	servicegomock "github.com/sandeepkv93/codereview-portal/internal/service/gomock"
)

func TestAdminContactList(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := servicegomock.NewMockAdminContactServiceInterface(ctrl)
	svc.EXPECT().List(gomock.Any(), "unread", repository.PageRequest{Page: 2, PageSize: 10}).
		Return(repository.PageResult[domain.Contact]{Items: []domain.Contact{{ID: "c1"}}, Page: 2, PageSize: 10, Total: 11, TotalPages: 2}, nil)
	svc.EXPECT().List(gomock.Any(), "bogus", gomock.Any()).
		Return(repository.PageResult[domain.Contact]{}, service.ErrInvalidContactStatus)
	h := NewAdminContactHandler(svc)

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/api/admin/contacts?status=unread&page=2&page_size=10", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if body := decodeBody(t, rr); body["total"] != float64(11) {
		t.Fatalf("unexpected body %v", body)
	}

	rr = httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/api/admin/contacts?status=bogus", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestAdminContactUpdateStatusMapsErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"ok", nil, http.StatusOK},
		{"bad status", service.ErrInvalidContactStatus, http.StatusBadRequest},
		{"unknown", repository.ErrContactNotFound, http.StatusNotFound},
		{"bad id", repository.ErrInvalidID, http.StatusNotFound},
		{"illegal", fmt.Errorf("update: %w", &service.TransitionError{From: domain.ContactReplied, To: domain.ContactUnread}), http.StatusConflict},
		{"raced", repository.ErrContactStateChanged, http.StatusConflict},
		{"store", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := servicegomock.NewMockAdminContactServiceInterface(ctrl)
			var out *domain.Contact
			if tc.err == nil {
				out = &domain.Contact{ID: "c1", Status: domain.ContactRead}
			}
			svc.EXPECT().UpdateStatus(gomock.Any(), "c1", "read").Return(out, tc.err)

			req := withURLParam(jsonRequest(http.MethodPatch, "/api/admin/contacts/c1/status", `{"status":"read"}`), "id", "c1")
			req = withSession(req, "admin@example.com", "admin")
			rr := httptest.NewRecorder()
			NewAdminContactHandler(svc).UpdateStatus(rr, req)
			if rr.Code != tc.want {
				t.Fatalf("expected %d, got %d body=%s", tc.want, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestAdminContactRacedUpdateNamesTheConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := servicegomock.NewMockAdminContactServiceInterface(ctrl)
	svc.EXPECT().UpdateStatus(gomock.Any(), "c1", "replied").Return(nil, repository.ErrContactStateChanged)

	req := withURLParam(jsonRequest(http.MethodPatch, "/api/admin/contacts/c1/status", `{"status":"replied"}`), "id", "c1")
	req = withSession(req, "admin@example.com", "admin")
	rr := httptest.NewRecorder()
	NewAdminContactHandler(svc).UpdateStatus(rr, req)
	body := decodeBody(t, rr)
	if rr.Code != http.StatusConflict || body["code"] != "CONFLICT" {
		t.Fatalf("expected 409 CONFLICT, got %d %v", rr.Code, body)
	}
	msg, _ := body["error"].(string)
	if msg != "Contact status was changed by someone else; reload and try again" || strings.Contains(msg, "?") {
		t.Fatalf("unexpected conflict message: %q", msg)
	}
}
