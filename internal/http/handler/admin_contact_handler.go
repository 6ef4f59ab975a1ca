package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sandeepkv93/codereview-portal/internal/http/middleware"
	"github.com/sandeepkv93/codereview-portal/internal/http/response"
	"github.com/sandeepkv93/codereview-portal/internal/i18n"
	"github.com/sandeepkv93/codereview-portal/internal/observability"
	"github.com/sandeepkv93/codereview-portal/internal/repository"
	"github.com/sandeepkv93/codereview-portal/internal/service"
)

type AdminContactHandler struct {
	contacts service.AdminContactServiceInterface
}

func NewAdminContactHandler(contacts service.AdminContactServiceInterface) *AdminContactHandler {
	return &AdminContactHandler{contacts: contacts}
}

func (h *AdminContactHandler) List(w http.ResponseWriter, r *http.Request) {
	p := i18n.For(r)
	q := r.URL.Query()
	page := repository.PageRequest{
		Page:     queryInt(q.Get("page")),
		PageSize: queryInt(q.Get("page_size")),
	}
	out, err := h.contacts.List(r.Context(), q.Get("status"), page)
	switch {
	case errors.Is(err, service.ErrInvalidContactStatus):
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", p.Sprintf(i18n.MsgContactStatusBad), nil)
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "admin contact list failed", "error", err)
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", p.Sprintf(i18n.MsgInternal), nil)
		return
	}
	response.JSON(w, r, http.StatusOK, out)
}

func (h *AdminContactHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	p := i18n.For(r)
	id := chi.URLParam(r, "id")
	body, err := decodeObject(r)
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", p.Sprintf(i18n.MsgInvalidJSON), nil)
		return
	}
	status := stringField(body, "status")
	updated, err := h.contacts.UpdateStatus(r.Context(), id, status)

	actor := ""
	if s, ok := middleware.SessionFromContext(r.Context()); ok {
		actor = s.Claims.UserID
	}
	audit := observability.AuditInput{
		EventName:   "admin.contact.status",
		ActorUserID: actor,
		TargetType:  "contact",
		TargetID:    id,
		Action:      "status:" + status,
		Outcome:     "success",
	}

	var terr *service.TransitionError
	switch {
	case err == nil:
		observability.Audit(r, audit)
		response.JSON(w, r, http.StatusOK, updated)
		return
	case errors.Is(err, service.ErrInvalidContactStatus):
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", p.Sprintf(i18n.MsgContactStatusBad), nil)
	case errors.Is(err, repository.ErrContactNotFound), errors.Is(err, repository.ErrInvalidID):
		response.Error(w, r, http.StatusNotFound, "NOT_FOUND", p.Sprintf(i18n.MsgContactNotFound), nil)
	case errors.As(err, &terr):
		response.Error(w, r, http.StatusConflict, "INVALID_TRANSITION",
			p.Sprintf(i18n.MsgContactTransitionNo, string(terr.From), string(terr.To)),
			map[string]string{"from": string(terr.From), "to": string(terr.To)})
	case errors.Is(err, repository.ErrContactStateChanged):
		response.Error(w, r, http.StatusConflict, "CONFLICT", p.Sprintf(i18n.MsgContactChanged), nil)
	default:
		slog.ErrorContext(r.Context(), "admin contact status update failed", "error", err)
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", p.Sprintf(i18n.MsgInternal), nil)
	}
	audit.Outcome = "failure"
	audit.Reason = err.Error()
	observability.Audit(r, audit)
}

func queryInt(v string) int {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
