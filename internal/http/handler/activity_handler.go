package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sandeepkv93/codereview-portal/internal/http/middleware"
	"github.com/sandeepkv93/codereview-portal/internal/http/response"
	"github.com/sandeepkv93/codereview-portal/internal/i18n"
	"github.com/sandeepkv93/codereview-portal/internal/repository"
	"github.com/sandeepkv93/codereview-portal/internal/service"
)

type ActivityHandler struct {
	activities service.ActivityServiceInterface
}

func NewActivityHandler(activities service.ActivityServiceInterface) *ActivityHandler {
	return &ActivityHandler{activities: activities}
}

func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	p := i18n.For(r)
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", p.Sprintf(i18n.MsgAuthRequired), nil)
		return
	}
	limit := service.ParseLimit(r.URL.Query().Get("limit"))
	out, err := h.activities.ListRecent(r.Context(), s.Claims.Email, limit)
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		response.Error(w, r, http.StatusNotFound, "NOT_FOUND", p.Sprintf(i18n.MsgUserNotFound), nil)
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "activity list failed", "error", err)
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", p.Sprintf(i18n.MsgActivityListFailed), nil)
		return
	}
	response.JSON(w, r, http.StatusOK, out)
}

func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	p := i18n.For(r)
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", p.Sprintf(i18n.MsgAuthRequired), nil)
		return
	}
	body, err := decodeObject(r)
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", p.Sprintf(i18n.MsgInvalidJSON), nil)
		return
	}
	in := service.ActivityInput{
		Type:        stringField(body, "type"),
		Description: stringField(body, "description"),
		TargetName:  stringField(body, "targetName"),
	}
	view, err := h.activities.Record(r.Context(), s.Claims.Email, in)
	var verr *service.ValidationError
	switch {
	case err == nil:
		response.JSON(w, r, http.StatusCreated, view)
	case errors.Is(err, service.ErrActivityFieldsRequired):
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", p.Sprintf(i18n.MsgActivityFieldsReq), nil)
	case errors.As(err, &verr):
		fields := localizeFields(p, verr.Fields)
		response.Error(w, r, http.StatusBadRequest, "VALIDATION_FAILED", firstMessage(fields, "type", "description", "targetName"), fields)
	case errors.Is(err, repository.ErrUserNotFound):
		response.Error(w, r, http.StatusNotFound, "NOT_FOUND", p.Sprintf(i18n.MsgUserNotFound), nil)
	default:
		slog.ErrorContext(r.Context(), "activity create failed", "error", err)
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", p.Sprintf(i18n.MsgActivityCreateFail), nil)
	}
}
