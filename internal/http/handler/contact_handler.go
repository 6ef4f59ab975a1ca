package handler

import (
	"errors"
	"net/http"

	"golang.org/x/text/message"

	"github.com/sandeepkv93/codereview-portal/internal/http/response"
	"github.com/sandeepkv93/codereview-portal/internal/i18n"
	"github.com/sandeepkv93/codereview-portal/internal/service"
)

type contactResult struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Error   string            `json:"error,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

type ContactHandler struct {
	contacts service.ContactServiceInterface
}

func NewContactHandler(contacts service.ContactServiceInterface) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	p := i18n.For(r)
	body, err := decodeFormOrObject(r)
	if err != nil {
		response.JSON(w, r, http.StatusBadRequest, contactResult{Error: p.Sprintf(i18n.MsgContactInvalid)})
		return
	}
	in := service.ContactInput{
		Name:    stringField(body, "name"),
		Email:   stringField(body, "email"),
		Subject: stringField(body, "subject"),
		Message: stringField(body, "message"),
	}
	_, err = h.contacts.Submit(r.Context(), in)
	var verr *service.ValidationError
	switch {
	case err == nil:
		response.JSON(w, r, http.StatusOK, contactResult{Success: true, Message: p.Sprintf(i18n.MsgContactAccepted)})
	case errors.As(err, &verr):
		response.JSON(w, r, http.StatusBadRequest, contactResult{
			Error:  p.Sprintf(i18n.MsgContactInvalid),
			Errors: localizeFields(p, verr.Fields),
		})
	case errors.Is(err, service.ErrContactRecordInvalid):
		response.JSON(w, r, http.StatusBadRequest, contactResult{Error: p.Sprintf(i18n.MsgContactInvalid)})
	default:
		response.JSON(w, r, http.StatusInternalServerError, contactResult{Error: p.Sprintf(i18n.MsgContactFailed)})
	}
}

func localizeFields(p *message.Printer, fields service.FieldErrors) map[string]string {
	out := make(map[string]string, len(fields))
	for field, key := range fields {
		out[field] = p.Sprintf(key)
	}
	return out
}

// firstMessage picks a stable summary message by field order.
func firstMessage(fields map[string]string, order ...string) string {
	for _, f := range order {
		if m, ok := fields[f]; ok {
			return m
		}
	}
	return ""
}
