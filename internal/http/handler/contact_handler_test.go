package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/sandeepkv93/codereview-portal/internal/domain"
	"github.com/sandeepkv93/codereview-portal/internal/i18n"
	"github.com/sandeepkv93/codereview-portal/internal/service"
	servicegomock "github.com/sandeepkv93/codereview-portal/internal/service/gomock"
)

func TestContactSubmitSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := servicegomock.NewMockContactServiceInterface(ctrl)
	svc.EXPECT().Submit(gomock.Any(), service.ContactInput{
		Name: "Taro", Email: "taro@example.com", Subject: "Hi", Message: "hello there, world",
	}).Return(&domain.Contact{ID: "c1"}, nil)

	rr := httptest.NewRecorder()
	NewContactHandler(svc).Submit(rr, jsonRequest(http.MethodPost, "/api/contact",
		`{"name":"Taro","email":"taro@example.com","subject":"Hi","message":"hello there, world"}`))
	body := decodeBody(t, rr)
	if rr.Code != http.StatusOK || body["success"] != true {
		t.Fatalf("expected success, got %d %v", rr.Code, body)
	}
}

func TestContactSubmitValidationIsLocalized(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := servicegomock.NewMockContactServiceInterface(ctrl)
	svc.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(nil, &service.ValidationError{
		Fields: service.FieldErrors{"email": i18n.MsgContactEmailFormat},
	})

	req := jsonRequest(http.MethodPost, "/api/contact?lang=ja", `{"email":"nope"}`)
	rr := httptest.NewRecorder()
	NewContactHandler(svc).Submit(rr, req)
	body := decodeBody(t, rr)
	if rr.Code != http.StatusBadRequest || body["success"] != false {
		t.Fatalf("expected 400 failure, got %d %v", rr.Code, body)
	}
	errs, _ := body["errors"].(map[string]any)
	if errs["email"] != "有効なメールアドレスを入力してください" {
		t.Fatalf("expected japanese email message, got %v", errs)
	}
}

func TestContactSubmitFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := servicegomock.NewMockContactServiceInterface(ctrl)
	svc.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(nil, errors.New("insert failed"))
	h := NewContactHandler(svc)

	rr := httptest.NewRecorder()
	h.Submit(rr, jsonRequest(http.MethodPost, "/api/contact", `not json`))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("malformed json: expected 400, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.Submit(rr, jsonRequest(http.MethodPost, "/api/contact",
		`{"name":"Taro","email":"taro@example.com","subject":"Hi","message":"hello there, world"}`))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("store failure: expected 500, got %d", rr.Code)
	}
}

func TestContactSubmitRecordOutOfBoundsIsGeneric400(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := servicegomock.NewMockContactServiceInterface(ctrl)
	svc.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(nil, service.ErrContactRecordInvalid)

	rr := httptest.NewRecorder()
	NewContactHandler(svc).Submit(rr, jsonRequest(http.MethodPost, "/api/contact",
		`{"name":"Taro","email":"taro@example.com","subject":"Hi","message":"a         "}`))
	body := decodeBody(t, rr)
	if rr.Code != http.StatusBadRequest || body["success"] != false || body["error"] != "The form contains errors" {
		t.Fatalf("expected generic 400, got %d %v", rr.Code, body)
	}
	if _, ok := body["errors"]; ok {
		t.Fatalf("expected no field map, got %v", body["errors"])
	}
}

func TestContactSubmitAcceptsFormPost(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := servicegomock.NewMockContactServiceInterface(ctrl)
	svc.EXPECT().Submit(gomock.Any(), service.ContactInput{
		Name: "Taro", Email: "taro@example.com", Subject: "Hi", Message: "hello there, world",
	}).Return(&domain.Contact{ID: "c1"}, nil)

	form := url.Values{"name": {"Taro"}, "email": {"taro@example.com"}, "subject": {"Hi"}, "message": {"hello there, world"}}
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	rr := httptest.NewRecorder()
	NewContactHandler(svc).Submit(rr, req)
	body := decodeBody(t, rr)
	if rr.Code != http.StatusOK || body["success"] != true {
		t.Fatalf("expected form post accepted, got %d %v", rr.Code, body)
	}
}
