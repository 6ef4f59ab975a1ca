package observability

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestBuildAuditEventIncludesRequiredFields(t *testing.T) {
	req := httptest.NewRequest("PATCH", "/api/admin/contacts/abc/status", nil)
	req.Header.Set("X-Request-Id", "req-test-1")
	req.RemoteAddr = "127.0.0.1:12345"

	ev := BuildAuditEvent(req, AuditInput{
		EventName:   "admin.contact.status",
		ActorUserID: "u-1",
		TargetType:  "contact",
		TargetID:    "abc",
		Action:      "mark_read",
		Outcome:     "success",
	})

	if ev.EventVersion != 1 {
		t.Fatalf("expected event version 1, got %d", ev.EventVersion)
	}
	if ev.ActorIP != "127.0.0.1" {
		t.Fatalf("unexpected actor ip %q", ev.ActorIP)
	}
	if ev.Reason != "none" {
		t.Fatalf("expected default reason, got %q", ev.Reason)
	}
	if ev.RequestID != "req-test-1" {
		t.Fatalf("unexpected request id: %s", ev.RequestID)
	}
	if _, err := time.Parse(time.RFC3339, ev.TS); err != nil {
		t.Fatalf("expected RFC3339 ts, got %q err=%v", ev.TS, err)
	}
	if err := ev.Validate(); err != nil {
		t.Fatalf("expected valid event, got %v", err)
	}
}

func TestBuildAuditEventDefaultsAnonymousActor(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/auth/callback/google", nil)
	ev := BuildAuditEvent(req, AuditInput{EventName: "auth.signin", TargetType: "user", Action: "signin", Outcome: "failure", Reason: "state_mismatch"})
	if ev.ActorUserID != "anonymous" {
		t.Fatalf("expected anonymous actor, got %q", ev.ActorUserID)
	}
}

func TestAuditEventValidateRejectsMissingEventName(t *testing.T) {
	ev := AuditEvent{
		EventVersion: 1,
		ActorUserID:  "u-1",
		TargetType:   "user",
		Action:       "signin",
		Outcome:      "success",
		TS:           time.Now().UTC().Format(time.RFC3339),
	}
	if err := ev.Validate(); err == nil {
		t.Fatal("expected validation error for missing event_name")
	}
}
