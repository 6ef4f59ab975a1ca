package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	return out
}

func TestPortalHandlerScrubsSecretsAndEmails(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(portalHandler{next: slog.NewJSONHandler(&buf, nil)}).With("session_token", "eyJhbGciOi")

	logger.Info("user created",
		"email", "dev@example.com",
		"visitor_email", "visitor@example.org",
		"code", "4/0AX4XfWh",
		slog.Group("oauth", slog.String("state", "nonce.sig"), slog.String("provider", "google")),
		"user_id", "u-1",
	)

	line := decodeLine(t, &buf)
	if line["session_token"] != redacted || line["code"] != redacted {
		t.Fatalf("secrets leaked: %v", line)
	}
	if line["email"] != "d***@example.com" || line["visitor_email"] != "v***@example.org" {
		t.Fatalf("emails not masked: %v", line)
	}
	oauth, _ := line["oauth"].(map[string]any)
	if oauth["state"] != redacted || oauth["provider"] != "google" {
		t.Fatalf("group not scrubbed: %v", oauth)
	}
	if line["user_id"] != "u-1" {
		t.Fatalf("unrelated attrs must pass through: %v", line)
	}
	if _, ok := line["trace_id"]; ok {
		t.Fatalf("trace ids must be omitted without a span: %v", line)
	}
}

func TestPortalHandlerAddsSpanIDs(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	var buf bytes.Buffer
	slog.New(portalHandler{next: slog.NewJSONHandler(&buf, nil)}).InfoContext(ctx, "traced")

	line := decodeLine(t, &buf)
	if line["trace_id"] != span.SpanContext().TraceID().String() || line["span_id"] != span.SpanContext().SpanID().String() {
		t.Fatalf("span ids missing: %v", line)
	}
}

func TestFanoutRespectsPerHandlerLevel(t *testing.T) {
	var info, errs bytes.Buffer
	logger := slog.New(fanout{
		slog.NewJSONHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&errs, &slog.HandlerOptions{Level: slog.LevelError}),
	})

	logger.Info("contact notification sent")
	if info.Len() == 0 || errs.Len() != 0 {
		t.Fatalf("info record routed wrong: info=%q errs=%q", info.String(), errs.String())
	}
	logger.Error("contact notification failed")
	if errs.Len() == 0 {
		t.Fatal("error record missing from error handler")
	}
}

func TestMaskEmail(t *testing.T) {
	cases := map[string]string{
		"dev@example.com": "d***@example.com",
		"a@b.io":          "a***@b.io",
		"@example.com":    redacted,
		"not-an-email":    redacted,
	}
	for in, want := range cases {
		if got := MaskEmail(in); got != want {
			t.Fatalf("MaskEmail(%q) = %q want %q", in, got, want)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]slog.Level{"debug": slog.LevelDebug, "WARN": slog.LevelWarn, "error": slog.LevelError, "": slog.LevelInfo, "loud": slog.LevelInfo}
	for in, want := range cases {
		if got := parseLogLevel(in); got != want {
			t.Fatalf("parseLogLevel(%q) = %v want %v", in, got, want)
		}
	}
}
