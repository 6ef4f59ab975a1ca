package service_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/sandeepkv93/codereview-portal/internal/config"
	"github.com/sandeepkv93/codereview-portal/internal/domain"
	repogomock "github.com/sandeepkv93/codereview-portal/internal/repository/gomock"
	"github.com/sandeepkv93/codereview-portal/internal/service"
	servicegomock "github.com/sandeepkv93/codereview-portal/internal/service/gomock"
)

func TestContactMailBodyUsesTokyoTime(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	body := service.ContactMailBody(service.ContactNotification{
		Name:       "Taro",
		Email:      "taro@example.com",
		Subject:    "Hello",
		Message:    "&lt;hi&gt;",
		ReceivedAt: time.Date(2025, 1, 31, 16, 5, 0, 0, time.UTC),
	}, loc)

	for _, want := range []string{"【お名前】\nTaro", "【メールアドレス】\ntaro@example.com", "【件名】\nHello", "&lt;hi&gt;", "【受付日時】\n2025/02/01 01:05"} {
		if !strings.Contains(body, want) {
			t.Fatalf("mail body missing %q:\n%s", want, body)
		}
	}
	if got := service.ContactSubject("Hello"); got != "【お問い合わせ】Hello" {
		t.Fatalf("unexpected subject %q", got)
	}
}

func TestNewContactNotifierRequiresCompleteSMTPSettings(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{SMTPHost: "smtp.example.com", SMTPUser: "u", SMTPPass: "p", SMTPPort: 587}
	if n := service.NewContactNotifier(cfg, logger); n.Channel() != "disabled" {
		t.Fatalf("expected disabled notifier without ADMIN_EMAIL, got %s", n.Channel())
	}
	cfg.AdminEmail = "admin@example.com"
	if n := service.NewContactNotifier(cfg, logger); n.Channel() != "smtp" {
		t.Fatalf("expected smtp notifier, got %s", n.Channel())
	}
}

func TestDisabledNotifierSkips(t *testing.T) {
	var buf bytes.Buffer
	n := service.NewDisabledNotifier(slog.New(slog.NewTextHandler(&buf, nil)))
	err := n.NotifyContact(context.Background(), service.ContactNotification{})
	if !errors.Is(err, service.ErrNotificationSkipped) {
		t.Fatalf("expected skip, got %v", err)
	}
	if !strings.Contains(buf.String(), "skipping contact notification") {
		t.Fatalf("expected warning log, got %q", buf.String())
	}
}

func TestContactServiceDispatchesThroughNotifier(t *testing.T) {
	ctrl := gomock.NewController(t)
	contacts := repogomock.NewMockContactRepository(ctrl)
	notifier := servicegomock.NewMockContactNotifier(ctrl)
	contacts.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	notifier.EXPECT().Channel().Return("smtp").AnyTimes()
	notifier.EXPECT().NotifyContact(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, n service.ContactNotification) error {
			if _, ok := ctx.Deadline(); !ok {
				t.Error("expected bounded notification context")
			}
			if n.Email != "taro@example.com" {
				t.Errorf("unexpected notification email %q", n.Email)
			}
			return nil
		})

	svc := service.NewContactService(contacts, notifier, time.Second, nil)
	_, err := svc.Submit(context.Background(), service.ContactInput{
		Name: "Taro", Email: "taro@example.com", Subject: "Hi", Message: "long enough message",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := svc.Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}
}

func TestContactArchiverWritesJSONLines(t *testing.T) {
	ctrl := gomock.NewController(t)
	contacts := repogomock.NewMockContactRepository(ctrl)
	uploader := servicegomock.NewMockObjectUploader(ctrl)
	since := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	contacts.EXPECT().ListSince(gomock.Any(), since).Return([]domain.Contact{
		{ID: "c1", Name: "A", Email: "a@example.com", Subject: "s", Message: "m", Status: domain.ContactUnread, CreatedAt: since},
		{ID: "c2", Name: "B", Email: "b@example.com", Subject: "s", Message: "m", Status: domain.ContactRead, CreatedAt: since.Add(time.Hour)},
	}, nil)
	uploader.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), "application/x-ndjson").DoAndReturn(
		func(_ context.Context, key string, body io.Reader, size int64, _ string) error {
			if !strings.HasPrefix(key, "contacts/") || !strings.HasSuffix(key, ".jsonl") {
				t.Errorf("unexpected key %q", key)
			}
			raw, _ := io.ReadAll(body)
			if int64(len(raw)) != size {
				t.Errorf("size mismatch: %d vs %d", len(raw), size)
			}
			lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
			if len(lines) != 2 || !strings.Contains(lines[1], `"status":"read"`) {
				t.Errorf("unexpected archive body: %s", raw)
			}
			return nil
		})

	res, err := service.NewContactArchiver(contacts, uploader).Export(context.Background(), since)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if res.Count != 2 || res.Bytes == 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestNewMinioUploaderRequiresArchiveSettings(t *testing.T) {
	if _, err := service.NewMinioUploader(&config.Config{}); !errors.Is(err, service.ErrArchiveDisabled) {
		t.Fatalf("expected ErrArchiveDisabled, got %v", err)
	}
}
