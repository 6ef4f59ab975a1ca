package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/sandeepkv93/codereview-portal/internal/domain"
	"github.com/sandeepkv93/codereview-portal/internal/i18n"
	repogomock "github.com/sandeepkv93/codereview-portal/internal/repository/gomock"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []ContactNotification
	err  error
}

func (n *recordingNotifier) Channel() string { return "test" }

func (n *recordingNotifier) NotifyContact(_ context.Context, c ContactNotification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, c)
	return n.err
}

func validContactInput() ContactInput {
	return ContactInput{
		Name:    "Taro",
		Email:   "taro@example.com",
		Subject: "Question",
		Message: "0123456789",
	}
}

func TestValidateContactFirstFailingRulePerField(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*ContactInput)
		field  string
		key    string
	}{
		{"name blank", func(in *ContactInput) { in.Name = "   " }, "name", i18n.MsgContactNameReq},
		{"name long", func(in *ContactInput) { in.Name = strings.Repeat("a", 101) }, "name", i18n.MsgContactNameMax},
		{"email empty", func(in *ContactInput) { in.Email = "" }, "email", i18n.MsgContactEmailReq},
		{"email shape", func(in *ContactInput) { in.Email = "no-at-sign" }, "email", i18n.MsgContactEmailFormat},
		{"email shape before length", func(in *ContactInput) { in.Email = strings.Repeat("a", 300) }, "email", i18n.MsgContactEmailFormat},
		{"email long", func(in *ContactInput) { in.Email = strings.Repeat("a", 250) + "@b.co" }, "email", i18n.MsgContactEmailMax},
		{"email vertical tab", func(in *ContactInput) { in.Email = "a\vb@example.com" }, "email", i18n.MsgContactEmailFormat},
		{"email no-break space", func(in *ContactInput) { in.Email = "a\u00a0b@example.com" }, "email", i18n.MsgContactEmailFormat},
		{"email line separator", func(in *ContactInput) { in.Email = "a\u2028b@example.com" }, "email", i18n.MsgContactEmailFormat},
		{"email byte order mark", func(in *ContactInput) { in.Email = "a\ufeffb@example.com" }, "email", i18n.MsgContactEmailFormat},
		{"email ideographic space", func(in *ContactInput) { in.Email = "a@exa\u3000mple.com" }, "email", i18n.MsgContactEmailFormat},
		{"name only no-break spaces", func(in *ContactInput) { in.Name = "\u00a0\ufeff" }, "name", i18n.MsgContactNameReq},
		{"subject long", func(in *ContactInput) { in.Subject = strings.Repeat("s", 201) }, "subject", i18n.MsgContactSubjectMax},
		{"message blank", func(in *ContactInput) { in.Message = "\n\t" }, "message", i18n.MsgContactMessageReq},
		{"message short", func(in *ContactInput) { in.Message = "123456789" }, "message", i18n.MsgContactMessageMin},
		{"message long", func(in *ContactInput) { in.Message = strings.Repeat("m", 5001) }, "message", i18n.MsgContactMessageMax},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validContactInput()
			tc.mutate(&in)
			var verr *ValidationError
			if !errors.As(ValidateContact(in), &verr) {
				t.Fatal("expected validation error")
			}
			if len(verr.Fields) != 1 {
				t.Fatalf("expected only %s to fail, got %v", tc.field, verr.Fields)
			}
			if verr.Fields[tc.field] != tc.key {
				t.Fatalf("got %q want %q", verr.Fields[tc.field], tc.key)
			}
		})
	}
}

func TestValidateContactCountsUTF16Units(t *testing.T) {
	in := validContactInput()
	in.Name = strings.Repeat("😀", 50)
	if err := ValidateContact(in); err != nil {
		t.Fatalf("50 surrogate pairs is exactly 100 units: %v", err)
	}
	in.Name = strings.Repeat("😀", 51)
	if err := ValidateContact(in); err == nil {
		t.Fatal("expected 102 units to exceed the name bound")
	}
	in = validContactInput()
	in.Message = "あいうえおかきくけこ"
	if err := ValidateContact(in); err != nil {
		t.Fatalf("10 BMP characters should satisfy the minimum: %v", err)
	}
}

func TestSubmitEscapesPersistsAndNotifies(t *testing.T) {
	ctrl := gomock.NewController(t)
	contacts := repogomock.NewMockContactRepository(ctrl)
	created := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)
	contacts.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, c *domain.Contact) error {
		c.ID = "c1"
		c.CreatedAt = created
		return nil
	})
	notifier := &recordingNotifier{}
	svc := NewContactService(contacts, notifier, time.Second, nil)

	in := ContactInput{
		Name:    "  <b>Taro</b> ",
		Email:   "Taro@Example.COM",
		Subject: `"Hi" & 'bye'`,
		Message: "  <script>alert(1)</script>  ",
	}
	c, err := svc.Submit(context.Background(), in)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if c.Name != "&lt;b&gt;Taro&lt;/b&gt;" {
		t.Fatalf("name not escaped: %q", c.Name)
	}
	if c.Email != "taro@example.com" {
		t.Fatalf("email not normalized: %q", c.Email)
	}
	if c.Subject != "&quot;Hi&quot; &amp; &#039;bye&#039;" {
		t.Fatalf("subject not escaped: %q", c.Subject)
	}
	if c.Message != "&lt;script&gt;alert(1)&lt;/script&gt;" {
		t.Fatalf("message not escaped: %q", c.Message)
	}
	if c.Status != domain.ContactUnread {
		t.Fatalf("expected unread status, got %q", c.Status)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := svc.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.sent) != 1 || notifier.sent[0].Subject != c.Subject || !notifier.sent[0].ReceivedAt.Equal(created) {
		t.Fatalf("unexpected notifications: %+v", notifier.sent)
	}
}

func TestSubmitNotificationFailureDoesNotFailRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	contacts := repogomock.NewMockContactRepository(ctrl)
	contacts.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	svc := NewContactService(contacts, &recordingNotifier{err: errors.New("smtp down")}, time.Second, nil)

	if _, err := svc.Submit(context.Background(), validContactInput()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := svc.Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}
}

func TestSubmitNotifiesAfterRequestContextEnds(t *testing.T) {
	ctrl := gomock.NewController(t)
	contacts := repogomock.NewMockContactRepository(ctrl)
	contacts.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	notifier := &ctxCheckingNotifier{done: make(chan error, 1)}
	svc := NewContactService(contacts, notifier, time.Second, nil)

	reqCtx, cancel := context.WithCancel(context.Background())
	if _, err := svc.Submit(reqCtx, validContactInput()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	cancel()
	if err := <-notifier.done; err != nil {
		t.Fatalf("notifier saw cancelled context: %v", err)
	}
}

type ctxCheckingNotifier struct{ done chan error }

func (n *ctxCheckingNotifier) Channel() string { return "test" }

func (n *ctxCheckingNotifier) NotifyContact(ctx context.Context, _ ContactNotification) error {
	time.Sleep(20 * time.Millisecond)
	n.done <- ctx.Err()
	return nil
}

func TestSubmitStoreFailureSkipsNotification(t *testing.T) {
	ctrl := gomock.NewController(t)
	contacts := repogomock.NewMockContactRepository(ctrl)
	contacts.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("insert failed"))
	notifier := &recordingNotifier{}
	svc := NewContactService(contacts, notifier, time.Second, nil)

	if _, err := svc.Submit(context.Background(), validContactInput()); err == nil {
		t.Fatal("expected store error")
	}
	_ = svc.Wait(context.Background())
	if len(notifier.sent) != 0 {
		t.Fatal("expected no notification after store failure")
	}
}

func TestSubmitInvalidSkipsStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	contacts := repogomock.NewMockContactRepository(ctrl)
	svc := NewContactService(contacts, &recordingNotifier{}, time.Second, nil)

	in := validContactInput()
	in.Message = "short"
	var verr *ValidationError
	if _, err := svc.Submit(context.Background(), in); !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Fields["message"] != i18n.MsgContactMessageMin {
		t.Fatalf("unexpected field errors: %v", verr.Fields)
	}
}

func TestSubmitRejectsRecordOutOfBoundsAfterTrimAndEscape(t *testing.T) {
	ctrl := gomock.NewController(t)
	contacts := repogomock.NewMockContactRepository(ctrl)
	notifier := &recordingNotifier{}
	svc := NewContactService(contacts, notifier, time.Second, nil)

	trimmedShort := validContactInput()
	trimmedShort.Message = "a" + strings.Repeat(" ", 9)
	escapedLongName := validContactInput()
	escapedLongName.Name = strings.Repeat("'", domain.MaxContactNameLength)
	escapedLongSubject := validContactInput()
	escapedLongSubject.Subject = strings.Repeat("&", 50)

	for name, in := range map[string]ContactInput{
		"message shorter than 10 after trim":   trimmedShort,
		"name longer than 100 after escape":    escapedLongName,
		"subject longer than 200 after escape": escapedLongSubject,
	} {
		if err := ValidateContact(in); err != nil {
			t.Fatalf("%s: expected the form rules to pass, got %v", name, err)
		}
		if _, err := svc.Submit(context.Background(), in); !errors.Is(err, ErrContactRecordInvalid) {
			t.Fatalf("%s: expected ErrContactRecordInvalid, got %v", name, err)
		}
	}
	if len(notifier.sent) != 0 {
		t.Fatalf("expected no notifications, got %d", len(notifier.sent))
	}
}
