package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/wneessen/go-mail"

	"github.com/sandeepkv93/codereview-portal/internal/config"
)

// ContactNotification is what the admin is told about a new inquiry. Text
// fields are already escaped.
type ContactNotification struct {
	Name       string
	Email      string
	Subject    string
	Message    string
	ReceivedAt time.Time
}

type ContactNotifier interface {
	Channel() string
	NotifyContact(ctx context.Context, n ContactNotification) error
}

// ErrNotificationSkipped reports that no notifier is configured.
var ErrNotificationSkipped = errors.New("contact notification skipped")

type DisabledNotifier struct {
	logger *slog.Logger
}

func NewDisabledNotifier(logger *slog.Logger) *DisabledNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &DisabledNotifier{logger: logger}
}

func (n *DisabledNotifier) Channel() string { return "disabled" }

func (n *DisabledNotifier) NotifyContact(ctx context.Context, _ ContactNotification) error {
	n.logger.WarnContext(ctx, "smtp settings incomplete, skipping contact notification")
	return ErrNotificationSkipped
}

type SMTPNotifier struct {
	host     string
	port     int
	secure   bool
	user     string
	pass     string
	from     string
	to       string
	timeout  time.Duration
	location *time.Location
}

func NewSMTPNotifier(cfg *config.Config) *SMTPNotifier {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		loc = time.FixedZone("JST", 9*60*60)
	}
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	return &SMTPNotifier{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		secure:   cfg.SMTPSecure,
		user:     cfg.SMTPUser,
		pass:     cfg.SMTPPass,
		from:     from,
		to:       cfg.AdminEmail,
		timeout:  cfg.NotificationTimeout,
		location: loc,
	}
}

// NewContactNotifier picks SMTP when every SMTP setting is present.
func NewContactNotifier(cfg *config.Config, logger *slog.Logger) ContactNotifier {
	if cfg.MailEnabled() {
		return NewSMTPNotifier(cfg)
	}
	return NewDisabledNotifier(logger)
}

func (n *SMTPNotifier) Channel() string { return "smtp" }

func (n *SMTPNotifier) NotifyContact(ctx context.Context, c ContactNotification) error {
	msg, err := n.buildMessage(c)
	if err != nil {
		return err
	}
	opts := []mail.Option{
		mail.WithPort(n.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(n.user),
		mail.WithPassword(n.pass),
	}
	if n.secure {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}
	if n.timeout > 0 {
		opts = append(opts, mail.WithTimeout(n.timeout))
	}
	client, err := mail.NewClient(n.host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (n *SMTPNotifier) buildMessage(c ContactNotification) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(n.from); err != nil {
		return nil, fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(n.to); err != nil {
		return nil, fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(ContactSubject(c.Subject))
	msg.SetBodyString(mail.TypeTextPlain, ContactMailBody(c, n.location))
	return msg, nil
}

func ContactSubject(subject string) string {
	return "【お問い合わせ】" + subject
}

const mailRule = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

// ContactMailBody renders the admin notification text. ReceivedAt is shown
// in loc as YYYY/MM/DD HH:MM.
func ContactMailBody(c ContactNotification, loc *time.Location) string {
	var b strings.Builder
	b.WriteString(mailRule + "\n")
	b.WriteString("AIコードレビュー学習サービス - お問い合わせ通知\n")
	b.WriteString(mailRule + "\n\n")
	b.WriteString("以下のお問い合わせを受け付けました。\n\n")
	section := func(label, value string) {
		b.WriteString("【" + label + "】\n" + value + "\n\n")
	}
	section("お名前", c.Name)
	section("メールアドレス", c.Email)
	section("件名", c.Subject)
	section("お問い合わせ内容", c.Message)
	section("受付日時", c.ReceivedAt.In(loc).Format("2006/01/02 15:04"))
	b.WriteString(mailRule + "\n")
	b.WriteString("※このメールは自動送信されています。\n")
	return b.String()
}
