package mail

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-api/mailer/config"
)

type Mailer interface {
	Send(ctx context.Context, subject string, recipients []string) error
}

type sendFunc func(ctx context.Context, msg *gomail.Msg) error

// SMTPMailer delivers one message per batch, recipients go to Bcc.
type SMTPMailer struct {
	log  *zap.Logger
	cfg  config.Mail
	send sendFunc
	now  func() time.Time
}

func NewSMTPMailer(cfg config.Mail, log *zap.Logger) *SMTPMailer {
	m := &SMTPMailer{
		log: log.Named("smtp"),
		cfg: cfg,
		now: time.Now,
	}
	m.send = m.dialAndSend
	return m
}

func (m *SMTPMailer) Send(ctx context.Context, subject string, recipients []string) error {
	if len(recipients) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	msg, err := m.message(subject, recipients)
	if err != nil {
		return err
	}
	if err := m.send(ctx, msg); err != nil {
		return errors.Wrap(err, "smtp send")
	}
	m.log.Debug("mail sent", zap.String("subject", subject), zap.Int("recipients", len(recipients)))
	return nil
}

func (m *SMTPMailer) message(subject string, recipients []string) (*gomail.Msg, error) {
	subject = strings.NewReplacer("\r", "", "\n", " ").Replace(subject)

	msg := gomail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return nil, errors.Wrap(err, "from")
	}
	if err := msg.Bcc(recipients...); err != nil {
		return nil, errors.Wrap(err, "bcc")
	}
	msg.Subject(subject)
	msg.SetDateWithValue(m.now().UTC())
	msg.SetBodyString(gomail.TypeTextPlain, subject)
	return msg, nil
}

func (m *SMTPMailer) dialAndSend(ctx context.Context, msg *gomail.Msg) error {
	opts := []gomail.Option{
		gomail.WithPort(m.cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if m.cfg.User != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.cfg.User),
			gomail.WithPassword(m.cfg.Password),
		)
	}
	client, err := gomail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return errors.Wrap(err, "mail.NewClient")
	}
	return client.DialAndSendWithContext(ctx, msg)
}

type LogMailer struct {
	log *zap.Logger
}

func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{log: log.Named("mail")}
}

func (m *LogMailer) Send(_ context.Context, subject string, recipients []string) error {
	m.log.Info("mail", zap.String("subject", subject), zap.Strings("recipients", recipients))
	return nil
}

func New(cfg config.Mail, log *zap.Logger) Mailer {
	if cfg.Driver == config.MailDriverSMTP {
		return NewSMTPMailer(cfg, log)
	}
	return NewLogMailer(log)
}
