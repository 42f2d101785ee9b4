package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"

	"github.com/vulcanent/vulcanweb/internal/api/dto/v1/contact"
	"github.com/vulcanent/vulcanweb/internal/config"
	"github.com/vulcanent/vulcanweb/internal/logging"
)

// Email is a plain-text notification for the site owner
type Email struct {
	Subject string
	Body    string
	ReplyTo string
}

// ContactEmail formats a contact form submission
func ContactEmail(form *contact.ContactRequest) Email {
	name := singleLine(form.FirstName) + " " + singleLine(form.LastName)
	return Email{
		Subject: "Contact Form Submission from " + name,
		Body: fmt.Sprintf(
			"Contact Form Submission:\n\nName: %s\nEmail: %s\nMessage:\n\n%s\n",
			name, form.Email, form.Message,
		),
		ReplyTo: singleLine(form.Email),
	}
}

// NewsletterEmail formats a newsletter subscription
func NewsletterEmail(email string) Email {
	return Email{
		Subject: "New Newsletter Subscription",
		Body:    fmt.Sprintf("New Newsletter Subscription:\n\nEmail: %s\n", email),
	}
}

func singleLine(s string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(s)
}

// Mailer sends notification emails
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// mailTransport is the part of *mail.Client the service uses
type mailTransport interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// MailService delivers emails over SMTP. Sends are paced so a burst of
// form posts from many clients cannot exhaust the SMTP account's quota.
type MailService struct {
	cfg    config.Mail
	dial   func() (mailTransport, error)
	pacer  *rate.Limiter
	logger *logging.Logger
}

// NewMailService creates a new mail service
func NewMailService(cfg config.Mail) *MailService {
	s := &MailService{
		cfg:    cfg,
		logger: logging.GetGlobalLogger(),
	}
	if limit, ok := cfg.SendLimit(); ok {
		s.pacer = limit.Pacer()
	}
	s.dial = s.newClient
	return s
}

func (s *MailService) newClient() (mailTransport, error) {
	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithTimeout(s.cfg.Timeout),
	}

	switch {
	case s.cfg.UseSSL:
		opts = append(opts, mail.WithSSL())
	case s.cfg.UseTLS:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	default:
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	if s.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(smtpAuthType(s.cfg.Auth)),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}

	client, err := mail.NewClient(s.cfg.Server, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}
	return client, nil
}

func smtpAuthType(name string) mail.SMTPAuthType {
	switch strings.ToLower(name) {
	case "login":
		return mail.SMTPAuthLogin
	case "cram-md5":
		return mail.SMTPAuthCramMD5
	default:
		return mail.SMTPAuthPlain
	}
}

// BuildMessage turns an Email into a go-mail message addressed to the recipient
func (s *MailService) BuildMessage(email Email) (*mail.Msg, error) {
	if s.cfg.Username == "" || s.cfg.Recipient == "" {
		return nil, ErrMailNotConfigured
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(s.cfg.SenderName, s.cfg.Username); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(s.cfg.Recipient); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	if email.ReplyTo != "" {
		if err := msg.ReplyTo(email.ReplyTo); err != nil {
			return nil, fmt.Errorf("invalid reply-to address: %w", err)
		}
	}
	msg.Subject(singleLine(email.Subject))
	msg.SetBodyString(mail.TypeTextPlain, email.Body)
	return msg, nil
}

// Send delivers the email, or only logs it when sending is suppressed
func (s *MailService) Send(ctx context.Context, email Email) error {
	ctx, span := otel.Tracer("vulcanweb/service").Start(ctx, "mail.send")
	defer span.End()
	span.SetAttributes(
		attribute.String("mail.server", s.cfg.Server),
		attribute.Bool("mail.suppressed", s.cfg.SuppressSend),
	)

	msg, err := s.BuildMessage(email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if s.cfg.SuppressSend {
		s.logger.Info("[MAIL] Suppressed send to %s: %s", s.cfg.Recipient, email.Subject)
		return nil
	}

	if s.pacer != nil {
		// Wait fails at once when the request context would expire first
		if err := s.pacer.Wait(ctx); err != nil {
			err = fmt.Errorf("mail send rate exceeded: %w", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
	}

	client, err := s.dial()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to send mail: %w", err)
	}

	s.logger.Debug("[MAIL] Sent %q to %s", email.Subject, s.cfg.Recipient)
	return nil
}
