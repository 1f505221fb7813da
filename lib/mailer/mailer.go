package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"usydrc/lib/telemetry"

	"github.com/jordan-wright/email"
	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("usydrc.lib.mailer")

const (
	Subject     = "Exam results"
	TestMessage = "This is how your results will be delivered!"
)

// GuessServer picks the SMTP server for well known providers. The second
// return value is false when the address' domain isn't recognized.
func GuessServer(address string) (string, bool) {
	_, domain, found := strings.Cut(strings.ToLower(strings.TrimSpace(address)), "@")
	if !found {
		return "", false
	}

	switch {
	case domain == "gmail.com":
		return "smtp.gmail.com:587", true
	case strings.HasPrefix(domain, "yahoo"):
		return "plus.smtp.mail.yahoo.com:465", true
	case strings.HasPrefix(domain, "live"),
		strings.HasPrefix(domain, "hotmail"),
		strings.HasPrefix(domain, "outlook"),
		domain == "uni.sydney.edu.au":
		return "smtp.office365.com:587", true
	}
	return "", false
}

type Options struct {
	// host:port
	Server   string
	Address  string
	Password string
}

type sendFunc func(mail *email.Email, addr string, auth smtp.Auth, implicitTls bool) error

type Mailer struct {
	options Options
	send    sendFunc
}

func NewMailer(options Options) Mailer {
	return Mailer{options: options, send: sendMail}
}

func sendMail(mail *email.Email, addr string, auth smtp.Auth, implicitTls bool) error {
	if !implicitTls {
		return mail.Send(addr, auth)
	}
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}
	return mail.SendWithTLS(addr, auth, &tls.Config{ServerName: host})
}

// Send delivers a plain text message from the configured address to itself.
func (m Mailer) Send(ctx context.Context, subject, body string) error {
	ctx, span := tracer.Start(ctx, "Send")
	defer span.End()

	host, port, err := net.SplitHostPort(m.options.Server)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid server address")
		return fmt.Errorf("invalid smtp server %q: %w", m.options.Server, err)
	}
	span.SetAttributes(attribute.String("server", m.options.Server))

	mail := email.NewEmail()
	mail.From = m.options.Address
	mail.To = []string{m.options.Address}
	mail.Subject = subject
	mail.Text = []byte(body)

	implicitTls := port == "465"
	err = m.send(
		mail,
		m.options.Server,
		smtp.PlainAuth("", m.options.Address, m.options.Password, host),
		implicitTls,
	)
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = m.send(mail, m.options.Server, nil, implicitTls)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send email")
		return err
	}
	return nil
}

// SendTest sends a sample message with a confirmation code, the code is
// returned so the operator can match it against their inbox.
func (m Mailer) SendTest(ctx context.Context) (string, error) {
	code, err := random.String(8)
	if err != nil {
		return "", err
	}
	body := fmt.Sprintf("%s\n\nConfirmation code: %s", TestMessage, code)
	err = m.Send(ctx, Subject, body)
	if err != nil {
		return "", err
	}
	return code, nil
}
