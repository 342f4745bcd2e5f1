package mail

import (
	"context"    // Cancellation checks
	"crypto/tls" // STARTTLS upgrade
	"errors"     // Sentinel configuration errors
	"fmt"        // Header formatting
	"net/smtp"   // SMTP protocol client
	"strings"    // Message assembly
	"sync"       // Guard for the shared connection
)

// ErrSMTPNotConfigured is returned when host or port is missing
var ErrSMTPNotConfigured = errors.New("smtp host and port are required")

// SMTPConfig configures the SMTP mailer
type SMTPConfig struct {
	Host string // SMTP server hostname
	Port string // SMTP server port
	User string // Authentication username, optional
	Pass string // Authentication password, optional
	From string // Sender address for all outgoing mail
}

// SMTPMailer sends mail over a single reused SMTP connection. The
// connection is dialed on first use and dropped on any delivery error,
// so the next Send re-dials. A mutex guards the handle because Send is
// called from concurrent request handlers.
type SMTPMailer struct {
	cfg    SMTPConfig   // Server settings
	mu     sync.Mutex   // Guards client
	client *smtp.Client // Lazily-dialed shared connection, nil until first use
}

// NewSMTPMailer constructs an SMTP mailer; it does not dial yet
func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	if cfg.Host == "" || cfg.Port == "" {
		return nil, ErrSMTPNotConfigured
	}
	return &SMTPMailer{cfg: cfg}, nil
}

// Send delivers one message, reusing the open connection when possible
func (m *SMTPMailer) Send(ctx context.Context, to, subject, text, html string) error {
	if err := ctx.Err(); err != nil {
		return err // Request already cancelled
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	client, err := m.conn()
	if err != nil {
		return err // Could not establish a connection
	}
	if err := deliver(client, m.cfg.From, to, subject, text, html); err != nil {
		m.reset() // Connection state is unknown after a failure, drop it
		return err
	}
	return nil
}

// conn returns the shared connection, dialing it on first use.
// Caller must hold mu.
func (m *SMTPMailer) conn() (*smtp.Client, error) {
	if m.client != nil {
		return m.client, nil // Reuse the open connection
	}
	client, err := smtp.Dial(m.cfg.Host + ":" + m.cfg.Port)
	if err != nil {
		return nil, err // Dial failure
	}
	// Upgrade to TLS when the server offers it
	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
			client.Close()
			return nil, err
		}
	}
	// Authenticate when credentials are configured
	if m.cfg.User != "" && m.cfg.Pass != "" {
		auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
		if err := client.Auth(auth); err != nil {
			client.Close()
			return nil, err
		}
	}
	m.client = client
	return m.client, nil
}

// reset discards the shared connection so the next Send re-dials.
// Caller must hold mu.
func (m *SMTPMailer) reset() {
	if m.client != nil {
		_ = m.client.Close() // Best effort, the handle is being dropped anyway
		m.client = nil
	}
}

// deliver runs one mail transaction on an open connection
func deliver(client *smtp.Client, from, to, subject, text, html string) error {
	if err := client.Mail(from); err != nil {
		return err // Sender rejected
	}
	if err := client.Rcpt(to); err != nil {
		return err // Recipient rejected
	}
	w, err := client.Data()
	if err != nil {
		return err // Could not open the data stream
	}
	if _, err := w.Write([]byte(BuildMessage(from, to, subject, text, html))); err != nil {
		w.Close()
		return err
	}
	return w.Close() // Server accepts the message on close
}

// BuildMessage assembles RFC 5322 headers and body for one message.
// When html is non-empty it wins over the plain-text body, mirroring
// how the client app renders OTP mail.
func BuildMessage(from, to, subject, text, html string) string {
	body := text
	contentType := "text/plain; charset=UTF-8"
	if html != "" {
		body = html
		contentType = "text/html; charset=UTF-8"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: %s\r\n", contentType)
	b.WriteString("\r\n")
	b.WriteString(body)
	return b.String()
}
