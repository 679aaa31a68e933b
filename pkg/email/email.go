package email

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/tls"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Config holds SMTP configuration
type Config struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
	Timeout      time.Duration
}

// Attachment is a file carried by a message. Inline attachments need a
// ContentID and are referenced from the HTML as cid:<ContentID>.
type Attachment struct {
	Filename    string
	ContentType string
	ContentID   string
	Data        []byte
}

// Message is one outgoing HTML email.
type Message struct {
	To          string
	ToName      string
	Subject     string
	HTMLBody    string
	TextBody    string
	Attachments []Attachment
	Inline      []Attachment
}

// Sender delivers messages and returns the Message-ID used.
type Sender interface {
	Send(ctx context.Context, msg *Message) (string, error)
}

// ErrNoRecipient is returned for messages without a To address.
var ErrNoRecipient = errors.New("email: no recipient")

// SMTPSender delivers mail through an SMTP relay. Port 465 uses implicit
// TLS, other ports upgrade with STARTTLS when the server offers it.
type SMTPSender struct {
	config Config
	now    func() time.Time
}

// NewSMTPSender creates a new SMTP sender
func NewSMTPSender(config Config) *SMTPSender {
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	return &SMTPSender{config: config, now: time.Now}
}

// Send builds the MIME message and delivers it.
func (s *SMTPSender) Send(ctx context.Context, msg *Message) (string, error) {
	if strings.TrimSpace(msg.To) == "" {
		return "", ErrNoRecipient
	}
	messageID := newMessageID(s.config.FromEmail)
	raw, err := Build(s.config.FromName, s.config.FromEmail, messageID, s.now(), msg)
	if err != nil {
		return "", err
	}
	if err := s.deliver(ctx, msg.To, raw); err != nil {
		return "", err
	}
	return messageID, nil
}

func (s *SMTPSender) deliver(ctx context.Context, to string, raw []byte) error {
	addr := net.JoinHostPort(s.config.SMTPHost, fmt.Sprint(s.config.SMTPPort))
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	var conn net.Conn
	var err error
	tlsConfig := &tls.Config{ServerName: s.config.SMTPHost}
	if s.config.SMTPPort == 465 {
		conn, err = (&tls.Dialer{Config: tlsConfig}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = (&net.Dialer{}).DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, s.config.SMTPHost)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to start smtp session: %w", err)
	}
	defer client.Close()

	if s.config.SMTPPort != 465 {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(tlsConfig); err != nil {
				return fmt.Errorf("failed to start tls: %w", err)
			}
		}
	}
	if s.config.SMTPUsername != "" {
		auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("failed to authenticate: %w", err)
		}
	}
	if err := client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return client.Quit()
}

// LogSender only logs messages. It stands in for SMTP when no host is
// configured.
type LogSender struct {
	log *zap.Logger
}

// NewLogSender creates a sender that writes a log line per message.
func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log}
}

// Send logs msg and returns a generated Message-ID.
func (s *LogSender) Send(_ context.Context, msg *Message) (string, error) {
	if strings.TrimSpace(msg.To) == "" {
		return "", ErrNoRecipient
	}
	id := newMessageID("localhost")
	s.log.Info("email not sent, smtp disabled",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("attachments", len(msg.Attachments)),
		zap.String("message_id", id))
	return id, nil
}

// Build renders msg as an RFC 5322 message:
// multipart/mixed{ multipart/related{ multipart/alternative{text, html}, inline... }, attachments... }.
func Build(fromName, fromEmail, messageID string, date time.Time, msg *Message) ([]byte, error) {
	var buf bytes.Buffer
	mixed := multipart.NewWriter(&buf)

	headers := []string{
		"From: " + formatAddress(fromName, fromEmail),
		"To: " + formatAddress(msg.ToName, msg.To),
		"Subject: " + mime.QEncoding.Encode("UTF-8", msg.Subject),
		"Date: " + date.Format(time.RFC1123Z),
		"Message-ID: " + messageID,
		"MIME-Version: 1.0",
		"Content-Type: multipart/mixed; boundary=" + mixed.Boundary(),
	}
	var out bytes.Buffer
	out.WriteString(strings.Join(headers, "\r\n"))
	out.WriteString("\r\n\r\n")

	related := multipart.NewWriter(nil)
	relatedPart, err := mixed.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"multipart/related; boundary=" + related.Boundary()},
	})
	if err != nil {
		return nil, err
	}
	related = withBoundary(relatedPart, related.Boundary())

	alternative := multipart.NewWriter(nil)
	altPart, err := related.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"multipart/alternative; boundary=" + alternative.Boundary()},
	})
	if err != nil {
		return nil, err
	}
	alternative = withBoundary(altPart, alternative.Boundary())

	text := msg.TextBody
	if text == "" {
		text = PlainText(msg.HTMLBody)
	}
	if err := writeTextPart(alternative, "text/plain; charset=UTF-8", text); err != nil {
		return nil, err
	}
	if err := writeTextPart(alternative, "text/html; charset=UTF-8", msg.HTMLBody); err != nil {
		return nil, err
	}
	if err := alternative.Close(); err != nil {
		return nil, err
	}

	for _, a := range msg.Inline {
		if err := writeAttachment(related, a, true); err != nil {
			return nil, err
		}
	}
	if err := related.Close(); err != nil {
		return nil, err
	}

	for _, a := range msg.Attachments {
		if err := writeAttachment(mixed, a, false); err != nil {
			return nil, err
		}
	}
	if err := mixed.Close(); err != nil {
		return nil, err
	}

	out.Write(buf.Bytes())
	return out.Bytes(), nil
}

func withBoundary(w io.Writer, boundary string) *multipart.Writer {
	mw := multipart.NewWriter(w)
	_ = mw.SetBoundary(boundary)
	return mw
}

func writeTextPart(w *multipart.Writer, contentType, body string) error {
	part, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {contentType},
		"Content-Transfer-Encoding": {"base64"},
	})
	if err != nil {
		return err
	}
	return writeBase64(part, []byte(body))
}

func writeAttachment(w *multipart.Writer, a Attachment, inline bool) error {
	contentType := a.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header := textproto.MIMEHeader{
		"Content-Type":              {mime.FormatMediaType(contentType, map[string]string{"name": a.Filename})},
		"Content-Transfer-Encoding": {"base64"},
	}
	disposition := "attachment"
	if inline {
		disposition = "inline"
		header.Set("Content-ID", "<"+a.ContentID+">")
	}
	header.Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": a.Filename}))

	part, err := w.CreatePart(header)
	if err != nil {
		return err
	}
	return writeBase64(part, a.Data)
}

// writeBase64 writes data base64-encoded in 76 character lines.
func writeBase64(w io.Writer, data []byte) error {
	encoded := base64.StdEncoding.EncodeToString(data)
	for len(encoded) > 76 {
		if _, err := w.Write([]byte(encoded[:76] + "\r\n")); err != nil {
			return err
		}
		encoded = encoded[76:]
	}
	_, err := w.Write([]byte(encoded + "\r\n"))
	return err
}

func formatAddress(name, address string) string {
	if name == "" {
		return "<" + address + ">"
	}
	return mime.QEncoding.Encode("UTF-8", name) + " <" + address + ">"
}

func newMessageID(from string) string {
	domain := "localhost"
	if at := strings.LastIndex(from, "@"); at >= 0 && at < len(from)-1 {
		domain = from[at+1:]
	}
	raw := make([]byte, 12)
	_, _ = rand.Read(raw)
	return "<" + hex.EncodeToString(raw) + "@" + domain + ">"
}
