package contact

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"

	strip "github.com/grokify/html-strip-tags-go"
)

// Mailer delivers a validated submission.
type Mailer interface {
	Deliver(ctx context.Context, s Submission) error
}

// SMTPConfig configures an SMTPMailer.
type SMTPConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
	// Username is both the login and the From address.
	Username string `toml:"username"`
	Password string `toml:"password"`
	// To is the fixed recipient.
	To string `toml:"to"`
}

// DefaultSMTPConfig returns the Gmail submission server settings without
// credentials.
func DefaultSMTPConfig() SMTPConfig {
	return SMTPConfig{Host: "smtp.gmail.com", Port: 587}
}

// SMTPMailer sends submissions as multipart/alternative mail with an HTML
// and a plain-text part. The From address is the authenticated user and
// Reply-To is the submitter.
type SMTPMailer struct {
	cfg  SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPMailer creates a mailer using net/smtp.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, send: smtp.SendMail}
}

// Deliver renders and sends s.
func (m *SMTPMailer) Deliver(ctx context.Context, s Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg, err := ComposeMessage(m.cfg.Username, m.cfg.To, s)
	if err != nil {
		return err
	}
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := m.send(addr, auth, m.cfg.Username, []string{m.cfg.To}, msg); err != nil {
		return fmt.Errorf("contact: smtp %s: %w", addr, err)
	}
	return nil
}

// Subject returns the mail subject for a submission.
func Subject(s Submission) string {
	return "New Contact Form Message from " + s.Email
}

var htmlBody = template.Must(template.New("mail").Parse(`<div style="font-family: Arial, sans-serif; padding: 20px; background: #000; color: #fff;">
  <h2 style="text-transform: uppercase; letter-spacing: 0.1em;">NEW MESSAGE FROM PORTFOLIO</h2>
  <hr style="border: 1px solid #fff; margin: 20px 0;">
  <p><strong>FROM:</strong> {{.Email}}</p>
  <hr style="border: 1px solid #333; margin: 20px 0;">
  <p><strong>MESSAGE:</strong></p>
  <div style="background: #111; padding: 20px; border-left: 4px solid #fff; margin: 20px 0;">
    {{range $i, $line := .Lines}}{{if $i}}<br>{{end}}{{$line}}{{end}}
  </div>
  <hr style="border: 1px solid #333; margin: 20px 0;">
  <p style="font-size: 12px; opacity: 0.6;">This message was sent from your portfolio contact form.</p>
</div>
`))

// RenderHTML returns the HTML part. The message is escaped and each
// newline becomes a <br>.
func RenderHTML(s Submission) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Email string
		Lines []string
	}{s.Email, strings.Split(normalizeNewlines(s.Message), "\n")}
	if err := htmlBody.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("contact: render html: %w", err)
	}
	return buf.String(), nil
}

// RenderText returns the plain-text part with any markup stripped from the
// message.
func RenderText(s Submission) string {
	var b strings.Builder
	b.WriteString("NEW MESSAGE FROM PORTFOLIO\n\n")
	b.WriteString("FROM: " + s.Email + "\n\n")
	b.WriteString("MESSAGE:\n")
	b.WriteString(strip.StripTags(normalizeNewlines(s.Message)))
	b.WriteString("\n\n---\nThis message was sent from your portfolio contact form.\n")
	return b.String()
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

// ComposeMessage builds the complete RFC 5322 message.
func ComposeMessage(from, to string, s Submission) ([]byte, error) {
	html, err := RenderHTML(s)
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := writePart(mw, "text/plain; charset=utf-8", RenderText(s)); err != nil {
		return nil, err
	}
	if err := writePart(mw, "text/html; charset=utf-8", html); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("contact: compose: %w", err)
	}

	var msg bytes.Buffer
	header := func(k, v string) {
		msg.WriteString(k + ": " + v + "\r\n")
	}
	header("From", from)
	header("To", to)
	header("Reply-To", s.Email)
	header("Subject", mime.QEncoding.Encode("utf-8", Subject(s)))
	header("MIME-Version", "1.0")
	header("Content-Type", "multipart/alternative; boundary="+mw.Boundary())
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())
	return msg.Bytes(), nil
}

func writePart(mw *multipart.Writer, contentType, content string) error {
	w, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {contentType},
		"Content-Transfer-Encoding": {"quoted-printable"},
	})
	if err != nil {
		return fmt.Errorf("contact: compose: %w", err)
	}
	qp := quotedprintable.NewWriter(w)
	if _, err := qp.Write([]byte(content)); err != nil {
		return fmt.Errorf("contact: compose: %w", err)
	}
	return qp.Close()
}
