// Package email renders transactional emails and delivers them through an
// HTTP email API.
package email

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Kind names a transactional email template.
type Kind string

const (
	KindInvoice     Kind = "invoice"
	KindMaintenance Kind = "maintenance"
	KindInvitation  Kind = "invitation"
	KindWelcome     Kind = "welcome"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = map[Kind]*template.Template{}

func init() {
	for _, k := range []Kind{KindInvoice, KindMaintenance, KindInvitation, KindWelcome} {
		templates[k] = template.Must(template.ParseFS(templateFS, "templates/"+string(k)+".html"))
	}
}

// Message is a rendered email.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Render executes the template for kind with data.
func Render(kind Kind, to string, data map[string]any) (*Message, error) {
	t, ok := templates[kind]
	if !ok {
		return nil, fmt.Errorf("unknown email kind %q", kind)
	}
	var subject, body bytes.Buffer
	if err := t.ExecuteTemplate(&subject, "subject", data); err != nil {
		return nil, fmt.Errorf("render %s subject: %w", kind, err)
	}
	if err := t.ExecuteTemplate(&body, "body", data); err != nil {
		return nil, fmt.Errorf("render %s body: %w", kind, err)
	}
	return &Message{
		To:      to,
		Subject: strings.TrimSpace(subject.String()),
		HTML:    body.String(),
	}, nil
}

// Mailer delivers rendered messages.
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

// APIMailer posts messages to a Resend-compatible HTTP API.
type APIMailer struct {
	endpoint string
	apiKey   string
	from     string
	client   *http.Client
}

// NewAPIMailer creates a mailer for the API at endpoint (e.g. https://api.resend.com/emails).
func NewAPIMailer(endpoint, apiKey, from string) *APIMailer {
	return &APIMailer{
		endpoint: endpoint,
		apiKey:   apiKey,
		from:     from,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (m *APIMailer) Send(ctx context.Context, msg *Message) error {
	payload, err := json.Marshal(sendRequest{
		From:    m.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("encode email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("send email: status %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return nil
}

// LogMailer only logs messages. Used when no email API key is configured.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, msg *Message) error {
	slog.Info("Email not sent (no API key configured)", "to", msg.To, "subject", msg.Subject)
	return nil
}
