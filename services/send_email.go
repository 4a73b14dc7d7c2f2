package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog/log"
)

const resendEndpoint = "https://api.resend.com/emails"

// ResendEmailRequest represents the request payload for Resend API
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

// ResendEmailResponse represents the response from Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents an error response from Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
}

// ResendClient sends email through the Resend HTTP API.
type ResendClient struct {
	apiKey     string
	from       string
	endpoint   string
	httpClient *http.Client
}

func NewResendClient(apiKey, from string) *ResendClient {
	return &ResendClient{
		apiKey:     apiKey,
		from:       from,
		endpoint:   resendEndpoint,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// SendEmail sends an HTML email to recipients.
func (c *ResendClient) SendEmail(ctx context.Context, subject, html, replyTo string, recipients []string) error {
	if len(recipients) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}

	payload := ResendEmailRequest{
		From:    c.from,
		To:      recipients,
		Subject: subject,
		Html:    html,
		ReplyTo: replyTo,
	}
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create Resend API request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to Resend API: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read Resend API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ResendErrorResponse
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil && errorResp.Message != "" {
			return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, errorResp.Message)
		}
		return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var emailResponse ResendEmailResponse
	if err := json.Unmarshal(bodyBytes, &emailResponse); err != nil {
		log.Warn().Err(err).Msg("Failed to parse Resend email response, but email was sent")
	} else {
		log.Info().Str("emailId", emailResponse.ID).Msg("Successfully sent email via Resend")
	}
	return nil
}

var contactEmailTemplate = template.Must(template.New("contact").Funcs(template.FuncMap{
	"lines": func(s string) []string { return strings.Split(s, "\n") },
}).Parse(`<!DOCTYPE html>
<html>
<body style="font-family: 'Segoe UI', Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background: linear-gradient(135deg, #a855f7, #06b6d4); color: white; padding: 20px; border-radius: 8px 8px 0 0;">
      <h2 style="margin: 0;">New Contact Message</h2>
    </div>
    <div style="background: #f9fafb; padding: 20px; border: 1px solid #e5e7eb;">
      <p><strong>From</strong><br>{{.Name}}</p>
      <p><strong>Email</strong><br><a href="mailto:{{.Email}}">{{.Email}}</a></p>
      {{if .Subject}}<p><strong>Subject</strong><br>{{.Subject}}</p>{{end}}
      <div style="background: white; padding: 15px; border-radius: 8px; border-left: 4px solid #a855f7;">
        {{range $i, $line := lines .Message}}{{if $i}}<br>{{end}}{{$line}}{{end}}
      </div>
    </div>
    <p style="text-align: center; color: #9ca3af; font-size: 12px;">Sent from your portfolio contact form</p>
  </div>
</body>
</html>`))

// EmailNotifier mails new contact messages to the site owner.
type EmailNotifier struct {
	client     *ResendClient
	recipients []string
}

func NewEmailNotifier(client *ResendClient, recipients []string) *EmailNotifier {
	return &EmailNotifier{client: client, recipients: recipients}
}

func (n *EmailNotifier) Name() string { return "email" }

func (n *EmailNotifier) Notify(ctx context.Context, msg *models.Message) error {
	html, err := renderContactEmail(msg)
	if err != nil {
		return err
	}
	return n.client.SendEmail(ctx, contactSubject(msg), html, msg.Email, n.recipients)
}

func renderContactEmail(msg *models.Message) (string, error) {
	var buf bytes.Buffer
	if err := contactEmailTemplate.Execute(&buf, msg); err != nil {
		return "", fmt.Errorf("rendering contact email: %w", err)
	}
	return buf.String(), nil
}

func contactSubject(msg *models.Message) string {
	subject := msg.Subject
	if subject == "" {
		subject = "No Subject"
	}
	return fmt.Sprintf("New Contact: %s - from %s", subject, msg.Name)
}
