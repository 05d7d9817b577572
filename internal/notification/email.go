package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const resendEndpoint = "https://api.resend.com/emails"

// EmailSender delivers transactional mail through the Resend API.
// Outside production dispatch is a logged no-op so local flows work
// without credentials.
type EmailSender struct {
	apiKey  string
	from    string
	enabled bool
	client  *http.Client
}

func NewEmailSender(apiKey, from string, enabled bool) *EmailSender {
	return &EmailSender{
		apiKey:  apiKey,
		from:    from,
		enabled: enabled,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *EmailSender) Send(ctx context.Context, to, subject, html, text string) error {
	if !s.enabled {
		log.Printf("[DEV] sendEmail to=%s subject=%q", to, subject)
		return nil
	}

	if s.apiKey == "" || s.from == "" {
		return fmt.Errorf("email sender is not configured")
	}

	payload, err := json.Marshal(map[string]string{
		"from":    s.from,
		"to":      to,
		"subject": subject,
		"html":    html,
		"text":    text,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendEndpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("email delivery failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("email delivery failed: %s: %s", resp.Status, detail)
	}

	return nil
}
