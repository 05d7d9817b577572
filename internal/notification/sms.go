package notification

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SMSSender delivers text messages through the Twilio REST API, with the
// same env-gated no-op as the email sender.
type SMSSender struct {
	accountSID string
	authToken  string
	from       string
	enabled    bool
	client     *http.Client
}

func NewSMSSender(accountSID, authToken, from string, enabled bool) *SMSSender {
	return &SMSSender{
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		enabled:    enabled,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *SMSSender) Send(ctx context.Context, to, body string) error {
	if !s.enabled {
		log.Printf("[DEV] sendSms to=%s body=%q", to, body)
		return nil
	}

	if s.accountSID == "" || s.authToken == "" || s.from == "" {
		return fmt.Errorf("sms sender is not configured")
	}

	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", s.accountSID)
	form := url.Values{}
	form.Set("From", s.from)
	form.Set("To", to)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(s.accountSID, s.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms delivery failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("sms delivery failed: %s: %s", resp.Status, detail)
	}

	return nil
}
