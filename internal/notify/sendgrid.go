package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/GeoMark/GM-Backend/internal/provider"
)

const sendgridURL = "https://api.sendgrid.com/v3/mail/send"

// Deliverer hands one message to a delivery channel and reports the resulting
// status. Implementations must treat per-recipient failures as a Failed
// status, not a batch-fatal error.
type Deliverer interface {
	Send(ctx context.Context, channel, recipient, subject, message string) (string, error)
}

// SendGridClient delivers email through the SendGrid v3 API.
type SendGridClient struct {
	apiKey     string
	sender     string
	httpClient *http.Client
}

// NewSendGridClient builds a client from SENDGRID_API_KEY and SENDER_EMAIL.
func NewSendGridClient() (*SendGridClient, error) {
	key := os.Getenv("SENDGRID_API_KEY")
	sender := os.Getenv("SENDER_EMAIL")
	if key == "" || sender == "" {
		return nil, fmt.Errorf("SENDGRID_API_KEY and SENDER_EMAIL must be set")
	}
	return &SendGridClient{
		apiKey: key,
		sender: sender,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

type sendgridMail struct {
	Personalizations []sendgridPersonalization `json:"personalizations"`
	From             sendgridAddress           `json:"from"`
	Subject          string                    `json:"subject"`
	Content          []sendgridContent         `json:"content"`
}

type sendgridPersonalization struct {
	To []sendgridAddress `json:"to"`
}

type sendgridAddress struct {
	Email string `json:"email"`
}

type sendgridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Send delivers one email. Only the "email" channel is supported; any other
// channel is a Failed attempt with an explanatory error.
func (c *SendGridClient) Send(ctx context.Context, channel, recipient, subject, message string) (string, error) {
	if channel != "email" {
		return StatusFailed, fmt.Errorf("unsupported channel %q", channel)
	}

	payload := sendgridMail{
		Personalizations: []sendgridPersonalization{{To: []sendgridAddress{{Email: recipient}}}},
		From:             sendgridAddress{Email: c.sender},
		Subject:          subject,
		Content:          []sendgridContent{{Type: "text/html", Value: message}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return StatusFailed, fmt.Errorf("encoding mail: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendgridURL, bytes.NewReader(body))
	if err != nil {
		return StatusFailed, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		provider.LogError("sendgrid", "send", err)
		return StatusFailed, fmt.Errorf("sendgrid request: %w", err)
	}
	defer resp.Body.Close()
	provider.LogResponse("sendgrid", resp.StatusCode, time.Since(start))

	// SendGrid acknowledges accepted mail with 202.
	if resp.StatusCode != http.StatusAccepted {
		return StatusFailed, fmt.Errorf("sendgrid returned HTTP %d", resp.StatusCode)
	}
	return StatusDelivered, nil
}
