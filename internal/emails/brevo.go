package emails

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

const brevoAPI = "https://api.brevo.com/v3/smtp/email"

// Sender sends transactional emails. A nil Sender is a no-op everywhere it
// is accepted.
type Sender interface {
	SendComplianceAlert(ctx context.Context, toEmail string, emissions, target decimal.Decimal) error
}

// brevoSendRequest matches Brevo API v3 send transactional email body.
type brevoSendRequest struct {
	Sender      brevoAddress   `json:"sender"`
	To          []brevoAddress `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
}

type brevoAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// BrevoClient sends emails via the Brevo (Sendinblue) API.
type BrevoClient struct {
	APIKey   string
	MailFrom string
	Client   *http.Client
}

func (c *BrevoClient) from() string {
	if c.MailFrom != "" {
		return c.MailFrom
	}
	return "noreply@carbonflow.app"
}

// SendComplianceAlert emails a user whose emissions are approaching their
// monthly target. Empty API key means emails are disabled (no-op).
func (c *BrevoClient) SendComplianceAlert(ctx context.Context, toEmail string, emissions, target decimal.Decimal) error {
	subject := "Compliance Alert: Action Required"
	html := fmt.Sprintf(
		`<h2>High Emissions Detected</h2>
<p>This is an automated alert from CarbonFlow. Your recent emissions of %s tCO₂e are approaching your monthly target of %s tCO₂e.</p>
<p>Please review your emissions and take corrective action to remain compliant.</p>`,
		emissions.StringFixed(1), target.StringFixed(1))
	return c.send(ctx, toEmail, subject, html)
}

func (c *BrevoClient) send(ctx context.Context, toEmail, subject, html string) error {
	if c.APIKey == "" {
		return nil
	}
	body := brevoSendRequest{
		Sender:      brevoAddress{Email: c.from(), Name: "CarbonFlow"},
		To:          []brevoAddress{{Email: toEmail}},
		Subject:     subject,
		HTMLContent: html,
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, brevoAPI, bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	req.Header.Set("api-key", c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 15 * time.Second}
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("brevo send failed: status %d", resp.StatusCode)
	}
	return nil
}
