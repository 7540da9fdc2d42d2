package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Mailer sends a single HTML email.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// NoopMailer is used when no mail provider is configured.
type NoopMailer struct{}

func (NoopMailer) Send(context.Context, string, string, string) error { return nil }

// email request payload for ZeptoMail API
type emailRequest struct {
	From     emailAddress  `json:"from"`
	To       []toRecipient `json:"to"`
	Subject  string        `json:"subject"`
	HtmlBody string        `json:"htmlbody"`
}

type emailAddress struct {
	Address string `json:"address"`
}

type toRecipient struct {
	Email emailWithName `json:"email_address"`
}

type emailWithName struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
}

// ZeptoMailer sends through the ZeptoMail HTTP API.
type ZeptoMailer struct {
	APIURL string // e.g. https://api.zeptomail.com/v1.1/email
	APIKey string // e.g. Zoho-enczapikey xxxxx
	From   string
	Client *http.Client
}

func NewZeptoMailer(apiURL, apiKey, from string) *ZeptoMailer {
	return &ZeptoMailer{
		APIURL: apiURL,
		APIKey: apiKey,
		From:   from,
		Client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (m *ZeptoMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	payload := emailRequest{
		From:     emailAddress{Address: m.From},
		To:       []toRecipient{{Email: emailWithName{Address: to}}},
		Subject:  subject,
		HtmlBody: htmlBody,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.APIURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("create email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", m.APIKey)

	resp, err := m.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("zeptomail API error: %s", resp.Status)
	}
	return nil
}
