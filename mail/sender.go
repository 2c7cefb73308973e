// Package mail is the email-style side fan-out of domain notifications.
// It subscribes to its own feed, independent of the push path: a mail
// provider outage never affects in-app delivery, and vice versa.
package mail

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

type Config struct {
	APIKey string
	APIURL string
	From   string
}

// Enabled reports whether the provider is configured; the worker is not
// started otherwise.
func (c Config) Enabled() bool {
	return c.APIKey != "" && c.APIURL != "" && c.From != ""
}

type emailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html"`
}

// Sender posts transactional emails to a resend-style HTTP API.
type Sender struct {
	config Config
	client *http.Client
	log    *slog.Logger
}

func NewSender(config Config, log *slog.Logger) *Sender {
	return &Sender{
		config: config,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log,
	}
}

func (s *Sender) Send(to, subject, body string) error {
	payload := emailRequest{
		From:    s.config.From,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.config.APIURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("email provider refused: status %d", resp.StatusCode)
	}
	return nil
}
