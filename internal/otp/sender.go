package otp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Sender delivers a verification code to a destination over one channel.
// Implementations must be safe for concurrent use.
type Sender interface {
	// Name identifies the channel for logging.
	Name() string

	// Send delivers the code. A nil return means the provider accepted the
	// message, not that it reached the handset.
	Send(ctx context.Context, destination, code string) error
}

// --- Console sender ---

// ConsoleSender writes codes to the log instead of delivering them. It is
// wired only outside production so local development works without an SMS
// gateway.
type ConsoleSender struct {
	logger *slog.Logger
}

// NewConsoleSender creates a log-backed sender.
func NewConsoleSender(logger *slog.Logger) *ConsoleSender {
	return &ConsoleSender{logger: logger}
}

// Name identifies the channel.
func (s *ConsoleSender) Name() string { return "console" }

// Send logs the code.
func (s *ConsoleSender) Send(_ context.Context, destination, code string) error {
	s.logger.Info("verification code issued",
		slog.String("destination", destination),
		slog.String("code", code),
	)
	return nil
}

// --- Webhook sender ---

// WebhookSender posts codes to an HTTP SMS gateway. Any 2xx response counts
// as accepted.
type WebhookSender struct {
	name     string
	url      string
	apiKey   string
	template string
	client   *http.Client
}

// NewWebhookSender creates a gateway-backed sender. The template must
// contain one %s verb for the code.
func NewWebhookSender(name, url, apiKey, template string, timeout time.Duration) *WebhookSender {
	return &WebhookSender{
		name:     name,
		url:      url,
		apiKey:   apiKey,
		template: template,
		client:   &http.Client{Timeout: timeout},
	}
}

// Name identifies the channel.
func (s *WebhookSender) Name() string { return s.name }

// Send posts the message to the gateway.
func (s *WebhookSender) Send(ctx context.Context, destination, code string) error {
	payload, err := json.Marshal(map[string]string{
		"to":      destination,
		"message": fmt.Sprintf(s.template, code),
	})
	if err != nil {
		return fmt.Errorf("marshal gateway payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("call gateway: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}
	return nil
}
