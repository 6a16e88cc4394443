// Package notify provides push-notification channels for the digest.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"signal-desk/internal/config"
	"signal-desk/internal/errors"
)

// sendTimeout bounds every outbound push. A send is fire-and-forget with
// respect to the pipeline: failure is surfaced to the operator but never
// touches the in-memory ranking.
const sendTimeout = 10 * time.Second

// Channel delivers a digest to one destination.
type Channel interface {
	Name() string
	IsEnabled() bool
	Send(ctx context.Context, text string) error
}

// Multi fans a digest out to every enabled channel. Errors from individual
// channels are collected, not short-circuited.
type Multi struct {
	channels []Channel
}

// NewMulti builds the channel fan-out from configuration.
func NewMulti(cfg config.NotificationConfig) *Multi {
	m := &Multi{}
	if cfg.Telegram.Enabled {
		m.channels = append(m.channels, NewTelegram(cfg.Telegram))
	}
	if cfg.Webhook.Enabled {
		m.channels = append(m.channels, NewWebhook(cfg.Webhook))
	}
	return m
}

// AddChannel registers an extra channel.
func (m *Multi) AddChannel(ch Channel) {
	m.channels = append(m.channels, ch)
}

// HasChannels reports whether at least one channel is enabled.
func (m *Multi) HasChannels() bool {
	for _, ch := range m.channels {
		if ch.IsEnabled() {
			return true
		}
	}
	return false
}

// Send delivers the digest to all enabled channels.
func (m *Multi) Send(ctx context.Context, text string) error {
	if !m.HasChannels() {
		return errors.ErrNoCredentials
	}

	var failures []string
	for _, ch := range m.channels {
		if !ch.IsEnabled() {
			continue
		}
		if err := ch.Send(ctx, text); err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", ch.Name(), err))
		}
	}

	if len(failures) > 0 {
		return fmt.Errorf("notification errors: %s", strings.Join(failures, "; "))
	}
	return nil
}

// Telegram sends digests via the Telegram bot API.
type Telegram struct {
	botToken string
	chatID   string
	enabled  bool
	client   *http.Client
	baseURL  string
}

// NewTelegram creates a Telegram channel.
func NewTelegram(cfg config.TelegramConfig) *Telegram {
	return &Telegram{
		botToken: cfg.BotToken,
		chatID:   cfg.ChatID,
		enabled:  cfg.Enabled && cfg.BotToken != "" && cfg.ChatID != "",
		client:   &http.Client{Timeout: sendTimeout},
		baseURL:  "https://api.telegram.org",
	}
}

// Name returns the name of the channel.
func (t *Telegram) Name() string { return "telegram" }

// IsEnabled returns whether the channel is configured.
func (t *Telegram) IsEnabled() bool { return t.enabled }

// SetBaseURL overrides the API host. Used by tests.
func (t *Telegram) SetBaseURL(u string) { t.baseURL = u }

// Send delivers the text via sendMessage. A non-200 status is surfaced
// verbatim, including a bounded excerpt of the response body, so the
// operator sees exactly what the API said. No automatic retry.
func (t *Telegram) Send(ctx context.Context, text string) error {
	if !t.enabled {
		return nil
	}

	payload := map[string]any{
		"chat_id": t.chatID,
		"text":    text,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return errors.NewDeliveryError(t.Name(), 0, "", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return errors.NewDeliveryError(t.Name(), 0, "", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return errors.NewDeliveryError(t.Name(), 0, "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.NewDeliveryError(t.Name(), resp.StatusCode, readExcerpt(resp.Body), nil)
	}
	return nil
}

// Webhook posts the digest as JSON to a generic endpoint.
type Webhook struct {
	url     string
	enabled bool
	client  *http.Client
}

// NewWebhook creates a webhook channel.
func NewWebhook(cfg config.WebhookConfig) *Webhook {
	return &Webhook{
		url:     cfg.URL,
		enabled: cfg.Enabled && cfg.URL != "",
		client:  &http.Client{Timeout: sendTimeout},
	}
}

// Name returns the name of the channel.
func (w *Webhook) Name() string { return "webhook" }

// IsEnabled returns whether the channel is configured.
func (w *Webhook) IsEnabled() bool { return w.enabled }

// Send posts the digest text.
func (w *Webhook) Send(ctx context.Context, text string) error {
	if !w.enabled {
		return nil
	}

	payload := map[string]any{
		"text":      text,
		"timestamp": time.Now().Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return errors.NewDeliveryError(w.Name(), 0, "", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return errors.NewDeliveryError(w.Name(), 0, "", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "SignalDesk/1.0")

	resp, err := w.client.Do(req)
	if err != nil {
		return errors.NewDeliveryError(w.Name(), 0, "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.NewDeliveryError(w.Name(), resp.StatusCode, readExcerpt(resp.Body), nil)
	}
	return nil
}

// readExcerpt reads up to 200 bytes of a response body for error surfacing.
func readExcerpt(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, 200))
	return string(data)
}
