package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"signal-desk/internal/config"
	"signal-desk/internal/errors"
)

func TestTelegramSend(t *testing.T) {
	var gotPath string
	var gotPayload map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotPayload)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	tg := NewTelegram(config.TelegramConfig{
		Enabled:  true,
		BotToken: "123:abc",
		ChatID:   "-100",
	})
	tg.SetBaseURL(server.URL)

	if err := tg.Send(context.Background(), "digest text"); err != nil {
		t.Fatalf("Send() error: %v", err)
	}

	if gotPath != "/bot123:abc/sendMessage" {
		t.Errorf("path = %q", gotPath)
	}
	if gotPayload["chat_id"] != "-100" || gotPayload["text"] != "digest text" {
		t.Errorf("payload = %v", gotPayload)
	}
}

func TestTelegramSendAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	defer server.Close()

	tg := NewTelegram(config.TelegramConfig{Enabled: true, BotToken: "t", ChatID: "c"})
	tg.SetBaseURL(server.URL)

	err := tg.Send(context.Background(), "x")
	if err == nil {
		t.Fatal("expected error for 400 response")
	}

	var delErr *errors.DeliveryError
	if !errors.As(err, &delErr) {
		t.Fatalf("expected DeliveryError, got %T", err)
	}
	if delErr.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d", delErr.StatusCode)
	}
	if !strings.Contains(delErr.Body, "chat not found") {
		t.Errorf("error should carry the API response, got %q", delErr.Body)
	}
}

func TestTelegramDisabledWithoutCredentials(t *testing.T) {
	tg := NewTelegram(config.TelegramConfig{Enabled: true})
	if tg.IsEnabled() {
		t.Error("channel without credentials must be disabled")
	}
	if err := tg.Send(context.Background(), "x"); err != nil {
		t.Errorf("disabled send should be a no-op, got %v", err)
	}
}

func TestWebhookSend(t *testing.T) {
	var gotPayload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotPayload)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	wh := NewWebhook(config.WebhookConfig{Enabled: true, URL: server.URL})
	if err := wh.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	if gotPayload["text"] != "hello" {
		t.Errorf("payload = %v", gotPayload)
	}
}

func TestWebhookSendFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	wh := NewWebhook(config.WebhookConfig{Enabled: true, URL: server.URL})
	err := wh.Send(context.Background(), "x")

	var delErr *errors.DeliveryError
	if !errors.As(err, &delErr) {
		t.Fatalf("expected DeliveryError, got %v", err)
	}
}

func TestMultiNoChannels(t *testing.T) {
	m := NewMulti(config.NotificationConfig{})
	err := m.Send(context.Background(), "x")
	if !errors.Is(err, errors.ErrNoCredentials) {
		t.Fatalf("expected ErrNoCredentials, got %v", err)
	}
}

type stubChannel struct {
	name string
	err  error
	sent []string
}

func (s *stubChannel) Name() string    { return s.name }
func (s *stubChannel) IsEnabled() bool { return true }
func (s *stubChannel) Send(ctx context.Context, text string) error {
	s.sent = append(s.sent, text)
	return s.err
}

func TestMultiCollectsFailures(t *testing.T) {
	bad := &stubChannel{name: "bad", err: errors.NewDeliveryError("bad", 500, "", nil)}
	good := &stubChannel{name: "good"}

	m := &Multi{}
	m.AddChannel(bad)
	m.AddChannel(good)

	err := m.Send(context.Background(), "digest")
	if err == nil {
		t.Fatal("expected aggregated error")
	}
	if !strings.Contains(err.Error(), "bad") {
		t.Errorf("error should name the failing channel: %v", err)
	}
	if len(good.sent) != 1 {
		t.Errorf("one channel failing must not stop the others")
	}
}
