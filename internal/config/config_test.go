package config

import (
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("GROQ_API_KEY", "gsk-test")
	t.Setenv("GOOGLE_MAPS_API_KEY", "maps-test")
}

func TestLoadFailsWithoutRequiredSecrets(t *testing.T) {
	cases := []struct {
		missing string
		want    string
	}{
		{"TELEGRAM_BOT_TOKEN", "TELEGRAM_BOT_TOKEN"},
		{"GROQ_API_KEY", "GROQ_API_KEY"},
		{"GOOGLE_MAPS_API_KEY", "GOOGLE_MAPS_API_KEY"},
	}

	for _, tc := range cases {
		t.Run(tc.missing, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tc.missing, "")

			_, err := Load()
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not name %s", err, tc.want)
			}
		})
	}
}

func TestLoadGeneratesWebhookSecretWhenUnset(t *testing.T) {
	setRequired(t)
	t.Setenv("TELEGRAM_WEBHOOK_SECRET", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Telegram.WebhookSecret == "" {
		t.Fatal("expected a generated secret")
	}
	if !cfg.Telegram.SecretGenerated {
		t.Fatal("expected SecretGenerated to be set")
	}
}

func TestLoadKeepsExplicitWebhookSecret(t *testing.T) {
	setRequired(t)
	t.Setenv("TELEGRAM_WEBHOOK_SECRET", "shared-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Telegram.WebhookSecret != "shared-secret" || cfg.Telegram.SecretGenerated {
		t.Fatalf("unexpected telegram config: %+v", cfg.Telegram)
	}
}

func TestLoadNormalizesAddr(t *testing.T) {
	cases := map[string]string{
		"":               ":8080",
		"9000":           ":9000",
		":7777":          ":7777",
		"127.0.0.1:8081": "127.0.0.1:8081",
	}

	for port, want := range cases {
		setRequired(t)
		t.Setenv("PORT", port)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("PORT=%q: %v", port, err)
		}
		if cfg.Server.Addr != want {
			t.Fatalf("PORT=%q: expected %q, got %q", port, want, cfg.Server.Addr)
		}
	}
}

func TestLoadRejectsMalformedPort(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "80 80")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error for malformed PORT")
	}
}

func TestLoadDefaultsAndOverrides(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Places.Timeout != 10*time.Second {
		t.Fatalf("unexpected default places timeout: %v", cfg.Places.Timeout)
	}
	if cfg.Places.Locality != "Delhi" {
		t.Fatalf("unexpected default locality: %q", cfg.Places.Locality)
	}
	if cfg.AI.Model == cfg.AI.FastModel {
		t.Fatal("model tiers should differ by default")
	}

	t.Setenv("PLACES_TIMEOUT", "3")
	t.Setenv("PLACES_LOCALITY", "New Delhi")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load with overrides: %v", err)
	}
	if cfg.Places.Timeout != 3*time.Second || cfg.Places.Locality != "New Delhi" {
		t.Fatalf("overrides not applied: %+v", cfg.Places)
	}
}

func TestLoadRejectsMalformedTimeout(t *testing.T) {
	setRequired(t)
	t.Setenv("PLACES_TIMEOUT", "soon")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error for malformed PLACES_TIMEOUT")
	}
}
