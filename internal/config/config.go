package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/google/uuid"
)

// Config aggregates every setting the service needs.
type Config struct {
	Server   ServerConfig
	Telegram TelegramConfig
	AI       AIConfig
	Places   PlacesConfig
	Speech   SpeechConfig
}

// Load reads configuration from environment variables. Missing required
// secrets fail here, before any client is constructed.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	telegram, err := loadTelegramConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	places, err := loadPlacesConfig()
	if err != nil {
		return nil, err
	}

	speech := loadSpeechConfig()

	return &Config{
		Server:   server,
		Telegram: telegram,
		AI:       ai,
		Places:   places,
		Speech:   speech,
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" as-is.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// TelegramConfig carries the bot credentials and webhook settings.
type TelegramConfig struct {
	BotToken        string
	WebhookSecret   string
	WebhookBaseURL  string
	SecretGenerated bool
}

func loadTelegramConfig() (TelegramConfig, error) {
	token := strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))
	if token == "" {
		return TelegramConfig{}, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	secret := strings.TrimSpace(os.Getenv("TELEGRAM_WEBHOOK_SECRET"))
	generated := false
	if secret == "" {
		secret = uuid.NewString()
		generated = true
	}

	return TelegramConfig{
		BotToken:        token,
		WebhookSecret:   secret,
		WebhookBaseURL:  strings.TrimRight(strings.TrimSpace(os.Getenv("WEBHOOK_BASE_URL")), "/"),
		SecretGenerated: generated,
	}, nil
}

// AIConfig describes the hosted LLM endpoint and the two model tiers: a
// fast tier for classification and a larger tier for the final reply.
type AIConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	FastModel string
	Timeout   time.Duration
}

func loadAIConfig() (AIConfig, error) {
	apiKey := strings.TrimSpace(os.Getenv("GROQ_API_KEY"))
	if apiKey == "" {
		return AIConfig{}, fmt.Errorf("GROQ_API_KEY is required")
	}

	timeoutSeconds, err := parseOptionalIntEnv("GROQ_TIMEOUT")
	if err != nil {
		return AIConfig{}, err
	}
	timeout := 60 * time.Second
	if timeoutSeconds != nil {
		timeout = time.Duration(*timeoutSeconds) * time.Second
	}

	return AIConfig{
		APIKey:    apiKey,
		BaseURL:   getEnvOrDefault("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		Model:     getEnvOrDefault("NOMAD_MODEL", "llama-3.3-70b-versatile"),
		FastModel: getEnvOrDefault("NOMAD_FAST_MODEL", "llama-3.1-8b-instant"),
		Timeout:   timeout,
	}, nil
}

// NewChatModel creates the large-tier model used for reply generation.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	return openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: c.BaseURL,
		APIKey:  c.APIKey,
		Model:   c.Model,
		Timeout: c.Timeout,
	})
}

// NewFastChatModel creates the low-cost tier used for classification.
func (c AIConfig) NewFastChatModel(ctx context.Context) (model.ChatModel, error) {
	temperature := float32(0.1)
	return openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL:     c.BaseURL,
		APIKey:      c.APIKey,
		Model:       c.FastModel,
		Temperature: &temperature,
		Timeout:     c.Timeout,
	})
}

// PlacesConfig describes the places-search API client.
type PlacesConfig struct {
	APIKey   string
	BaseURL  string
	Locality string
	Timeout  time.Duration
}

func loadPlacesConfig() (PlacesConfig, error) {
	apiKey := strings.TrimSpace(os.Getenv("GOOGLE_MAPS_API_KEY"))
	if apiKey == "" {
		return PlacesConfig{}, fmt.Errorf("GOOGLE_MAPS_API_KEY is required")
	}

	timeoutSeconds, err := parseOptionalIntEnv("PLACES_TIMEOUT")
	if err != nil {
		return PlacesConfig{}, err
	}
	timeout := 10 * time.Second
	if timeoutSeconds != nil {
		timeout = time.Duration(*timeoutSeconds) * time.Second
	}

	return PlacesConfig{
		APIKey:   apiKey,
		BaseURL:  getEnvOrDefault("PLACES_BASE_URL", "https://maps.googleapis.com"),
		Locality: getEnvOrDefault("PLACES_LOCALITY", "Delhi"),
		Timeout:  timeout,
	}, nil
}

// SpeechConfig describes the local transcription model and audio scratch
// space. None of it is secret, so nothing here is fatal.
type SpeechConfig struct {
	WhisperModelPath string
	TipsFile         string
	AudioDir         string
}

func loadSpeechConfig() SpeechConfig {
	audioDir := strings.TrimSpace(os.Getenv("AUDIO_DIR"))
	if audioDir == "" {
		audioDir = os.TempDir()
	}

	return SpeechConfig{
		WhisperModelPath: getEnvOrDefault("WHISPER_MODEL_PATH", "models/ggml-base.bin"),
		TipsFile:         getEnvOrDefault("TIPS_FILE", "data/delhi_secrets.json"),
		AudioDir:         audioDir,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
