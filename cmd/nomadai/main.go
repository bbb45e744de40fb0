package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	"github.com/bharat3645/NomadAI/internal/config"
	"github.com/bharat3645/NomadAI/internal/handler"
	"github.com/bharat3645/NomadAI/internal/handler/webhook"
	"github.com/bharat3645/NomadAI/internal/model/guide"
	"github.com/bharat3645/NomadAI/internal/service/ai"
	"github.com/bharat3645/NomadAI/internal/service/classify"
	"github.com/bharat3645/NomadAI/internal/service/history"
	"github.com/bharat3645/NomadAI/internal/service/places"
	"github.com/bharat3645/NomadAI/internal/service/speech"
	"github.com/bharat3645/NomadAI/internal/telegram"
)

func main() {
	envFile := flag.String("env-file", ".env", "path to optional .env file")
	addrOverride := flag.String("addr", "", "listen address, overrides PORT")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(*envFile); err != nil {
		log.Printf("warning: no %s file loaded: %v", *envFile, err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if *addrOverride != "" {
		cfg.Server.Addr = *addrOverride
	}
	if cfg.Telegram.SecretGenerated {
		log.Println("warning: TELEGRAM_WEBHOOK_SECRET not set, generated a random secret for this run")
	}

	// Curated tips are optional data: a missing file degrades to an empty
	// book instead of aborting startup.
	tips, err := guide.LoadTipBook(cfg.Speech.TipsFile)
	if err != nil {
		log.Printf("warning: failed to load tips from %s, continuing without insider tips: %v", cfg.Speech.TipsFile, err)
		tips = guide.NewTipBook(nil)
	} else {
		log.Printf("loaded %d insider tips from %s", tips.Len(), cfg.Speech.TipsFile)
	}

	personas := guide.NewMemoryPersonaStore(guide.Rules())
	historySvc := history.NewService()

	chatModel, err := cfg.AI.NewChatModel(ctx)
	if err != nil {
		log.Fatalf("failed to initialize chat model: %v", err)
	}
	generator, err := ai.NewService(ctx, chatModel)
	if err != nil {
		log.Fatalf("failed to initialize response generator: %v", err)
	}

	fastModel, err := cfg.AI.NewFastChatModel(ctx)
	if err != nil {
		log.Fatalf("failed to initialize fast chat model: %v", err)
	}
	classifier, err := classify.NewService(ctx, fastModel)
	if err != nil {
		log.Fatalf("failed to initialize classifier: %v", err)
	}

	transcriber, err := speech.NewTranscriber(cfg.Speech.WhisperModelPath)
	if err != nil {
		log.Fatalf("failed to load whisper model from %s: %v", cfg.Speech.WhisperModelPath, err)
	}
	defer transcriber.Close()

	bot, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Speech.AudioDir)
	if err != nil {
		log.Fatalf("failed to initialize telegram client: %v", err)
	}

	if cfg.Telegram.WebhookBaseURL == "" {
		log.Println("warning: WEBHOOK_BASE_URL not set, skipping webhook registration")
	} else if err := bot.RegisterWebhook(cfg.Telegram.WebhookBaseURL, cfg.Telegram.WebhookSecret); err != nil {
		log.Printf("warning: webhook registration failed: %v", err)
	}

	webhookHandler := webhook.New(webhook.Deps{
		Secret:      cfg.Telegram.WebhookSecret,
		Messenger:   bot,
		Transcriber: transcriber,
		Classifier:  classifier,
		Places:      places.NewClient(cfg.Places),
		Generator:   generator,
		Synthesizer: speech.NewSynthesizer(personas, cfg.Speech.AudioDir),
		History:     historySvc,
		Personas:    personas,
		Tips:        tips,
	})

	router := handler.NewRouter(webhookHandler)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("NomadAI backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
