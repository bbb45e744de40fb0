package webhook

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/bharat3645/NomadAI/internal/model/convo"
	"github.com/bharat3645/NomadAI/internal/model/guide"
	"github.com/bharat3645/NomadAI/internal/service/ai"
	"github.com/bharat3645/NomadAI/internal/service/classify"
	"github.com/bharat3645/NomadAI/internal/service/history"
	"github.com/bharat3645/NomadAI/pkg/utils"
)

// SecretTokenHeader is echoed by Telegram on every webhook delivery.
const SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// User-visible reply strings. Every failure path resolves into exactly
// one of these; nothing past the adapters reaches the user as an error.
const (
	GreetingMessage   = "Hey! I'm NomadAI. Send me a voice message in any language about what you want to do or see in Delhi!"
	AckMessage        = "Got it! Let me think for a moment..."
	TranscribeApology = "Sorry, I couldn't understand that. Could you please speak a bit more clearly?"
	SpeechlessApology = "Sorry, I'm feeling a bit speechless right now. Please try again."
	GenericApology    = "Sorry, something went wrong on my end. Please try again in a moment."
	FeedbackAck       = "Thanks, noted! Your feedback helps NomadAI get better."
	FeedbackUsage     = "Tell me what you think: /feedback <your message>"
)

// Messenger sends replies and fetches voice notes from the platform.
type Messenger interface {
	SendText(chatID int64, text string) error
	SendVoice(chatID int64, path string) error
	DownloadVoice(ctx context.Context, fileID string) (string, error)
}

// Transcriber converts a downloaded audio file to text.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

// Classifier labels an utterance with language and vibe.
type Classifier interface {
	Classify(ctx context.Context, text string) classify.Result
}

// PlacesFinder returns a human-readable live-data block for a query.
type PlacesFinder interface {
	Search(ctx context.Context, query string) string
}

// Generator produces the final reply text for a master prompt.
type Generator interface {
	Generate(ctx context.Context, masterPrompt string) string
}

// Synthesizer renders reply text to a voice file and returns its path.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, language string) (string, error)
}

// Deps carries every collaborator the handler needs, constructed once at
// startup so tests can swap in doubles for any adapter.
type Deps struct {
	Secret      string
	Messenger   Messenger
	Transcriber Transcriber
	Classifier  Classifier
	Places      PlacesFinder
	Generator   Generator
	Synthesizer Synthesizer
	History     *history.Service
	Personas    guide.PersonaStore
	Tips        *guide.TipBook
	Now         func() time.Time
}

// Handler validates and dispatches Telegram webhook updates.
type Handler struct {
	deps     Deps
	secret   []byte
	location *time.Location
}

// New builds the webhook handler. The Delhi timezone is resolved once;
// if tzdata is unavailable a fixed IST offset stands in.
func New(deps Deps) *Handler {
	if deps.Now == nil {
		deps.Now = time.Now
	}

	location, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		log.Printf("[webhook] tzdata unavailable, using fixed IST offset: %v", err)
		location = time.FixedZone("IST", 5*3600+1800)
	}

	return &Handler{
		deps:     deps,
		secret:   []byte(deps.Secret),
		location: location,
	}
}

// RegisterRoutes mounts the webhook receiver.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.handleUpdate)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	header := []byte(r.Header.Get(SecretTokenHeader))
	if subtle.ConstantTimeCompare(header, h.secret) != 1 {
		utils.RespondError(w, http.StatusForbidden, "invalid secret token")
		return
	}

	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Printf("[webhook] failed to decode update: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "malformed update payload")
		return
	}

	h.dispatch(r.Context(), &update)
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) dispatch(ctx context.Context, update *tgbotapi.Update) {
	msg := update.Message
	if msg == nil {
		return
	}

	switch {
	case msg.IsCommand():
		h.handleCommand(msg)
	case msg.Voice != nil:
		h.handleVoice(ctx, msg)
	}
}

func (h *Handler) handleCommand(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		h.deps.History.Clear(chatID)
		h.reply(chatID, GreetingMessage)
	case "feedback":
		text := msg.CommandArguments()
		if text == "" {
			h.reply(chatID, FeedbackUsage)
			return
		}
		log.Printf("[feedback] chat=%d: %s", chatID, text)
		h.reply(chatID, FeedbackAck)
	}
}

// handleVoice runs the full pipeline: download, transcribe, gather
// context in parallel, generate, synthesize, reply, record the turn.
// Temp files are removed on every exit path.
func (h *Handler) handleVoice(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	var tempFiles []string
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[webhook] panic while handling voice for chat=%d: %v", chatID, r)
			h.reply(chatID, GenericApology)
		}
		for _, path := range tempFiles {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				log.Printf("[webhook] failed to remove temp file %s: %v", path, err)
			}
		}
	}()

	h.reply(chatID, AckMessage)

	audioPath, err := h.deps.Messenger.DownloadVoice(ctx, msg.Voice.FileID)
	if err != nil {
		log.Printf("[webhook] voice download failed for chat=%d: %v", chatID, err)
		h.reply(chatID, GenericApology)
		return
	}
	tempFiles = append(tempFiles, audioPath)

	transcript, err := h.deps.Transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		log.Printf("[webhook] transcription failed for chat=%d: %v", chatID, err)
		transcript = ""
	}
	if transcript == "" {
		h.reply(chatID, TranscribeApology)
		return
	}
	log.Printf("[webhook] chat=%d transcript: %s", chatID, transcript)

	// Three independent lookups; all must settle before prompt assembly.
	var (
		wg         sync.WaitGroup
		labels     classify.Result
		placesText string
		timeText   string
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		labels = h.deps.Classifier.Classify(ctx, transcript)
	}()
	go func() {
		defer wg.Done()
		placesText = h.deps.Places.Search(ctx, transcript)
	}()
	go func() {
		defer wg.Done()
		timeText = h.deps.Now().In(h.location).Format("Monday, 3:04 PM")
	}()
	wg.Wait()

	log.Printf("[webhook] chat=%d language=%s vibe=%s", chatID, labels.Language, labels.Vibe)

	prompt := ai.BuildMasterPrompt(h.deps.Personas, h.deps.Tips, ai.PromptInput{
		Language:   labels.Language,
		Query:      transcript,
		PlacesText: placesText,
		History:    h.deps.History.Snapshot(chatID),
		TimeText:   timeText,
		Vibe:       labels.Vibe,
	})

	replyText := h.deps.Generator.Generate(ctx, prompt)

	voicePath, err := h.deps.Synthesizer.Synthesize(ctx, replyText, labels.Language)
	if err != nil {
		log.Printf("[webhook] synthesis failed for chat=%d: %v", chatID, err)
		h.reply(chatID, SpeechlessApology)
		return
	}
	tempFiles = append(tempFiles, voicePath)

	if err := h.deps.Messenger.SendVoice(chatID, voicePath); err != nil {
		log.Printf("[webhook] failed to send voice reply for chat=%d: %v", chatID, err)
		h.reply(chatID, GenericApology)
		return
	}

	h.deps.History.Append(chatID, convo.Turn{User: transcript, Bot: replyText})
}

func (h *Handler) reply(chatID int64, text string) {
	if err := h.deps.Messenger.SendText(chatID, text); err != nil {
		log.Printf("[webhook] failed to send message to chat=%d: %v", chatID, err)
	}
}
