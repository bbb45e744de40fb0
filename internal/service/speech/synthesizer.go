package speech

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bharat3645/NomadAI/internal/model/guide"
)

// DefaultTTSBaseURL is the translate-TTS endpoint the synthesizer fetches
// audio from.
const DefaultTTSBaseURL = "https://translate.google.com/translate_tts"

// ttsChunkLimit is the longest text the endpoint accepts per request;
// longer replies are split and the MP3 payloads concatenated.
const ttsChunkLimit = 200

// Synthesizer converts reply text into an MP3 voice file. Output files
// carry a random suffix because concurrent requests may overlap.
type Synthesizer struct {
	personas   guide.PersonaStore
	audioDir   string
	baseURL    string
	httpClient *http.Client
}

// NewSynthesizer builds a synthesizer writing into audioDir.
func NewSynthesizer(personas guide.PersonaStore, audioDir string) *Synthesizer {
	return &Synthesizer{
		personas:   personas,
		audioDir:   audioDir,
		baseURL:    DefaultTTSBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// WithBaseURL overrides the TTS endpoint, used by tests.
func (s *Synthesizer) WithBaseURL(baseURL string) *Synthesizer {
	s.baseURL = baseURL
	return s
}

// Synthesize writes the spoken reply to a uniquely named file and returns
// its path. The language label's first word picks the speech code via the
// persona table, defaulting to English.
func (s *Synthesizer) Synthesize(ctx context.Context, text, language string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", fmt.Errorf("nothing to synthesize")
	}

	code := guide.DefaultRule.SpeechCode
	if rule, ok := s.personas.Resolve(language); ok {
		code = rule.SpeechCode
	}

	var audio []byte
	for _, chunk := range splitForTTS(trimmed, ttsChunkLimit) {
		part, err := s.fetchChunk(ctx, chunk, code)
		if err != nil {
			return "", err
		}
		audio = append(audio, part...)
	}

	path := filepath.Join(s.audioDir, fmt.Sprintf("nomadai-reply-%s.mp3", uuid.NewString()))
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return "", fmt.Errorf("write audio file: %w", err)
	}
	return path, nil
}

func (s *Synthesizer) fetchChunk(ctx context.Context, text, code string) ([]byte, error) {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("client", "tw-ob")
	params.Set("q", text)
	params.Set("tl", code)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tts endpoint returned status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read tts response: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("tts endpoint returned no audio")
	}
	return audio, nil
}

// splitForTTS breaks text into chunks no longer than limit, preferring
// sentence boundaries and falling back to word boundaries.
func splitForTTS(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	for _, word := range strings.Fields(text) {
		if current.Len() > 0 && current.Len()+1+len(word) > limit {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(word)

		if ending := current.String(); current.Len() >= limit/2 && hasSentenceEnd(ending) {
			chunks = append(chunks, ending)
			current.Reset()
		}
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

func hasSentenceEnd(s string) bool {
	return strings.HasSuffix(s, ".") || strings.HasSuffix(s, "!") || strings.HasSuffix(s, "?") ||
		strings.HasSuffix(s, "।")
}
