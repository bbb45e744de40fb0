package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"github.com/bharat3645/NomadAI/pkg/audioconv"
)

// Transcriber wraps the local whisper model. The model is loaded once at
// startup; each Transcribe call gets its own whisper context, so requests
// share no mutable state.
type Transcriber struct {
	model whisper.Model
}

// NewTranscriber loads the whisper model from disk.
func NewTranscriber(modelPath string) (*Transcriber, error) {
	if modelPath == "" {
		return nil, errors.New("empty whisper model path")
	}
	model, err := whisper.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load whisper model: %w", err)
	}
	return &Transcriber{model: model}, nil
}

// Close releases the underlying model.
func (t *Transcriber) Close() error {
	if t.model == nil {
		return nil
	}
	return t.model.Close()
}

// Transcribe converts an audio file into text. The transcript is
// best-effort: callers must treat an error or an empty string as "could
// not understand", not as a fault to surface.
func (t *Transcriber) Transcribe(ctx context.Context, path string) (string, error) {
	if t.model == nil {
		return "", errors.New("transcriber not initialized")
	}

	pcm, err := audioconv.DecodeFile(path)
	if err != nil {
		return "", fmt.Errorf("decode audio: %w", err)
	}
	if len(pcm) == 0 {
		return "", nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	wctx, err := t.model.NewContext()
	if err != nil {
		return "", fmt.Errorf("new whisper context: %w", err)
	}
	if err := wctx.SetLanguage("auto"); err != nil {
		return "", fmt.Errorf("set language: %w", err)
	}
	wctx.SetThreads(uint(runtime.NumCPU()))

	if err := wctx.Process(pcm, nil, nil, nil); err != nil {
		return "", fmt.Errorf("whisper process: %w", err)
	}

	var parts []string
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		segment, err := wctx.NextSegment()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read segment: %w", err)
		}
		if text := strings.TrimSpace(segment.Text); text != "" {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, " "), nil
}
