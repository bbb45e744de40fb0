package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/bharat3645/NomadAI/internal/analysis/vibe"
)

// Result is the (language, vibe) pair inferred for one utterance.
type Result struct {
	Language string
	Vibe     vibe.Label
}

// DefaultResult is returned for empty input and on any classifier
// failure, so the pipeline never blocks on classification.
var DefaultResult = Result{Language: "english", Vibe: vibe.Neutral}

const systemPrompt = "You are a language and mood detection expert. " +
	"Analyze the user's utterance and answer with a single-line JSON object containing exactly two string fields: " +
	"\"language\", the name of the utterance's language in lowercase English (for example: english, hindi, hinglish, french, spanish), " +
	"and \"vibe\", exactly one of: adventurous, relaxed, hungry, curious, in_a_hurry, social, neutral. " +
	"Answer with the JSON object only, no prose."

// Service runs the low-cost model tier to label an utterance.
type Service struct {
	classifier compose.Runnable[map[string]any, *schema.Message]
}

// NewService compiles the classification chain over the supplied fast
// model. A nil model yields a service that always answers DefaultResult.
func NewService(ctx context.Context, chatModel model.ChatModel) (*Service, error) {
	svc := &Service{}
	if chatModel == nil {
		return svc, nil
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(systemPrompt),
		schema.UserMessage("{utterance}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile classifier chain: %w", err)
	}

	svc.classifier = runnable
	return svc, nil
}

// Classify labels the utterance. Empty input short-circuits to
// DefaultResult without touching the model; so does every failure path.
func (s *Service) Classify(ctx context.Context, text string) Result {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return DefaultResult
	}
	if s == nil || s.classifier == nil {
		return DefaultResult
	}

	msg, err := s.classifier.Invoke(ctx, map[string]any{"utterance": trimmed})
	if err != nil {
		log.Printf("[classify] invoke failed, using default labels: %v", err)
		return DefaultResult
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return DefaultResult
	}

	payload, err := parseClassifierOutput(msg.Content)
	if err != nil {
		log.Printf("[classify] output parse failed, using default labels: %v", err)
		return DefaultResult
	}

	language := strings.ToLower(strings.TrimSpace(payload.Language))
	if language == "" {
		language = DefaultResult.Language
	}

	return Result{
		Language: language,
		Vibe:     vibe.Normalize(payload.Vibe),
	}
}

type classifierPayload struct {
	Language string `json:"language"`
	Vibe     string `json:"vibe"`
}

// parseClassifierOutput extracts the JSON object from the model reply,
// tolerating surrounding prose or code fences.
func parseClassifierOutput(content string) (*classifierPayload, error) {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("missing json object")
	}

	payload := &classifierPayload{}
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), payload); err != nil {
		return nil, err
	}
	return payload, nil
}
