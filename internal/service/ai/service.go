package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

// GenerationApology is sent when the generator fails for any reason.
// Failures never propagate past this adapter.
const GenerationApology = "I'm sorry, I'm having a little trouble thinking right now. Please try again in a moment."

// Service runs the large model tier to produce the final reply.
type Service struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewService compiles the generation chain. The master prompt is the sole
// instruction content, sent as a system message in a single-turn request.
func NewService(ctx context.Context, chatModel model.ChatModel) (*Service, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile generation chain: %w", err)
	}

	return &Service{chain: runnable}, nil
}

// Generate produces the reply for an assembled master prompt, falling
// back to the fixed apology on any failure.
func (s *Service) Generate(ctx context.Context, masterPrompt string) string {
	if s == nil || s.chain == nil {
		return GenerationApology
	}

	response, err := s.chain.Invoke(ctx, map[string]any{"system": masterPrompt})
	if err != nil {
		log.Printf("[ai] generation failed: %v", err)
		return GenerationApology
	}
	if response == nil || strings.TrimSpace(response.Content) == "" {
		log.Printf("[ai] generation returned empty content")
		return GenerationApology
	}

	return response.Content
}
