package history

import (
	"sync"
	"time"

	"github.com/bharat3645/NomadAI/internal/model/convo"
)

// Service keeps the per-chat conversation history. State is in-memory
// only and lost on restart, which is acceptable for a 2-turn window.
//
// Snapshot, Append and Clear are each atomic under one lock, so
// concurrent delivery for the same chat can interleave pipelines but can
// never corrupt the store or grow a chat past the limit.
type Service struct {
	mu    sync.RWMutex
	turns map[int64][]convo.Turn
}

// NewService bootstraps an empty in-memory history store.
func NewService() *Service {
	return &Service{turns: make(map[int64][]convo.Turn)}
}

// Append records a completed turn for the chat, evicting the oldest turn
// once the chat exceeds convo.HistoryLimit.
func (s *Service) Append(chatID int64, turn convo.Turn) {
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	turns := append(s.turns[chatID], turn)
	if len(turns) > convo.HistoryLimit {
		turns = turns[len(turns)-convo.HistoryLimit:]
	}
	s.turns[chatID] = turns
}

// Snapshot returns a copy of the chat's history, oldest first. Unknown
// chats yield an empty slice.
func (s *Service) Snapshot(chatID int64) []convo.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns := s.turns[chatID]
	copied := make([]convo.Turn, len(turns))
	copy(copied, turns)
	return copied
}

// Clear drops all history for the chat.
func (s *Service) Clear(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.turns, chatID)
}
