package store

import (
	"context"
	"sync"
	"time"

	"github.com/clink-app/meet-server/internal/domain"
)

// MemoryStore keeps chat history in process memory. Used when no
// mongo_uri is configured, and in tests.
type MemoryStore struct {
	mu       sync.RWMutex
	messages map[domain.MeetingID][]domain.ChatMessage
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{messages: make(map[domain.MeetingID][]domain.ChatMessage)}
}

func (s *MemoryStore) Create(_ context.Context, msg domain.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg.SentAt.IsZero() {
		msg.SentAt = time.Now()
	}
	s.messages[msg.MeetingID] = append(s.messages[msg.MeetingID], msg)
	return nil
}

// History returns a copy of one meeting's messages in arrival order.
func (s *MemoryStore) History(meeting domain.MeetingID) []domain.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ChatMessage, len(s.messages[meeting]))
	copy(out, s.messages[meeting])
	return out
}
