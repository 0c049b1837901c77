package store

import (
	"context"
	"sync"

	"oleobot/internal/dialogue/models"
	ledger "oleobot/internal/ledger/models"
	"oleobot/pkg/platform/sentinel"
)

// InMemory holds conversations in process memory. State is lost on restart
// and not shared between instances.
type InMemory struct {
	mu            sync.Mutex
	conversations map[ledger.ExternalID]models.Conversation
}

func NewInMemory() *InMemory {
	return &InMemory{conversations: make(map[ledger.ExternalID]models.Conversation)}
}

func (s *InMemory) Get(ctx context.Context, user ledger.ExternalID) (*models.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.conversations[user]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &conv, nil
}

func (s *InMemory) Put(ctx context.Context, conv *models.Conversation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *conv
	stored.Version = 1
	s.conversations[conv.UserID] = stored
	conv.Version = stored.Version
	return nil
}

func (s *InMemory) Update(ctx context.Context, conv *models.Conversation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.conversations[conv.UserID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if !sameRevision(&current, conv) {
		return ErrConversationChanged
	}
	stored := *conv
	stored.Version++
	s.conversations[conv.UserID] = stored
	conv.Version = stored.Version
	return nil
}

// Delete is idempotent.
func (s *InMemory) Delete(ctx context.Context, user ledger.ExternalID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conversations, user)
	return nil
}
