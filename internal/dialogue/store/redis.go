package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"oleobot/internal/dialogue/models"
	ledger "oleobot/internal/ledger/models"
	"oleobot/pkg/platform/sentinel"
)

const conversationKeyPrefix = "oleobot:conversation:"

// RedisStore shares conversations between instances and keeps them across
// restarts. A zero TTL keeps conversations until they finish or are cancelled.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisOption func(*RedisStore)

// WithTTL expires idle conversations. Every write refreshes the expiry.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func NewRedis(client *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func conversationKey(user ledger.ExternalID) string {
	return conversationKeyPrefix + user.String()
}

func (s *RedisStore) Get(ctx context.Context, user ledger.ExternalID) (*models.Conversation, error) {
	raw, err := s.client.Get(ctx, conversationKey(user)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get conversation: %w: %w", sentinel.ErrUnavailable, err)
	}
	return decode(raw)
}

func (s *RedisStore) Put(ctx context.Context, conv *models.Conversation) error {
	stored := *conv
	stored.Version = 1
	payload, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encode conversation: %w", err)
	}
	if err := s.client.Set(ctx, conversationKey(conv.UserID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("put conversation: %w: %w", sentinel.ErrUnavailable, err)
	}
	conv.Version = stored.Version
	return nil
}

// Update writes conv only if the stored version still matches, using
// WATCH/MULTI so a concurrent write aborts the transaction.
func (s *RedisStore) Update(ctx context.Context, conv *models.Conversation) error {
	key := conversationKey(conv.UserID)
	var next int64
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return sentinel.ErrNotFound
			}
			return err
		}
		current, err := decode(raw)
		if err != nil {
			return err
		}
		if !sameRevision(current, conv) {
			return ErrConversationChanged
		}

		stored := *conv
		stored.Version++
		payload, err := json.Marshal(stored)
		if err != nil {
			return fmt.Errorf("encode conversation: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		next = stored.Version
		return nil
	}, key)

	switch {
	case err == nil:
		conv.Version = next
		return nil
	case errors.Is(err, redis.TxFailedErr):
		return ErrConversationChanged
	case errors.Is(err, sentinel.ErrNotFound), errors.Is(err, sentinel.ErrInvalidState):
		return err
	}
	return fmt.Errorf("update conversation: %w: %w", sentinel.ErrUnavailable, err)
}

func (s *RedisStore) Delete(ctx context.Context, user ledger.ExternalID) error {
	if err := s.client.Del(ctx, conversationKey(user)).Err(); err != nil {
		return fmt.Errorf("delete conversation: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

func decode(raw []byte) (*models.Conversation, error) {
	var conv models.Conversation
	if err := json.Unmarshal(raw, &conv); err != nil {
		return nil, fmt.Errorf("decode conversation: %w", err)
	}
	if !conv.Flow.IsValid() || !conv.Flow.Allows(conv.State) {
		return nil, fmt.Errorf("decode conversation: unexpected flow %q state %q", conv.Flow, conv.State)
	}
	return &conv, nil
}
