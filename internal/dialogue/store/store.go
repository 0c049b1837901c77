// Package store keeps in-progress conversations keyed by user.
//
// Put overwrites unconditionally and is used when a flow starts. Update is a
// compare-and-swap on Conversation.ID and Conversation.Version and fails with
// sentinel.ErrInvalidState when another writer got there first or the flow
// was re-entered since the caller read it.
package store

import (
	"fmt"

	"oleobot/internal/dialogue/models"
	"oleobot/pkg/platform/sentinel"
)

// ErrConversationChanged reports a lost Update race.
var ErrConversationChanged = fmt.Errorf("conversation changed concurrently: %w", sentinel.ErrInvalidState)

func sameRevision(stored, incoming *models.Conversation) bool {
	return stored.ID == incoming.ID && stored.Version == incoming.Version
}
