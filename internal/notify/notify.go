// Package notify delivers best-effort messages to chat users outside the
// request that produced them.
package notify

//go:generate mockgen -source=notify.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"log/slog"

	ledger "oleobot/internal/ledger/models"
)

// Message is one outbound chat message.
type Message struct {
	ChatID ledger.ExternalID
	Text   string
}

// Notifier sends a single message. Implementations must honour ctx.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// LogNotifier writes messages to the log instead of sending them. It backs
// local development where no chat gateway is running.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, msg Message) error {
	n.logger.InfoContext(ctx, "notification",
		"chat_id", msg.ChatID.String(),
		"text", msg.Text,
	)
	return nil
}
