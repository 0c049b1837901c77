package httptransport

//go:generate mockgen -source=handlers_updates.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"oleobot/internal/bot"
	"oleobot/internal/ledger/models"
	"oleobot/internal/platform/middleware"
	dErrors "oleobot/pkg/domain-errors"
)

const maxUpdateBytes = 64 << 10

// Bot answers one inbound update.
type Bot interface {
	Handle(ctx context.Context, u bot.Update) bot.Reply
}

// UpdateRequest is the webhook body the chat gateway posts for each message.
type UpdateRequest struct {
	SenderID  int64  `json:"sender_id"`
	ChatID    int64  `json:"chat_id"`
	FirstName string `json:"first_name"`
	Text      string `json:"text"`
}

// ReplyResponse is one message for the gateway to send back.
type ReplyResponse struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

type UpdateResponse struct {
	Replies []ReplyResponse `json:"replies"`
}

func (r UpdateRequest) validate() error {
	if r.SenderID == 0 || r.ChatID == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "sender_id and chat_id are required")
	}
	if strings.TrimSpace(r.Text) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "text is required")
	}
	return nil
}

// UpdatesHandler relays gateway updates to the bot.
type UpdatesHandler struct {
	bot    Bot
	logger *slog.Logger
}

func NewUpdatesHandler(b Bot, logger *slog.Logger) *UpdatesHandler {
	return &UpdatesHandler{bot: b, logger: logger}
}

func (h *UpdatesHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req UpdateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUpdateBytes)).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid update request",
			"request_id", requestID,
			"error", err.Error(),
		)
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := req.validate(); err != nil {
		h.logger.WarnContext(ctx, "invalid update request",
			"request_id", requestID,
			"error", err.Error(),
		)
		writeError(w, err)
		return
	}

	reply := h.bot.Handle(ctx, bot.Update{
		SenderID:  models.ExternalID(req.SenderID),
		ChatID:    models.ExternalID(req.ChatID),
		FirstName: req.FirstName,
		Text:      req.Text,
	})
	writeJSON(w, http.StatusOK, UpdateResponse{
		Replies: []ReplyResponse{{ChatID: int64(reply.ChatID), Text: reply.Text}},
	})
}
