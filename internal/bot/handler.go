package bot

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"oleobot/internal/dialogue"
	"oleobot/internal/ledger/models"
	"oleobot/internal/ledger/service"
	"oleobot/internal/notify"
	"oleobot/internal/platform/metrics"
	dErrors "oleobot/pkg/domain-errors"
)

// Ledger is the part of the record service the commands read and validate
// through.
type Ledger interface {
	FindCollectionPointByAdmin(ctx context.Context, admin models.ExternalID) (*models.CollectionPoint, error)
	FindDonorByExternalID(ctx context.Context, externalID models.ExternalID) (*models.Donor, error)
	ValidateDonation(ctx context.Context, code string, admin models.ExternalID) (*service.ValidationResult, error)
	Scoreboard(ctx context.Context, externalID models.ExternalID) (*models.CollectionPoint, error)
}

// Dialogue drives the multi-step flows.
type Dialogue interface {
	StartRegistration(ctx context.Context, sender dialogue.Sender) (string, error)
	StartAssociation(ctx context.Context, sender dialogue.Sender) (string, error)
	StartDonation(ctx context.Context, sender dialogue.Sender) (string, error)
	Continue(ctx context.Context, sender dialogue.Sender, text string) (string, bool, error)
	Cancel(ctx context.Context, user models.ExternalID) (string, error)
}

// Notifications queues outbound messages without waiting for delivery.
type Notifications interface {
	Enqueue(ctx context.Context, msg notify.Message) bool
}

// RateLimiter guards against a single sender flooding the bot.
type RateLimiter interface {
	AllowSender(ctx context.Context, user models.ExternalID) bool
}

// Update is one inbound chat message.
type Update struct {
	SenderID  models.ExternalID
	ChatID    models.ExternalID
	FirstName string
	Text      string
}

// Reply is the answer to an Update, addressed to the chat it came from.
type Reply struct {
	ChatID models.ExternalID
	Text   string
}

// Labels for updates that are not a known command.
const (
	labelText    = "text"
	labelUnknown = "unknown"
)

var knownCommands = map[string]bool{
	CmdStart:         true,
	CmdHelp:          true,
	CmdRegisterPoint: true,
	CmdJoin:          true,
	CmdDonate:        true,
	CmdValidate:      true,
	CmdScoreboard:    true,
	CmdCancel:        true,
}

// Handler classifies inbound updates and answers them. Commands are routed to
// their operation; free text goes to the sender's active flow.
type Handler struct {
	ledger        Ledger
	dialogue      Dialogue
	notifications Notifications
	limiter       RateLimiter
	logger        *slog.Logger
	metrics       *metrics.Metrics
	tracer        trace.Tracer
	timeout       time.Duration
}

type Option func(*Handler)

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(h *Handler) {
		h.tracer = tracer
	}
}

// WithRateLimiter refuses updates from senders over their limit before any
// store is touched.
func WithRateLimiter(limiter RateLimiter) Option {
	return func(h *Handler) {
		h.limiter = limiter
	}
}

// WithTimeout bounds the time spent on a single update.
func WithTimeout(timeout time.Duration) Option {
	return func(h *Handler) {
		if timeout > 0 {
			h.timeout = timeout
		}
	}
}

func New(ledger Ledger, dlg Dialogue, notifications Notifications, opts ...Option) *Handler {
	h := &Handler{
		ledger:        ledger,
		dialogue:      dlg,
		notifications: notifications,
		logger:        slog.Default(),
		tracer:        otel.Tracer("oleobot/bot"),
		timeout:       10 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle answers u. It always produces a reply; failures are logged and
// answered with a retry-later message.
func (h *Handler) Handle(ctx context.Context, u Update) Reply {
	start := time.Now()
	cmd, isCommand := ParseCommand(u.Text)
	label := labelFor(cmd, isCommand)
	defer h.metrics.ObserveUpdate(label, start)

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	ctx, span := h.tracer.Start(ctx, "bot.handle", trace.WithAttributes(
		attribute.String("command", label),
		attribute.String("user_id", u.SenderID.String()),
	))
	defer span.End()

	if h.limiter != nil && !h.limiter.AllowSender(ctx, u.SenderID) {
		span.SetAttributes(attribute.Bool("rate_limited", true))
		return Reply{ChatID: u.ChatID, Text: msgSlowDown}
	}

	sender := dialogue.Sender{ID: u.SenderID, FirstName: u.FirstName}
	var (
		text string
		err  error
	)
	if isCommand {
		text, err = h.dispatch(ctx, sender, cmd)
	} else {
		text, err = h.freeText(ctx, sender, u.Text)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
		h.logger.ErrorContext(ctx, "failed to handle update",
			"user_id", u.SenderID.String(),
			"command", label,
			"error", err,
		)
		text = dialogue.MsgRetryLater
	}
	return Reply{ChatID: u.ChatID, Text: text}
}

func labelFor(cmd Command, isCommand bool) string {
	switch {
	case !isCommand:
		return labelText
	case knownCommands[cmd.Name]:
		return cmd.Name
	}
	return labelUnknown
}

func (h *Handler) dispatch(ctx context.Context, sender dialogue.Sender, cmd Command) (string, error) {
	switch cmd.Name {
	case CmdStart, CmdHelp:
		return h.greet(ctx, sender)
	case CmdRegisterPoint:
		return h.dialogue.StartRegistration(ctx, sender)
	case CmdJoin:
		return h.dialogue.StartAssociation(ctx, sender)
	case CmdDonate:
		return h.dialogue.StartDonation(ctx, sender)
	case CmdValidate:
		return h.validate(ctx, sender, cmd.Args)
	case CmdScoreboard:
		return h.scoreboard(ctx, sender)
	case CmdCancel:
		return h.dialogue.Cancel(ctx, sender.ID)
	}
	return msgUnknownCommand, nil
}

func (h *Handler) freeText(ctx context.Context, sender dialogue.Sender, text string) (string, error) {
	reply, handled, err := h.dialogue.Continue(ctx, sender, text)
	if err != nil {
		return "", err
	}
	if !handled {
		return msgNoActiveFlow, nil
	}
	return reply, nil
}

// greet picks the admin greeting, then the donor greeting, then onboarding.
func (h *Handler) greet(ctx context.Context, sender dialogue.Sender) (string, error) {
	point, err := h.ledger.FindCollectionPointByAdmin(ctx, sender.ID)
	switch {
	case err == nil:
		return msgGreetAdmin(point.ResponsibleName, point.InstitutionName), nil
	case !dErrors.HasCode(err, dErrors.CodeNotFound):
		return "", err
	}

	_, err = h.ledger.FindDonorByExternalID(ctx, sender.ID)
	switch {
	case err == nil:
		return msgGreetDonor(sender.FirstName), nil
	case !dErrors.HasCode(err, dErrors.CodeNotFound):
		return "", err
	}
	return msgOnboarding(sender.FirstName), nil
}

func (h *Handler) validate(ctx context.Context, sender dialogue.Sender, args []string) (string, error) {
	if _, err := h.ledger.FindCollectionPointByAdmin(ctx, sender.ID); err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return msgAdminsOnly, nil
		}
		return "", err
	}
	if len(args) != 1 {
		return msgValidateUsage, nil
	}

	code := strings.ToUpper(args[0])
	result, err := h.ledger.ValidateDonation(ctx, code, sender.ID)
	if err != nil {
		switch {
		case dErrors.HasCode(err, dErrors.CodeForbidden):
			return msgAdminsOnly, nil
		case dErrors.HasCode(err, dErrors.CodeNotFound), dErrors.HasCode(err, dErrors.CodeValidation):
			return msgDeliveryUnknown, nil
		case dErrors.HasCode(err, dErrors.CodeAlreadyValidated):
			return msgAlreadyValidated, nil
		case dErrors.HasCode(err, dErrors.CodeWrongCampaign):
			return msgWrongCampaign, nil
		}
		return "", err
	}

	// The validation is committed; delivery of the donor notice is best effort.
	h.notifications.Enqueue(ctx, notify.Message{
		ChatID: result.Donor.ExternalID,
		Text:   msgDonorNotification(result.Donation.Liters, result.CollectionPoint.InstitutionName),
	})
	return msgValidated(result.Donation.Liters, result.Donor.DisplayName, result.CollectionPoint.ValidatedLiters), nil
}

func (h *Handler) scoreboard(ctx context.Context, sender dialogue.Sender) (string, error) {
	point, err := h.ledger.Scoreboard(ctx, sender.ID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return msgScoreboardNeedsCampaign, nil
		}
		return "", err
	}
	return msgScoreboard(point.InstitutionName, point.ValidatedLiters), nil
}
