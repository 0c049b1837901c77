package dialogue

//go:generate mockgen -source=engine.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"oleobot/internal/dialogue/models"
	ledger "oleobot/internal/ledger/models"
	dErrors "oleobot/pkg/domain-errors"
	"oleobot/pkg/platform/sentinel"
)

// Ledger is the subset of the record service the flows drive.
type Ledger interface {
	FindCollectionPointByAdmin(ctx context.Context, admin ledger.ExternalID) (*ledger.CollectionPoint, error)
	FindCollectionPointByCode(ctx context.Context, code string) (*ledger.CollectionPoint, error)
	FindCollectionPointByID(ctx context.Context, id uuid.UUID) (*ledger.CollectionPoint, error)
	FindDonorByExternalID(ctx context.Context, externalID ledger.ExternalID) (*ledger.Donor, error)
	CreateCollectionPoint(ctx context.Context, code, institutionName, responsibleName string, admin ledger.ExternalID) (*ledger.CollectionPoint, error)
	CreateDonor(ctx context.Context, externalID ledger.ExternalID, displayName string, collectionPointID uuid.UUID) (*ledger.Donor, error)
	CreateDonation(ctx context.Context, donorID uuid.UUID, liters float64) (*ledger.Donation, error)
}

// Store keeps one conversation per user.
type Store interface {
	Get(ctx context.Context, user ledger.ExternalID) (*models.Conversation, error)
	Put(ctx context.Context, conv *models.Conversation) error
	Update(ctx context.Context, conv *models.Conversation) error
	Delete(ctx context.Context, user ledger.ExternalID) error
}

// Sender identifies who wrote the message being handled.
type Sender struct {
	ID        ledger.ExternalID
	FirstName string
}

// Engine walks users through registration, association and donation intake.
//
// Every method returns the reply text for the sender. A non-nil error means
// the step could not complete; the conversation is left as it was and the
// caller should answer with MsgRetryLater.
type Engine struct {
	store  Store
	ledger Ledger
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func New(store Store, ledger Ledger, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		ledger: ledger,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Active reports whether user is in the middle of a flow.
func (e *Engine) Active(ctx context.Context, user ledger.ExternalID) (bool, error) {
	_, err := e.store.Get(ctx, user)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, sentinel.ErrNotFound):
		return false, nil
	}
	return false, err
}

// StartRegistration begins registering a collection point. Users who already
// administer one are told so, no flow starts and any active flow is dropped.
func (e *Engine) StartRegistration(ctx context.Context, sender Sender) (string, error) {
	point, err := e.ledger.FindCollectionPointByAdmin(ctx, sender.ID)
	switch {
	case err == nil:
		if err := e.store.Delete(ctx, sender.ID); err != nil {
			return "", err
		}
		return msgAlreadyAdmin(point.InstitutionName), nil
	case !dErrors.HasCode(err, dErrors.CodeNotFound):
		return "", err
	}
	if err := e.enter(ctx, sender, models.FlowRegistration); err != nil {
		return "", err
	}
	return msgRegistrationStart, nil
}

// StartAssociation begins joining a campaign. Existing donors are told which
// campaign they already belong to and any active flow is dropped.
func (e *Engine) StartAssociation(ctx context.Context, sender Sender) (string, error) {
	donor, err := e.ledger.FindDonorByExternalID(ctx, sender.ID)
	switch {
	case err == nil:
		point, err := e.ledger.FindCollectionPointByID(ctx, donor.CollectionPointID)
		if err != nil {
			return "", err
		}
		if err := e.store.Delete(ctx, sender.ID); err != nil {
			return "", err
		}
		return msgAlreadyDonor(point.InstitutionName), nil
	case !dErrors.HasCode(err, dErrors.CodeNotFound):
		return "", err
	}
	if err := e.enter(ctx, sender, models.FlowAssociation); err != nil {
		return "", err
	}
	return msgAssociationStart, nil
}

// StartDonation begins donation intake. Users who are not donors get guidance
// and their conversation, if any, is left untouched.
func (e *Engine) StartDonation(ctx context.Context, sender Sender) (string, error) {
	_, err := e.ledger.FindDonorByExternalID(ctx, sender.ID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return msgDonationNeedsDonor, nil
		}
		return "", err
	}
	if err := e.enter(ctx, sender, models.FlowDonation); err != nil {
		return "", err
	}
	return msgDonationStart, nil
}

// enter replaces whatever conversation the user had with a fresh one.
func (e *Engine) enter(ctx context.Context, sender Sender, flow models.Flow) error {
	conv, err := models.NewConversation(sender.ID, flow, e.now())
	if err != nil {
		return err
	}
	if err := e.store.Put(ctx, conv); err != nil {
		return err
	}
	e.logger.InfoContext(ctx, "dialogue flow started",
		"user_id", sender.ID.String(),
		"flow", string(flow),
	)
	return nil
}

// Continue feeds free text to the user's active flow. handled is false when
// the user has no active flow.
func (e *Engine) Continue(ctx context.Context, sender Sender, text string) (reply string, handled bool, err error) {
	conv, err := e.store.Get(ctx, sender.ID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", false, nil
		}
		return "", true, err
	}

	text = strings.TrimSpace(text)
	switch conv.State {
	case models.StateAwaitingInstitutionName:
		reply, err = e.receiveInstitutionName(ctx, conv, text)
	case models.StateAwaitingResponsibleName:
		reply, err = e.receiveResponsibleName(ctx, conv, text)
	case models.StateAwaitingCampaignCode:
		if conv.Flow == models.FlowRegistration {
			reply, err = e.receiveRegistrationCode(ctx, conv, text)
		} else {
			reply, err = e.receiveAssociationCode(ctx, conv, sender, text)
		}
	case models.StateAwaitingLiters:
		reply, err = e.receiveLiters(ctx, conv, text)
	default:
		e.logger.WarnContext(ctx, "discarding conversation in unknown state",
			"user_id", sender.ID.String(),
			"flow", string(conv.Flow),
			"state", string(conv.State),
		)
		return "", false, e.store.Delete(ctx, sender.ID)
	}
	return reply, true, err
}

// Cancel discards the user's conversation. Cancelling while idle is fine.
func (e *Engine) Cancel(ctx context.Context, user ledger.ExternalID) (string, error) {
	if err := e.store.Delete(ctx, user); err != nil {
		return "", err
	}
	return MsgCancelled, nil
}

func (e *Engine) receiveInstitutionName(ctx context.Context, conv *models.Conversation, text string) (string, error) {
	if text == "" {
		return msgAskInstitutionAgain, nil
	}
	conv.Registration.InstitutionName = text
	if err := e.advance(ctx, conv, models.StateAwaitingResponsibleName); err != nil {
		return "", err
	}
	return msgAskResponsible, nil
}

func (e *Engine) receiveResponsibleName(ctx context.Context, conv *models.Conversation, text string) (string, error) {
	if text == "" {
		return msgAskResponsibleAgain, nil
	}
	conv.Registration.ResponsibleName = text
	if err := e.advance(ctx, conv, models.StateAwaitingCampaignCode); err != nil {
		return "", err
	}
	return msgAskCampaignCode, nil
}

// receiveRegistrationCode is the only step that loops: a taken code keeps the
// user in the same state to try another.
func (e *Engine) receiveRegistrationCode(ctx context.Context, conv *models.Conversation, text string) (string, error) {
	code := ledger.NormalizeCampaignCode(text)
	if err := ledger.ValidateCampaignCode(code); err != nil {
		return msgInvalidCampaignCode, nil
	}

	point, err := e.ledger.CreateCollectionPoint(ctx, code,
		conv.Registration.InstitutionName,
		conv.Registration.ResponsibleName,
		conv.UserID,
	)
	switch {
	case err == nil:
		e.finish(ctx, conv)
		return msgRegistrationDone(point.InstitutionName, point.CampaignCode), nil
	case dErrors.HasCode(err, dErrors.CodeDuplicateCode):
		return msgCampaignCodeTaken, nil
	case dErrors.HasCode(err, dErrors.CodeDuplicateAdmin):
		existing, findErr := e.ledger.FindCollectionPointByAdmin(ctx, conv.UserID)
		if findErr != nil {
			return "", findErr
		}
		e.finish(ctx, conv)
		return msgAlreadyAdmin(existing.InstitutionName), nil
	case dErrors.HasCode(err, dErrors.CodeValidation):
		return msgInvalidCampaignCode, nil
	}
	return "", err
}

func (e *Engine) receiveAssociationCode(ctx context.Context, conv *models.Conversation, sender Sender, text string) (string, error) {
	point, err := e.ledger.FindCollectionPointByCode(ctx, text)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) || dErrors.HasCode(err, dErrors.CodeValidation) {
			return msgCampaignNotFound, nil
		}
		return "", err
	}

	_, err = e.ledger.CreateDonor(ctx, sender.ID, sender.FirstName, point.ID)
	switch {
	case err == nil:
		e.finish(ctx, conv)
		return msgAssociationDone(point.InstitutionName), nil
	case dErrors.HasCode(err, dErrors.CodeDuplicateDonor):
		donor, findErr := e.ledger.FindDonorByExternalID(ctx, sender.ID)
		if findErr != nil {
			return "", findErr
		}
		current, findErr := e.ledger.FindCollectionPointByID(ctx, donor.CollectionPointID)
		if findErr != nil {
			return "", findErr
		}
		e.finish(ctx, conv)
		return msgAlreadyDonor(current.InstitutionName), nil
	}
	return "", err
}

func (e *Engine) receiveLiters(ctx context.Context, conv *models.Conversation, text string) (string, error) {
	liters, err := ledger.ParseLiters(text)
	if err != nil {
		return msgInvalidLiters, nil
	}

	donor, err := e.ledger.FindDonorByExternalID(ctx, conv.UserID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			e.finish(ctx, conv)
			return msgDonationNeedsDonor, nil
		}
		return "", err
	}

	donation, err := e.ledger.CreateDonation(ctx, donor.ID, liters)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeValidation) {
			return msgInvalidLiters, nil
		}
		return "", err
	}
	e.finish(ctx, conv)
	return msgDonationDone(donation.DeliveryCode), nil
}

func (e *Engine) advance(ctx context.Context, conv *models.Conversation, next models.State) error {
	if err := conv.Advance(next, e.now()); err != nil {
		return err
	}
	return e.store.Update(ctx, conv)
}

// finish clears a completed conversation. The ledger write already committed,
// so a failure here is logged rather than reported; a leftover conversation
// is resolved by the duplicate checks on the next message.
func (e *Engine) finish(ctx context.Context, conv *models.Conversation) {
	if err := e.store.Delete(ctx, conv.UserID); err != nil {
		e.logger.ErrorContext(ctx, "failed to clear finished conversation",
			"user_id", conv.UserID.String(),
			"flow", string(conv.Flow),
			"error", err,
		)
		return
	}
	e.logger.InfoContext(ctx, "dialogue flow finished",
		"user_id", conv.UserID.String(),
		"flow", string(conv.Flow),
	)
}
