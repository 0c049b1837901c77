package models

import (
	"time"

	"github.com/google/uuid"

	ledger "oleobot/internal/ledger/models"
	dErrors "oleobot/pkg/domain-errors"
)

// Flow names a multi-step dialogue.
type Flow string

const (
	FlowRegistration Flow = "registration"
	FlowAssociation  Flow = "association"
	FlowDonation     Flow = "donation"
)

// State is the step a flow is waiting on.
type State string

const (
	StateAwaitingInstitutionName State = "awaiting_institution_name"
	StateAwaitingResponsibleName State = "awaiting_responsible_name"
	StateAwaitingCampaignCode    State = "awaiting_campaign_code"
	StateAwaitingLiters          State = "awaiting_liters"
)

var flowStates = map[Flow][]State{
	FlowRegistration: {StateAwaitingInstitutionName, StateAwaitingResponsibleName, StateAwaitingCampaignCode},
	FlowAssociation:  {StateAwaitingCampaignCode},
	FlowDonation:     {StateAwaitingLiters},
}

// InitialState returns the first step of f.
func (f Flow) InitialState() State {
	states := flowStates[f]
	if len(states) == 0 {
		return ""
	}
	return states[0]
}

func (f Flow) IsValid() bool {
	_, ok := flowStates[f]
	return ok
}

// Allows reports whether s is a step of f.
func (f Flow) Allows(s State) bool {
	for _, candidate := range flowStates[f] {
		if candidate == s {
			return true
		}
	}
	return false
}

// RegistrationDraft carries answers collected before the collection point exists.
type RegistrationDraft struct {
	InstitutionName string `json:"institution_name,omitempty"`
	ResponsibleName string `json:"responsible_name,omitempty"`
}

// Conversation is one user's in-progress dialogue. It exists only while a flow
// is active; idle users have no conversation.
//
// ID is fresh for every flow entry and Version increases on every update.
// Together they let a writer detect that the conversation moved or was
// replaced underneath it.
type Conversation struct {
	ID           uuid.UUID         `json:"id"`
	UserID       ledger.ExternalID `json:"user_id"`
	Flow         Flow              `json:"flow"`
	State        State             `json:"state"`
	Registration RegistrationDraft `json:"registration"`
	Version      int64             `json:"version"`
	StartedAt    time.Time         `json:"started_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// NewConversation starts flow at its first step with an empty draft.
func NewConversation(user ledger.ExternalID, flow Flow, now time.Time) (*Conversation, error) {
	if user == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "conversation user is required")
	}
	if !flow.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown dialogue flow")
	}
	now = now.UTC()
	return &Conversation{
		ID:        uuid.New(),
		UserID:    user,
		Flow:      flow,
		State:     flow.InitialState(),
		StartedAt: now,
		UpdatedAt: now,
	}, nil
}

// Advance moves to next, which must belong to the same flow.
func (c *Conversation) Advance(next State, now time.Time) error {
	if !c.Flow.Allows(next) {
		return dErrors.New(dErrors.CodeValidation, "state does not belong to flow")
	}
	c.State = next
	c.UpdatedAt = now.UTC()
	return nil
}
