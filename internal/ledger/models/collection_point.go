package models

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	dErrors "oleobot/pkg/domain-errors"
)

// ExternalID is the chat platform's identifier for a user. For private chats
// it doubles as the chat to reply to.
type ExternalID int64

func (e ExternalID) String() string {
	return strconv.FormatInt(int64(e), 10)
}

const maxCampaignCodeLength = 64

// CollectionPoint is an institution collecting oil for a campaign.
//
// Invariants:
//   - CampaignCode is non-empty, uppercase and unique across collection points
//   - AdminExternalID is unique: one user administers at most one point
//   - ValidatedLiters never decreases; it only grows through Credit
type CollectionPoint struct {
	ID              uuid.UUID
	CampaignCode    string
	InstitutionName string
	ResponsibleName string
	AdminExternalID ExternalID
	ValidatedLiters float64
	CreatedAt       time.Time
}

// NormalizeCampaignCode is the single place campaign codes are canonicalized.
// Lookups and inserts both go through it, which makes matching case-insensitive.
func NormalizeCampaignCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidateCampaignCode checks an already normalized code: ASCII letters and
// digits only.
func ValidateCampaignCode(code string) error {
	if code == "" {
		return dErrors.New(dErrors.CodeValidation, "campaign code cannot be empty")
	}
	if utf8.RuneCountInString(code) > maxCampaignCodeLength {
		return dErrors.New(dErrors.CodeValidation, "campaign code is too long")
	}
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return dErrors.New(dErrors.CodeValidation, "campaign code must contain only letters and digits")
		}
	}
	return nil
}

func NewCollectionPoint(id uuid.UUID, code, institutionName, responsibleName string, admin ExternalID, now time.Time) (*CollectionPoint, error) {
	code = NormalizeCampaignCode(code)
	if err := ValidateCampaignCode(code); err != nil {
		return nil, err
	}
	institutionName = strings.TrimSpace(institutionName)
	responsibleName = strings.TrimSpace(responsibleName)
	if institutionName == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "institution name cannot be empty")
	}
	if responsibleName == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "responsible name cannot be empty")
	}
	if admin == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "admin identity is required")
	}
	return &CollectionPoint{
		ID:              id,
		CampaignCode:    code,
		InstitutionName: institutionName,
		ResponsibleName: responsibleName,
		AdminExternalID: admin,
		CreatedAt:       now.UTC(),
	}, nil
}

// Credit adds validated liters to the running total.
func (c *CollectionPoint) Credit(liters float64) {
	if liters <= 0 {
		return
	}
	c.ValidatedLiters += liters
}
