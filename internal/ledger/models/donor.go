package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	dErrors "oleobot/pkg/domain-errors"
)

// Donor is a person committed to delivering oil to one collection point.
// The collection point is fixed at creation; there is no re-association.
type Donor struct {
	ID                uuid.UUID
	ExternalID        ExternalID
	DisplayName       string
	CollectionPointID uuid.UUID
	CreatedAt         time.Time
}

func NewDonor(id uuid.UUID, externalID ExternalID, displayName string, collectionPointID uuid.UUID, now time.Time) (*Donor, error) {
	if externalID == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "donor identity is required")
	}
	if collectionPointID == uuid.Nil {
		return nil, dErrors.New(dErrors.CodeValidation, "collection point is required")
	}
	return &Donor{
		ID:                id,
		ExternalID:        externalID,
		DisplayName:       strings.TrimSpace(displayName),
		CollectionPointID: collectionPointID,
		CreatedAt:         now.UTC(),
	}, nil
}

// BelongsTo reports whether the donor joined the given collection point.
func (d *Donor) BelongsTo(collectionPointID uuid.UUID) bool {
	return d.CollectionPointID == collectionPointID
}
