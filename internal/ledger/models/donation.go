package models

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	dErrors "oleobot/pkg/domain-errors"
)

// DonationStatus tracks whether a collection point confirmed the delivery.
type DonationStatus string

const (
	DonationStatusPending   DonationStatus = "pending"
	DonationStatusValidated DonationStatus = "validated"
)

func (s DonationStatus) IsValid() bool {
	return s == DonationStatusPending || s == DonationStatusValidated
}

// CanTransitionTo allows pending -> validated only.
func (s DonationStatus) CanTransitionTo(next DonationStatus) bool {
	return s == DonationStatusPending && next == DonationStatusValidated
}

// Donation is one reported delivery, identified to the admin by DeliveryCode.
//
// Invariants:
//   - DeliveryCode matches OLEO-[A-Z0-9]{4} and is globally unique
//   - Liters is positive and immutable
//   - Status moves pending -> validated exactly once; ValidatedAt is set with it
type Donation struct {
	ID           uuid.UUID
	DeliveryCode string
	DonorID      uuid.UUID
	Liters       float64
	Status       DonationStatus
	CreatedAt    time.Time
	ValidatedAt  *time.Time
}

func NewDonation(id uuid.UUID, deliveryCode string, donorID uuid.UUID, liters float64, now time.Time) (*Donation, error) {
	if !IsDeliveryCode(deliveryCode) {
		return nil, dErrors.New(dErrors.CodeValidation, "malformed delivery code")
	}
	if donorID == uuid.Nil {
		return nil, dErrors.New(dErrors.CodeValidation, "donor is required")
	}
	if err := ValidateLiters(liters); err != nil {
		return nil, err
	}
	return &Donation{
		ID:           id,
		DeliveryCode: deliveryCode,
		DonorID:      donorID,
		Liters:       liters,
		Status:       DonationStatusPending,
		CreatedAt:    now.UTC(),
	}, nil
}

func (d *Donation) IsValidated() bool {
	return d.Status == DonationStatusValidated
}

// CanValidate checks the one-way status transition.
// Use with ApplyValidation inside a transaction.
func (d *Donation) CanValidate() error {
	if !d.Status.CanTransitionTo(DonationStatusValidated) {
		return dErrors.New(dErrors.CodeAlreadyValidated, "donation was already validated")
	}
	return nil
}

// ApplyValidation marks the donation validated. Call CanValidate first.
func (d *Donation) ApplyValidation(now time.Time) {
	at := now.UTC()
	d.Status = DonationStatusValidated
	d.ValidatedAt = &at
}

// ValidateLiters rejects zero, negative and non-finite quantities.
func ValidateLiters(liters float64) error {
	if math.IsNaN(liters) || math.IsInf(liters, 0) {
		return dErrors.New(dErrors.CodeValidation, "liters must be a finite number")
	}
	if liters <= 0 {
		return dErrors.New(dErrors.CodeValidation, "liters must be positive")
	}
	return nil
}

// ParseLiters reads a user supplied quantity. A comma is accepted as the
// decimal separator ("3,5" == 3.5).
func ParseLiters(text string) (float64, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	liters, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeValidation, "liters must be a number")
	}
	if err := ValidateLiters(liters); err != nil {
		return 0, err
	}
	return liters, nil
}
