package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"oleobot/pkg/platform/sentinel"
)

// Uniqueness facts. Each wraps sentinel.ErrAlreadyUsed so callers may match
// either the specific key or the general fact.
var (
	ErrCampaignCodeTaken = fmt.Errorf("campaign code %w", sentinel.ErrAlreadyUsed)
	ErrAdminTaken        = fmt.Errorf("collection point admin %w", sentinel.ErrAlreadyUsed)
	ErrDonorTaken        = fmt.Errorf("donor identity %w", sentinel.ErrAlreadyUsed)
	ErrDeliveryCodeTaken = fmt.Errorf("delivery code %w", sentinel.ErrAlreadyUsed)
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"

	constraintCampaignCode = "collection_points_campaign_code_key"
	constraintAdmin        = "collection_points_admin_external_id_key"
	constraintDonor        = "donors_external_id_key"
	constraintDeliveryCode = "donations_delivery_code_key"
)

// pgErrorCode extracts the SQLSTATE and constraint name from either driver.
func pgErrorCode(err error) (code, constraint string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName, true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint, true
	}
	return "", "", false
}

// translateWriteError maps constraint violations to store facts.
func translateWriteError(err error, op string) error {
	code, constraint, ok := pgErrorCode(err)
	if ok {
		switch code {
		case pgUniqueViolation:
			switch constraint {
			case constraintCampaignCode:
				return ErrCampaignCodeTaken
			case constraintAdmin:
				return ErrAdminTaken
			case constraintDonor:
				return ErrDonorTaken
			case constraintDeliveryCode:
				return ErrDeliveryCodeTaken
			}
			return fmt.Errorf("%s: %w", op, sentinel.ErrAlreadyUsed)
		case pgForeignKeyViolation:
			return fmt.Errorf("%s: referenced record: %w", op, sentinel.ErrNotFound)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
