package service

import (
	"errors"
	"strings"

	"oleobot/internal/ledger/store"
	dErrors "oleobot/pkg/domain-errors"
	"oleobot/pkg/platform/sentinel"
)

func isNotFound(err error) bool {
	return errors.Is(err, sentinel.ErrNotFound)
}

func isInvalidState(err error) bool {
	return errors.Is(err, sentinel.ErrInvalidState)
}

func isDeliveryCodeCollision(err error) bool {
	return errors.Is(err, store.ErrDeliveryCodeTaken)
}

func normalizeDeliveryCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// translateFind turns a missing record into CodeNotFound and passes anything
// else through for translate to classify.
func translateFind(err error, msg string) error {
	if err == nil {
		return nil
	}
	if isNotFound(err) {
		return dErrors.New(dErrors.CodeNotFound, msg)
	}
	return err
}

// translate maps store facts to domain codes. Errors that already carry a
// domain code pass through unchanged.
func translate(err error, msg string) error {
	if err == nil {
		return nil
	}
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	switch {
	case errors.Is(err, store.ErrCampaignCodeTaken):
		return dErrors.New(dErrors.CodeDuplicateCode, "campaign code already registered")
	case errors.Is(err, store.ErrAdminTaken):
		return dErrors.New(dErrors.CodeDuplicateAdmin, "user already administers a collection point")
	case errors.Is(err, store.ErrDonorTaken):
		return dErrors.New(dErrors.CodeDuplicateDonor, "user already joined a collection point")
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		return dErrors.Wrap(err, dErrors.CodeConflict, msg)
	case isNotFound(err):
		return dErrors.Wrap(err, dErrors.CodeNotFound, msg)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}

func translateDonorError(err error) error {
	if isNotFound(err) {
		return dErrors.New(dErrors.CodeNotFound, "collection point not found")
	}
	return translate(err, "failed to create donor")
}
