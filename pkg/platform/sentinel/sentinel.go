package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors.
//
// These represent factual states about records, not input validation failures:
// - ErrNotFound: record does not exist in the store
// - ErrAlreadyUsed: a unique key (campaign code, admin, donor, delivery code) is taken
// - ErrInvalidState: record is in the wrong state for the requested operation
// - ErrUnavailable: store or downstream dependency temporarily unavailable
//
// For validation errors (bad input, missing arguments), use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrAlreadyUsed  = errors.New("already used")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
