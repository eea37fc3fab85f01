package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and ledger adapters
// return these (optionally wrapped) so services can translate them into
// coded domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: claim does not exist in the store
// - ErrConflict: write raced with another writer
// - ErrInvalidState: claim in wrong state for the requested operation
// - ErrInsufficientFunds: value-ledger balance or allowance too low
// - ErrUnavailable: store or broker temporarily unavailable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors.
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidState      = errors.New("invalid state")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUnavailable       = errors.New("unavailable")
)
