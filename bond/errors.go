package bond

import (
	"errors"

	"github.com/bitfsorg/libissuance-go/token"
)

var (
	// ErrNotMatured indicates a burn before the holder's position matured.
	ErrNotMatured = errors.New("bond: not matured")

	// ErrInvalidTerms indicates a zero maturity period.
	ErrInvalidTerms = errors.New("bond: invalid terms")

	// Re-exported ledger errors.
	ErrInsufficientBalance = token.ErrInsufficientBalance
	ErrAlreadyInitialized  = token.ErrAlreadyInitialized
)
