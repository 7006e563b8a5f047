package equity

import (
	"errors"

	"github.com/bitfsorg/libissuance-go/token"
)

var (
	// ErrAuthorizedCapExceeded indicates a mint would push supply past the
	// authorized share count.
	ErrAuthorizedCapExceeded = errors.New("equity: authorized cap exceeded")

	// ErrInvalidCap indicates a zero authorized share count.
	ErrInvalidCap = errors.New("equity: invalid authorized shares")

	ErrAlreadyInitialized = token.ErrAlreadyInitialized
)
