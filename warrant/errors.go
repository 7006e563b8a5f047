package warrant

import (
	"errors"

	"github.com/bitfsorg/libissuance-go/account"
	"github.com/bitfsorg/libissuance-go/token"
)

var (
	// ErrExpired indicates the warrants can no longer be issued or exercised.
	ErrExpired = errors.New("warrant: expired")

	// ErrInvalidPrice indicates a zero strike or warrant price.
	ErrInvalidPrice = errors.New("warrant: invalid price")

	// ErrInvalidExpiration indicates an expiration that does not move forward.
	ErrInvalidExpiration = errors.New("warrant: invalid expiration")

	ErrInvalidAddress      = account.ErrInvalidAddress
	ErrInsufficientBalance = token.ErrInsufficientBalance
	ErrAlreadyInitialized  = token.ErrAlreadyInitialized
)
