package token

import (
	"errors"

	"github.com/bitfsorg/libissuance-go/account"
)

var (
	// ErrInsufficientBalance indicates a transfer or burn exceeds the holding.
	ErrInsufficientBalance = errors.New("token: insufficient balance")

	// ErrInsufficientAllowance indicates transferFrom exceeds the approved amount.
	ErrInsufficientAllowance = errors.New("token: insufficient allowance")

	// ErrAlreadyInitialized indicates the ledger was initialized before.
	ErrAlreadyInitialized = errors.New("token: already initialized")

	// ErrNotInitialized indicates the ledger has not been initialized.
	ErrNotInitialized = errors.New("token: not initialized")

	// ErrZeroAmount indicates a mint or burn of nothing.
	ErrZeroAmount = errors.New("token: zero amount")

	// ErrInvalidAddress indicates a zero holder, spender or recipient.
	ErrInvalidAddress = account.ErrInvalidAddress
)
