package sale

import (
	"errors"

	"github.com/bitfsorg/libissuance-go/account"
	"github.com/bitfsorg/libissuance-go/bond"
	"github.com/bitfsorg/libissuance-go/token"
	"github.com/bitfsorg/libissuance-go/warrant"
)

var (
	// ErrSaleInactive indicates the instrument's sale is paused.
	ErrSaleInactive = errors.New("sale: sale inactive")

	// ErrAmountOutOfRange indicates a purchase outside the configured limits.
	ErrAmountOutOfRange = errors.New("sale: amount out of range")

	// ErrInsufficientReserve indicates the engine cannot cover a payout.
	ErrInsufficientReserve = errors.New("sale: insufficient reserve")

	// ErrIncorrectPayment indicates the attached value differs from the
	// exercise cost.
	ErrIncorrectPayment = errors.New("sale: incorrect payment")

	// ErrInvalidLimits indicates min > max or a zero max.
	ErrInvalidLimits = errors.New("sale: invalid limits")

	// ErrZeroFunding indicates a funding call without value.
	ErrZeroFunding = errors.New("sale: no value attached")

	ErrInvalidAddress     = account.ErrInvalidAddress
	ErrNotInitialized     = token.ErrNotInitialized
	ErrAlreadyInitialized = token.ErrAlreadyInitialized
	ErrNotMatured         = bond.ErrNotMatured
	ErrExpired            = warrant.ErrExpired
)
