package wallet

import "errors"

var (
	// ErrInvalidMnemonic indicates the mnemonic fails BIP39 validation.
	ErrInvalidMnemonic = errors.New("wallet: invalid BIP39 mnemonic")

	// ErrInvalidEntropy indicates entropy bits is not 128 or 256.
	ErrInvalidEntropy = errors.New("wallet: entropy bits must be 128 or 256")

	// ErrIndexOutOfRange indicates a participant index at or above the
	// hardened boundary.
	ErrIndexOutOfRange = errors.New("wallet: participant index exceeds maximum (2^31-1)")

	// ErrDecryptionFailed indicates wrong password or corrupted seed data.
	ErrDecryptionFailed = errors.New("wallet: seed decryption failed (wrong password or corrupted data)")

	// ErrChecksumMismatch indicates seed checksum verification failed after decryption.
	ErrChecksumMismatch = errors.New("wallet: seed checksum mismatch")

	// ErrInvalidNetwork indicates an unknown network name.
	ErrInvalidNetwork = errors.New("wallet: invalid network name")

	// ErrInvalidSeed indicates the seed is empty.
	ErrInvalidSeed = errors.New("wallet: invalid seed")

	// ErrDerivationFailed indicates BIP32 key derivation failed.
	ErrDerivationFailed = errors.New("wallet: key derivation failed")

	// ErrWalletExists indicates a seed file is already present.
	ErrWalletExists = errors.New("wallet: seed file already exists")

	// ErrWalletNotFound indicates no seed file at the expected path.
	ErrWalletNotFound = errors.New("wallet: seed file not found")

	// ErrLabelExists indicates the label is already assigned.
	ErrLabelExists = errors.New("wallet: label already exists")

	// ErrLabelNotFound indicates the label is not in the roster.
	ErrLabelNotFound = errors.New("wallet: label not found")

	// ErrInvalidLabel indicates an empty label or one that parses as an index.
	ErrInvalidLabel = errors.New("wallet: invalid label")
)
