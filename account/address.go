// Package account defines the 20-byte identities that own tokens, hold native
// value and address diamonds.
package account

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"
)

// AddressLen is the length of an address in bytes (a HASH160 digest).
const AddressLen = 20

var (
	// ErrInvalidAddress indicates a zero, malformed or otherwise degenerate address.
	ErrInvalidAddress = errors.New("account: invalid address")
)

// Address identifies a participant, a diamond or a deployed facet.
type Address [AddressLen]byte

// Zero is the null address.
var Zero Address

// IsZero reports whether a is the null address.
func (a Address) IsZero() bool { return a == Zero }

// String returns the lowercase hex encoding with a 0x prefix.
func (a Address) String() string { return "0x" + hex.EncodeToString(a[:]) }

// Bytes returns a copy of the address bytes.
func (a Address) Bytes() []byte {
	b := make([]byte, AddressLen)
	copy(b, a[:])
	return b
}

// ParseAddress decodes a hex address with or without a 0x prefix.
func ParseAddress(s string) (Address, error) {
	var a Address
	s = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	b, err := hex.DecodeString(s)
	if err != nil {
		return a, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	if len(b) != AddressLen {
		return a, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidAddress, AddressLen, len(b))
	}
	copy(a[:], b)
	return a, nil
}

// FromBytes converts a 20-byte slice to an Address.
func FromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != AddressLen {
		return a, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidAddress, AddressLen, len(b))
	}
	copy(a[:], b)
	return a, nil
}

// FromPubKey computes HASH160(compressed pubkey), the P2PKH address hash.
func FromPubKey(pub *ec.PublicKey) Address {
	var a Address
	copy(a[:], bsvhash.Hash160(pub.Compressed()))
	return a
}

// Hash derives an address from an arbitrary label, used for deployed facet code.
func Hash(label string) Address {
	var a Address
	copy(a[:], bsvhash.Hash160([]byte(label)))
	return a
}

// Derive computes the address of the nonce-th object created by creator.
func Derive(creator Address, nonce uint64) Address {
	buf := make([]byte, 0, 8+AddressLen+8)
	buf = append(buf, "diamond/"...)
	buf = append(buf, creator[:]...)
	buf = binary.BigEndian.AppendUint64(buf, nonce)
	var a Address
	copy(a[:], bsvhash.Hash160(buf))
	return a
}

// Validate returns ErrInvalidAddress for the zero address.
func Validate(a Address) error {
	if a.IsZero() {
		return ErrInvalidAddress
	}
	return nil
}
