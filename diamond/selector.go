package diamond

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Selector is the 4-byte identifier of a routed operation: the first four
// bytes of Keccak-256 over the canonical signature.
type Selector [4]byte

// SelectorOf computes the selector of a canonical signature such as
// "transfer(address,uint256)".
func SelectorOf(signature string) Selector {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(signature))
	var s Selector
	copy(s[:], h.Sum(nil)[:4])
	return s
}

// SelectorsOf computes the selectors of several signatures, in order.
func SelectorsOf(signatures ...string) []Selector {
	out := make([]Selector, len(signatures))
	for i, sig := range signatures {
		out[i] = SelectorOf(sig)
	}
	return out
}

// String returns the 0x-prefixed hex form.
func (s Selector) String() string { return "0x" + hex.EncodeToString(s[:]) }

// IsZero reports whether s is the all-zero selector used for plain transfers.
func (s Selector) IsZero() bool { return s == Selector{} }

// ParseSelector decodes a 0x-prefixed 4-byte hex selector.
func ParseSelector(str string) (Selector, error) {
	var s Selector
	b, err := hex.DecodeString(strings.TrimPrefix(str, "0x"))
	if err != nil || len(b) != len(s) {
		return s, fmt.Errorf("%w: selector %q", ErrBadArguments, str)
	}
	copy(s[:], b)
	return s, nil
}
