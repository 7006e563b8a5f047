package diamond

import (
	"strconv"

	"github.com/bsv-blockchain/go-sdk/chainhash"

	"github.com/bitfsorg/libissuance-go/account"
)

// Attr is a single named log field.
type Attr struct {
	Key   string
	Value string
}

// Log is an event emitted by a facet. Logs of reverted calls are discarded.
type Log struct {
	Index     uint64          // position in the host log journal
	TxID      chainhash.Hash  // transaction that emitted the log
	Emitter   account.Address // diamond whose facet emitted it
	Name      string
	Attrs     []Attr
	Timestamp uint64
}

// Get returns the value of attribute key.
func (l Log) Get(key string) (string, bool) {
	for _, a := range l.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Uint returns attribute key parsed as an unsigned integer.
func (l Log) Uint(key string) (uint64, bool) {
	v, ok := l.Get(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseUint(v, 10, 64)
	return n, err == nil
}

// Address returns attribute key parsed as an address.
func (l Log) Address(key string) (account.Address, bool) {
	v, ok := l.Get(key)
	if !ok {
		return account.Zero, false
	}
	a, err := account.ParseAddress(v)
	return a, err == nil
}

// AddrAttr builds an address attribute.
func AddrAttr(key string, a account.Address) Attr { return Attr{Key: key, Value: a.String()} }

// UintAttr builds an unsigned integer attribute.
func UintAttr(key string, v uint64) Attr {
	return Attr{Key: key, Value: strconv.FormatUint(v, 10)}
}

// BoolAttr builds a boolean attribute.
func BoolAttr(key string, b bool) Attr { return Attr{Key: key, Value: strconv.FormatBool(b)} }

// StringAttr builds a string attribute.
func StringAttr(key, v string) Attr { return Attr{Key: key, Value: v} }
