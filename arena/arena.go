// Package arena provides the shared storage every facet of a diamond reads and
// writes. State is partitioned into spaces keyed by (owner, namespace) so that
// facets sharing one diamond can never collide.
package arena

import (
	"github.com/bitfsorg/libissuance-go/account"
)

// Arena is a transactional key/value store.
type Arena interface {
	// View runs fn in a read-only transaction.
	View(fn func(Tx) error) error

	// Update runs fn in a read-write transaction. If fn returns an error,
	// every write made during the transaction is discarded.
	Update(fn func(Tx) error) error

	// Close releases the underlying resources.
	Close() error
}

// Tx is an open arena transaction.
type Tx interface {
	// Space returns the keyspace for (owner, namespace). Read-only
	// transactions return an empty space when it does not exist yet.
	Space(owner account.Address, namespace string) (Space, error)

	// Writable reports whether the transaction accepts writes.
	Writable() bool
}

// Space is an isolated keyspace. Returned slices are only valid for the life
// of the transaction.
type Space interface {
	Get(key []byte) []byte
	Put(key, value []byte) error
	Delete(key []byte) error

	// Scan calls fn for every key starting with prefix, in key order.
	Scan(prefix []byte, fn func(key, value []byte) error) error
}

// spaceID is the flat identity of a space, used by the in-memory backend.
func spaceID(owner account.Address, namespace string) string {
	return string(owner[:]) + "\x00" + namespace
}
