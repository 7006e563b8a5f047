package diamond

import (
	"fmt"

	"github.com/bitfsorg/libissuance-go/account"
	"github.com/bitfsorg/libissuance-go/arena"
	"github.com/bitfsorg/libissuance-go/units"
)

// Host-level namespaces, owned by the zero address.
const (
	nsHostMeta   = "host.meta"
	nsHostNative = "host.native"
	nsHostNonce  = "host.nonce"
	nsHostLogs   = "host.logs"
)

var (
	keySeq      = []byte("seq")
	keyLogCount = []byte("logs")
)

// nativeBalance reads the native currency balance of addr.
func nativeBalance(s arena.Space, addr account.Address) (uint64, error) {
	return arena.GetUint64(s, addr[:])
}

// moveNative debits from and credits to. Balances never go negative.
func moveNative(s arena.Space, from, to account.Address, amount uint64) error {
	if amount == 0 || from == to {
		return nil
	}
	fb, err := nativeBalance(s, from)
	if err != nil {
		return err
	}
	if fb < amount {
		return fmt.Errorf("%w: %s has %d, needs %d", ErrInsufficientFunds, from, fb, amount)
	}
	tb, err := nativeBalance(s, to)
	if err != nil {
		return err
	}
	nb, err := units.Add(tb, amount)
	if err != nil {
		return err
	}
	if err := arena.PutUint64(s, from[:], fb-amount); err != nil {
		return err
	}
	return arena.PutUint64(s, to[:], nb)
}

// creditNative mints native currency to addr.
func creditNative(s arena.Space, addr account.Address, amount uint64) error {
	b, err := nativeBalance(s, addr)
	if err != nil {
		return err
	}
	nb, err := units.Add(b, amount)
	if err != nil {
		return err
	}
	return arena.PutUint64(s, addr[:], nb)
}
