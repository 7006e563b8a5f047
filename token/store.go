// Package token implements the fungible ledger shared by the bond, warrant
// and equity facets: balances, allowances, total supply and an append-only
// holder set, all stored in the diamond's "token" namespace.
package token

import (
	"fmt"

	"github.com/bitfsorg/libissuance-go/account"
	"github.com/bitfsorg/libissuance-go/arena"
	"github.com/bitfsorg/libissuance-go/diamond"
	"github.com/bitfsorg/libissuance-go/units"
)

// Namespace is the diamond namespace holding ledger state.
const Namespace = "token"

var (
	keyInitialized = []byte("init")
	keyName        = []byte("name")
	keySymbol      = []byte("symbol")
	keySupply      = []byte("supply")
)

const (
	prefixBalance   = "b"
	prefixAllowance = "a"
	prefixHolders   = "h/"
)

// Store is the ledger state of one diamond.
type Store struct {
	s arena.Space
}

// Open returns the ledger of the frame's diamond.
func Open(f *diamond.Frame) (*Store, error) {
	s, err := f.Space(Namespace)
	if err != nil {
		return nil, err
	}
	return &Store{s: s}, nil
}

// Initialized reports whether Init has run.
func (st *Store) Initialized() bool { return arena.GetBool(st.s, keyInitialized) }

// RequireInitialized fails with ErrNotInitialized before Init.
func (st *Store) RequireInitialized() error {
	if !st.Initialized() {
		return ErrNotInitialized
	}
	return nil
}

// Init sets the token metadata once.
func (st *Store) Init(name, symbol string) error {
	if st.Initialized() {
		return ErrAlreadyInitialized
	}
	if err := arena.PutString(st.s, keyName, name); err != nil {
		return err
	}
	if err := arena.PutString(st.s, keySymbol, symbol); err != nil {
		return err
	}
	return arena.PutBool(st.s, keyInitialized, true)
}

func (st *Store) Name() string   { return arena.GetString(st.s, keyName) }
func (st *Store) Symbol() string { return arena.GetString(st.s, keySymbol) }

// TotalSupply returns the sum of all balances.
func (st *Store) TotalSupply() (uint64, error) { return arena.GetUint64(st.s, keySupply) }

// BalanceOf returns the balance of holder.
func (st *Store) BalanceOf(holder account.Address) (uint64, error) {
	return arena.GetUint64(st.s, arena.Key(prefixBalance, holder[:]))
}

// Allowance returns what spender may move on behalf of holder.
func (st *Store) Allowance(holder, spender account.Address) (uint64, error) {
	return arena.GetUint64(st.s, arena.Key(prefixAllowance, holder[:], spender[:]))
}

// Holders is the append-only set of every address that ever held a balance.
func (st *Store) Holders() *arena.Set { return arena.NewSet(st.s, prefixHolders) }

func (st *Store) setBalance(holder account.Address, v uint64) error {
	return arena.PutUint64(st.s, arena.Key(prefixBalance, holder[:]), v)
}

// SetAllowance overwrites the allowance of spender over holder.
func (st *Store) SetAllowance(holder, spender account.Address, v uint64) error {
	return arena.PutUint64(st.s, arena.Key(prefixAllowance, holder[:], spender[:]), v)
}

// credit adds amount to holder and records them as a holder.
func (st *Store) credit(holder account.Address, amount uint64) error {
	b, err := st.BalanceOf(holder)
	if err != nil {
		return err
	}
	nb, err := units.Add(b, amount)
	if err != nil {
		return err
	}
	if err := st.setBalance(holder, nb); err != nil {
		return err
	}
	_, err = st.Holders().Add(holder)
	return err
}

// debit removes amount from holder.
func (st *Store) debit(holder account.Address, amount uint64) error {
	b, err := st.BalanceOf(holder)
	if err != nil {
		return err
	}
	if b < amount {
		return fmt.Errorf("%w: %s holds %d, needs %d", ErrInsufficientBalance, holder, b, amount)
	}
	return st.setBalance(holder, b-amount)
}

// Mint creates amount for holder.
func (st *Store) Mint(holder account.Address, amount uint64) error {
	supply, err := st.TotalSupply()
	if err != nil {
		return err
	}
	ns, err := units.Add(supply, amount)
	if err != nil {
		return err
	}
	if err := st.credit(holder, amount); err != nil {
		return err
	}
	return arena.PutUint64(st.s, keySupply, ns)
}

// Burn destroys amount held by holder.
func (st *Store) Burn(holder account.Address, amount uint64) error {
	if err := st.debit(holder, amount); err != nil {
		return err
	}
	supply, err := st.TotalSupply()
	if err != nil {
		return err
	}
	ns, err := units.Sub(supply, amount)
	if err != nil {
		return err
	}
	return arena.PutUint64(st.s, keySupply, ns)
}

// Move transfers amount from one holder to another.
func (st *Store) Move(from, to account.Address, amount uint64) error {
	if err := st.debit(from, amount); err != nil {
		return err
	}
	return st.credit(to, amount)
}
