package token

import (
	"fmt"

	"github.com/bitfsorg/libissuance-go/account"
	"github.com/bitfsorg/libissuance-go/diamond"
	"github.com/bitfsorg/libissuance-go/units"
)

// Signatures of the shared ledger surface.
const (
	SigName              = "name()"
	SigSymbol            = "symbol()"
	SigDecimals          = "decimals()"
	SigTotalSupply       = "totalSupply()"
	SigBalanceOf         = "balanceOf(address)"
	SigTransfer          = "transfer(address,uint256)"
	SigAllowance         = "allowance(address,address)"
	SigApprove           = "approve(address,uint256)"
	SigTransferFrom      = "transferFrom(address,address,uint256)"
	SigIncreaseAllowance = "increaseAllowance(address,uint256)"
	SigDecreaseAllowance = "decreaseAllowance(address,uint256)"
	SigMint              = "mint(address,uint256)"
	SigBurn              = "burn(address,uint256)"
)

// Hooks let an instrument constrain and observe balance changes. Every hook
// is optional.
type Hooks struct {
	// CheckMint runs before a mint and may reject it.
	CheckMint func(f *diamond.Frame, st *Store, to account.Address, amount uint64) error

	// CheckBurn runs before a burn and may reject it.
	CheckBurn func(f *diamond.Frame, st *Store, from account.Address, amount uint64) error

	// Moved runs after balances changed. from is zero for a mint and to is
	// zero for a burn. toBefore is the recipient balance before the change.
	Moved func(f *diamond.Frame, from, to account.Address, amount, toBefore uint64) error
}

// Methods returns the shared ledger methods bound to hooks. Instrument facets
// append their own methods to these.
func Methods(h Hooks) []diamond.Method {
	l := ledger{hooks: h}
	return []diamond.Method{
		{Signature: SigName, Handler: l.name},
		{Signature: SigSymbol, Handler: l.symbol},
		{Signature: SigDecimals, Handler: l.decimals},
		{Signature: SigTotalSupply, Handler: l.totalSupply},
		{Signature: SigBalanceOf, Handler: l.balanceOf},
		{Signature: SigTransfer, Handler: l.transfer},
		{Signature: SigAllowance, Handler: l.allowance},
		{Signature: SigApprove, Handler: l.approve},
		{Signature: SigTransferFrom, Handler: l.transferFrom},
		{Signature: SigIncreaseAllowance, Handler: l.increaseAllowance},
		{Signature: SigDecreaseAllowance, Handler: l.decreaseAllowance},
		{Signature: SigMint, Handler: l.mint},
		{Signature: SigBurn, Handler: l.burn},
	}
}

type ledger struct {
	hooks Hooks
}

func (ledger) name(f *diamond.Frame, _ diamond.Args) (any, error) {
	st, err := Open(f)
	if err != nil {
		return nil, err
	}
	return st.Name(), nil
}

func (ledger) symbol(f *diamond.Frame, _ diamond.Args) (any, error) {
	st, err := Open(f)
	if err != nil {
		return nil, err
	}
	return st.Symbol(), nil
}

func (ledger) decimals(*diamond.Frame, diamond.Args) (any, error) {
	return uint64(units.Decimals), nil
}

func (ledger) totalSupply(f *diamond.Frame, _ diamond.Args) (any, error) {
	st, err := Open(f)
	if err != nil {
		return nil, err
	}
	return st.TotalSupply()
}

func (ledger) balanceOf(f *diamond.Frame, in diamond.Args) (any, error) {
	holder, err := in.Address(0)
	if err != nil {
		return nil, err
	}
	st, err := Open(f)
	if err != nil {
		return nil, err
	}
	return st.BalanceOf(holder)
}

func (ledger) allowance(f *diamond.Frame, in diamond.Args) (any, error) {
	holder, err := in.Address(0)
	if err != nil {
		return nil, err
	}
	spender, err := in.Address(1)
	if err != nil {
		return nil, err
	}
	st, err := Open(f)
	if err != nil {
		return nil, err
	}
	return st.Allowance(holder, spender)
}

func (l ledger) transfer(f *diamond.Frame, in diamond.Args) (any, error) {
	to, err := in.Address(0)
	if err != nil {
		return nil, err
	}
	amount, err := in.Uint64(1)
	if err != nil {
		return nil, err
	}
	return true, l.move(f, f.Caller(), to, amount)
}

func (l ledger) transferFrom(f *diamond.Frame, in diamond.Args) (any, error) {
	from, err := in.Address(0)
	if err != nil {
		return nil, err
	}
	to, err := in.Address(1)
	if err != nil {
		return nil, err
	}
	amount, err := in.Uint64(2)
	if err != nil {
		return nil, err
	}
	st, err := Open(f)
	if err != nil {
		return nil, err
	}
	allowed, err := st.Allowance(from, f.Caller())
	if err != nil {
		return nil, err
	}
	if allowed < amount {
		return nil, fmt.Errorf("%w: %s may move %d, needs %d", ErrInsufficientAllowance, f.Caller(), allowed, amount)
	}
	if err := st.SetAllowance(from, f.Caller(), allowed-amount); err != nil {
		return nil, err
	}
	return true, l.move(f, from, to, amount)
}

func (l ledger) move(f *diamond.Frame, from, to account.Address, amount uint64) error {
	if err := account.Validate(to); err != nil {
		return fmt.Errorf("%w: recipient", err)
	}
	st, err := Open(f)
	if err != nil {
		return err
	}
	toBefore, err := st.BalanceOf(to)
	if err != nil {
		return err
	}
	if err := st.Move(from, to, amount); err != nil {
		return err
	}
	if l.hooks.Moved != nil && from != to {
		if err := l.hooks.Moved(f, from, to, amount, toBefore); err != nil {
			return err
		}
	}
	f.Emit("Transfer", diamond.AddrAttr("from", from), diamond.AddrAttr("to", to), diamond.UintAttr("value", amount))
	return nil
}

func (ledger) approve(f *diamond.Frame, in diamond.Args) (any, error) {
	spender, err := in.Address(0)
	if err != nil {
		return nil, err
	}
	amount, err := in.Uint64(1)
	if err != nil {
		return nil, err
	}
	return true, setAllowance(f, spender, func(uint64) (uint64, error) { return amount, nil })
}

func (ledger) increaseAllowance(f *diamond.Frame, in diamond.Args) (any, error) {
	spender, err := in.Address(0)
	if err != nil {
		return nil, err
	}
	delta, err := in.Uint64(1)
	if err != nil {
		return nil, err
	}
	return true, setAllowance(f, spender, func(cur uint64) (uint64, error) { return units.Add(cur, delta) })
}

func (ledger) decreaseAllowance(f *diamond.Frame, in diamond.Args) (any, error) {
	spender, err := in.Address(0)
	if err != nil {
		return nil, err
	}
	delta, err := in.Uint64(1)
	if err != nil {
		return nil, err
	}
	return true, setAllowance(f, spender, func(cur uint64) (uint64, error) {
		if delta > cur {
			return 0, fmt.Errorf("%w: allowance %d below %d", ErrInsufficientAllowance, cur, delta)
		}
		return cur - delta, nil
	})
}

func setAllowance(f *diamond.Frame, spender account.Address, update func(uint64) (uint64, error)) error {
	if err := account.Validate(spender); err != nil {
		return fmt.Errorf("%w: spender", err)
	}
	st, err := Open(f)
	if err != nil {
		return err
	}
	cur, err := st.Allowance(f.Caller(), spender)
	if err != nil {
		return err
	}
	next, err := update(cur)
	if err != nil {
		return err
	}
	if err := st.SetAllowance(f.Caller(), spender, next); err != nil {
		return err
	}
	f.Emit("Approval", diamond.AddrAttr("owner", f.Caller()), diamond.AddrAttr("spender", spender), diamond.UintAttr("value", next))
	return nil
}

// mint is restricted to the diamond owner and its operator.
func (l ledger) mint(f *diamond.Frame, in diamond.Args) (any, error) {
	if err := diamond.RequireOwnerOrOperator(f); err != nil {
		return nil, err
	}
	to, err := in.Address(0)
	if err != nil {
		return nil, err
	}
	amount, err := in.Uint64(1)
	if err != nil {
		return nil, err
	}
	if err := account.Validate(to); err != nil {
		return nil, fmt.Errorf("%w: recipient", err)
	}
	if amount == 0 {
		return nil, ErrZeroAmount
	}
	st, err := Open(f)
	if err != nil {
		return nil, err
	}
	if err := st.RequireInitialized(); err != nil {
		return nil, err
	}
	if l.hooks.CheckMint != nil {
		if err := l.hooks.CheckMint(f, st, to, amount); err != nil {
			return nil, err
		}
	}
	toBefore, err := st.BalanceOf(to)
	if err != nil {
		return nil, err
	}
	if err := st.Mint(to, amount); err != nil {
		return nil, err
	}
	if l.hooks.Moved != nil {
		if err := l.hooks.Moved(f, account.Zero, to, amount, toBefore); err != nil {
			return nil, err
		}
	}
	f.Emit("Transfer", diamond.AddrAttr("from", account.Zero), diamond.AddrAttr("to", to), diamond.UintAttr("value", amount))
	return true, nil
}

// burn is restricted to the diamond owner and its operator.
func (l ledger) burn(f *diamond.Frame, in diamond.Args) (any, error) {
	if err := diamond.RequireOwnerOrOperator(f); err != nil {
		return nil, err
	}
	from, err := in.Address(0)
	if err != nil {
		return nil, err
	}
	amount, err := in.Uint64(1)
	if err != nil {
		return nil, err
	}
	if amount == 0 {
		return nil, ErrZeroAmount
	}
	st, err := Open(f)
	if err != nil {
		return nil, err
	}
	if l.hooks.CheckBurn != nil {
		if err := l.hooks.CheckBurn(f, st, from, amount); err != nil {
			return nil, err
		}
	}
	if err := st.Burn(from, amount); err != nil {
		return nil, err
	}
	if l.hooks.Moved != nil {
		if err := l.hooks.Moved(f, from, account.Zero, amount, 0); err != nil {
			return nil, err
		}
	}
	f.Emit("Transfer", diamond.AddrAttr("from", from), diamond.AddrAttr("to", account.Zero), diamond.UintAttr("value", amount))
	return true, nil
}

// HolderPage serves a paginated holder accessor.
func HolderPage(f *diamond.Frame, in diamond.Args) (any, error) {
	offset, err := in.Uint64(0)
	if err != nil {
		return nil, err
	}
	limit, err := in.Uint64(1)
	if err != nil {
		return nil, err
	}
	st, err := Open(f)
	if err != nil {
		return nil, err
	}
	return st.Holders().Page(offset, limit)
}

// HolderCount serves a holder count accessor.
func HolderCount(f *diamond.Frame, _ diamond.Args) (any, error) {
	st, err := Open(f)
	if err != nil {
		return nil, err
	}
	return st.Holders().Len()
}
