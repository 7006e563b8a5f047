package sale

import (
	"fmt"

	"github.com/bitfsorg/libissuance-go/account"
	"github.com/bitfsorg/libissuance-go/diamond"
)

// adminUpdate runs an owner-only settings change.
func adminUpdate(f *diamond.Frame, fn func(*settings) error) (any, error) {
	if err := diamond.RequireOwner(f); err != nil {
		return nil, err
	}
	st, err := open(f)
	if err != nil {
		return nil, err
	}
	return nil, st.update(fn)
}

func toggleBondSale(f *diamond.Frame, in diamond.Args) (any, error) {
	active, err := in.Bool(0)
	if err != nil {
		return nil, err
	}
	return adminUpdate(f, func(s *settings) error {
		s.BondSaleActive = active
		f.Emit("BondSaleToggled", diamond.BoolAttr("active", active))
		return nil
	})
}

func toggleWarrantSale(f *diamond.Frame, in diamond.Args) (any, error) {
	active, err := in.Bool(0)
	if err != nil {
		return nil, err
	}
	return adminUpdate(f, func(s *settings) error {
		s.WarrantSaleActive = active
		f.Emit("WarrantSaleToggled", diamond.BoolAttr("active", active))
		return nil
	})
}

func limitsArg(in diamond.Args) (Limits, error) {
	lo, err := in.Uint64(0)
	if err != nil {
		return Limits{}, err
	}
	hi, err := in.Uint64(1)
	if err != nil {
		return Limits{}, err
	}
	l := Limits{Min: lo, Max: hi}
	return l, l.validate()
}

func updateBondLimits(f *diamond.Frame, in diamond.Args) (any, error) {
	l, err := limitsArg(in)
	if err != nil {
		return nil, err
	}
	return adminUpdate(f, func(s *settings) error {
		s.MinBondPurchase, s.MaxBondPurchase = l.Min, l.Max
		f.Emit("BondLimitsUpdated", diamond.UintAttr("min", l.Min), diamond.UintAttr("max", l.Max))
		return nil
	})
}

func updateWarrantLimits(f *diamond.Frame, in diamond.Args) (any, error) {
	l, err := limitsArg(in)
	if err != nil {
		return nil, err
	}
	return adminUpdate(f, func(s *settings) error {
		s.MinWarrantPurchase, s.MaxWarrantPurchase = l.Min, l.Max
		f.Emit("WarrantLimitsUpdated", diamond.UintAttr("min", l.Min), diamond.UintAttr("max", l.Max))
		return nil
	})
}

func updateTreasury(f *diamond.Frame, in diamond.Args) (any, error) {
	t, err := in.Address(0)
	if err != nil {
		return nil, err
	}
	if err := account.Validate(t); err != nil {
		return nil, fmt.Errorf("%w: treasury", err)
	}
	return adminUpdate(f, func(s *settings) error {
		f.Emit("TreasuryUpdated", diamond.AddrAttr("oldTreasury", s.Treasury), diamond.AddrAttr("newTreasury", t))
		s.Treasury = t
		return nil
	})
}

func updateTokenAddresses(f *diamond.Frame, in diamond.Args) (any, error) {
	var addrs [3]account.Address
	for i := range addrs {
		a, err := in.Address(i)
		if err != nil {
			return nil, err
		}
		if err := account.Validate(a); err != nil {
			return nil, fmt.Errorf("%w: argument %d", err, i)
		}
		addrs[i] = a
	}
	return adminUpdate(f, func(s *settings) error {
		s.Bond, s.Warrant, s.Equity = addrs[0], addrs[1], addrs[2]
		f.Emit("TokenAddressesUpdated",
			diamond.AddrAttr("bondToken", s.Bond),
			diamond.AddrAttr("warrantToken", s.Warrant),
			diamond.AddrAttr("equityToken", s.Equity))
		return nil
	})
}

// transferFullOwnership hands the three ledgers and the sale itself to
// newOwner in one transaction. The sale must be operator of every ledger.
func transferFullOwnership(f *diamond.Frame, in diamond.Args) (any, error) {
	if err := diamond.RequireOwner(f); err != nil {
		return nil, err
	}
	newOwner, err := in.Address(0)
	if err != nil {
		return nil, err
	}
	if err := account.Validate(newOwner); err != nil {
		return nil, err
	}
	st, err := open(f)
	if err != nil {
		return nil, err
	}
	cfg, err := st.settings()
	if err != nil {
		return nil, err
	}
	for _, ledger := range []account.Address{cfg.Bond, cfg.Warrant, cfg.Equity} {
		if err := callSend(f, ledger, diamond.SigTransferOwnership, newOwner); err != nil {
			return nil, fmt.Errorf("transfer %s: %w", ledger, err)
		}
	}
	return nil, diamond.TransferOwnership(f, newOwner)
}
