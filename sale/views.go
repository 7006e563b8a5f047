package sale

import (
	"github.com/bitfsorg/libissuance-go/account"
	"github.com/bitfsorg/libissuance-go/bond"
	"github.com/bitfsorg/libissuance-go/diamond"
	"github.com/bitfsorg/libissuance-go/warrant"
)

// Config is the sale configuration. The last four fields are read live from
// the ledgers.
type Config struct {
	BondSaleActive       bool
	WarrantSaleActive    bool
	MinBondPurchase      uint64
	MaxBondPurchase      uint64
	MinWarrantPurchase   uint64
	MaxWarrantPurchase   uint64
	Treasury             account.Address
	BondMaturityPeriod   uint64
	BondYieldBasisPoints uint64
	WarrantStrikePrice   uint64
	WarrantPrice         uint64
}

// Metrics are the engine's running totals.
type Metrics struct {
	TotalFundsRaised       uint64
	ActiveBondCount        uint64
	TotalWarrantsIssued    uint64
	TotalEquityIssued      uint64
	TotalBondRedemptions   uint64
	TotalWarrantsExercised uint64
	ReserveBalance         uint64
}

func settingsField(get func(settings) any) diamond.Handler {
	return func(f *diamond.Frame, _ diamond.Args) (any, error) {
		st, err := open(f)
		if err != nil {
			return nil, err
		}
		cfg, err := st.settings()
		if err != nil {
			return nil, err
		}
		return get(cfg), nil
	}
}

func ledgerField(target func(settings) account.Address, sig string) diamond.Handler {
	return func(f *diamond.Frame, _ diamond.Args) (any, error) {
		st, err := open(f)
		if err != nil {
			return nil, err
		}
		cfg, err := st.settings()
		if err != nil {
			return nil, err
		}
		return callUint(f, target(cfg), sig)
	}
}

func counterField(key []byte) diamond.Handler {
	return func(f *diamond.Frame, _ diamond.Args) (any, error) {
		st, err := open(f)
		if err != nil {
			return nil, err
		}
		return st.counter(key)
	}
}

func getSaleConfig(f *diamond.Frame, _ diamond.Args) (any, error) {
	st, err := open(f)
	if err != nil {
		return nil, err
	}
	s, err := st.settings()
	if err != nil {
		return nil, err
	}
	c := Config{
		BondSaleActive:     s.BondSaleActive,
		WarrantSaleActive:  s.WarrantSaleActive,
		MinBondPurchase:    s.MinBondPurchase,
		MaxBondPurchase:    s.MaxBondPurchase,
		MinWarrantPurchase: s.MinWarrantPurchase,
		MaxWarrantPurchase: s.MaxWarrantPurchase,
		Treasury:           s.Treasury,
	}
	if c.BondMaturityPeriod, err = callUint(f, s.Bond, bond.SigMaturityPeriod); err != nil {
		return nil, err
	}
	if c.BondYieldBasisPoints, err = callUint(f, s.Bond, bond.SigYieldBasisPoints); err != nil {
		return nil, err
	}
	if c.WarrantStrikePrice, err = callUint(f, s.Warrant, warrant.SigStrikePrice); err != nil {
		return nil, err
	}
	if c.WarrantPrice, err = callUint(f, s.Warrant, warrant.SigWarrantPrice); err != nil {
		return nil, err
	}
	return c, nil
}

func getSaleMetrics(f *diamond.Frame, _ diamond.Args) (any, error) {
	st, err := open(f)
	if err != nil {
		return nil, err
	}
	cfg, err := st.settings()
	if err != nil {
		return nil, err
	}
	var m Metrics
	fields := []struct {
		dst *uint64
		key []byte
	}{
		{&m.TotalFundsRaised, keyFundsRaised},
		{&m.TotalWarrantsIssued, keyWarrantsIssued},
		{&m.TotalEquityIssued, keyEquityIssued},
		{&m.TotalBondRedemptions, keyBondRedemptions},
		{&m.TotalWarrantsExercised, keyWarrantsExercised},
	}
	for _, fl := range fields {
		if *fl.dst, err = st.counter(fl.key); err != nil {
			return nil, err
		}
	}
	if m.ActiveBondCount, err = callUint(f, cfg.Bond, bond.SigOpenPositionCount); err != nil {
		return nil, err
	}
	if m.ReserveBalance, err = f.Balance(f.Self()); err != nil {
		return nil, err
	}
	return m, nil
}

func getInvestors(f *diamond.Frame, in diamond.Args) (any, error) {
	offset, err := in.Uint64(0)
	if err != nil {
		return nil, err
	}
	limit, err := in.Uint64(1)
	if err != nil {
		return nil, err
	}
	st, err := open(f)
	if err != nil {
		return nil, err
	}
	return st.investors().Page(offset, limit)
}

func getInvestorCount(f *diamond.Frame, _ diamond.Args) (any, error) {
	st, err := open(f)
	if err != nil {
		return nil, err
	}
	return st.investors().Len()
}

// investorDetails returns a zero record for unknown addresses.
func investorDetails(f *diamond.Frame, in diamond.Args) (any, error) {
	a, err := in.Address(0)
	if err != nil {
		return nil, err
	}
	st, err := open(f)
	if err != nil {
		return nil, err
	}
	return st.record(a)
}
