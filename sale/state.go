package sale

import (
	"fmt"

	"github.com/bitfsorg/libissuance-go/account"
	"github.com/bitfsorg/libissuance-go/arena"
	"github.com/bitfsorg/libissuance-go/diamond"
	"github.com/bitfsorg/libissuance-go/units"
)

const namespace = "sale"

var keySettings = []byte("settings")

// Counter keys, exposed through getSaleMetrics and individual accessors.
var (
	keyFundsRaised       = []byte("c/fundsRaised")
	keyWarrantsIssued    = []byte("c/warrantsIssued")
	keyEquityIssued      = []byte("c/equityIssued")
	keyBondRedemptions   = []byte("c/bondRedemptions")
	keyWarrantsExercised = []byte("c/warrantsExercised")
)

// settings is the engine state mutated only by initialization and the
// owner-only setters.
type settings struct {
	Bond               account.Address
	Warrant            account.Address
	Equity             account.Address
	Treasury           account.Address
	MinBondPurchase    uint64
	MaxBondPurchase    uint64
	MinWarrantPurchase uint64
	MaxWarrantPurchase uint64
	BondSaleActive     bool
	WarrantSaleActive  bool
}

// Limits is a min/max purchase range in base units.
type Limits struct {
	Min uint64
	Max uint64
}

func (l Limits) validate() error {
	if l.Max == 0 || l.Min > l.Max {
		return fmt.Errorf("%w: min %d max %d", ErrInvalidLimits, l.Min, l.Max)
	}
	return nil
}

func (l Limits) contains(v uint64) bool { return v >= l.Min && v <= l.Max }

func (s settings) bondLimits() Limits { return Limits{Min: s.MinBondPurchase, Max: s.MaxBondPurchase} }
func (s settings) warrantLimits() Limits {
	return Limits{Min: s.MinWarrantPurchase, Max: s.MaxWarrantPurchase}
}

type state struct {
	f *diamond.Frame
	s arena.Space
}

func open(f *diamond.Frame) (*state, error) {
	s, err := f.Space(namespace)
	if err != nil {
		return nil, err
	}
	return &state{f: f, s: s}, nil
}

func (st *state) initialized() bool { return st.s.Get(keySettings) != nil }

// settings fails with ErrNotInitialized before initializeTokenSale.
func (st *state) settings() (settings, error) {
	var cfg settings
	ok, err := arena.GetGob(st.s, keySettings, &cfg)
	if err != nil {
		return settings{}, err
	}
	if !ok {
		return settings{}, ErrNotInitialized
	}
	return cfg, nil
}

func (st *state) saveSettings(cfg settings) error {
	return arena.PutGob(st.s, keySettings, cfg)
}

// update applies fn to the settings and persists the result.
func (st *state) update(fn func(*settings) error) error {
	cfg, err := st.settings()
	if err != nil {
		return err
	}
	if err := fn(&cfg); err != nil {
		return err
	}
	return st.saveSettings(cfg)
}

func (st *state) counter(key []byte) (uint64, error) { return arena.GetUint64(st.s, key) }

func (st *state) add(key []byte, delta uint64) error {
	v, err := arena.GetUint64(st.s, key)
	if err != nil {
		return err
	}
	nv, err := units.Add(v, delta)
	if err != nil {
		return err
	}
	return arena.PutUint64(st.s, key, nv)
}
