// Package bond implements the bond ledger facet: principal positions with a
// purchase timestamp, a maturity gate and basis-point yield.
//
// The ledger does bookkeeping only. Paying out redemptions is the job of the
// caller, normally the token sale.
package bond

import (
	"fmt"

	"github.com/bitfsorg/libissuance-go/account"
	"github.com/bitfsorg/libissuance-go/arena"
	"github.com/bitfsorg/libissuance-go/diamond"
	"github.com/bitfsorg/libissuance-go/token"
	"github.com/bitfsorg/libissuance-go/units"
)

// SecondsPerDay converts maturity periods given in days.
const SecondsPerDay = 86400

const namespace = "bond"

var (
	keyIssued   = []byte("issued")
	keyMaturity = []byte("maturity")
	keyYield    = []byte("yield")
	keyOpen     = []byte("open")
)

var aging = token.Aging{Namespace: namespace, Prefix: "t"}

// Signatures of the bond-specific surface.
const (
	SigInitialize                = "initializeBondToken(string,string,uint256,uint256)"
	SigHasBondMatured            = "hasBondMatured(address)"
	SigCalculateRedemptionAmount = "calculateRedemptionAmount(uint256)"
	SigIssuanceTimestamp         = "issuanceTimestamp()"
	SigMaturityPeriod            = "maturityPeriod()"
	SigYieldBasisPoints          = "yieldBasisPoints()"
	SigBondPurchaseTimestamp     = "bondPurchaseTimestamp(address)"
	SigBondAmounts               = "bondAmounts(address)"
	SigTimeToMaturity            = "timeToMaturity(address)"
	SigGetBondHolders            = "getBondHolders(uint256,uint256)"
	SigGetBondHolderCount        = "getBondHolderCount()"
	SigGetPosition               = "getBondPosition(address)"
	SigOpenPositionCount         = "openPositionCount()"
)

// Position is a holder's bond position.
type Position struct {
	Holder            account.Address
	Principal         uint64
	PurchaseTimestamp uint64
}

// Terms are the bond parameters fixed at initialization.
type Terms struct {
	IssuanceTimestamp uint64
	MaturityPeriod    uint64 // seconds
	YieldBasisPoints  uint64
}

// Facet is the bond ledger.
type Facet struct{}

// Name implements diamond.Facet.
func (Facet) Name() string { return "bond.BondFacet/v1" }

// Methods implements diamond.Facet.
func (Facet) Methods() []diamond.Method {
	ms := token.Methods(token.Hooks{CheckBurn: checkBurn, Moved: moved})
	return append(ms,
		diamond.Method{Signature: SigInitialize, Handler: initialize},
		diamond.Method{Signature: SigHasBondMatured, Handler: hasBondMatured},
		diamond.Method{Signature: SigCalculateRedemptionAmount, Handler: calculateRedemptionAmount},
		diamond.Method{Signature: SigIssuanceTimestamp, Handler: termField(func(t Terms) uint64 { return t.IssuanceTimestamp })},
		diamond.Method{Signature: SigMaturityPeriod, Handler: termField(func(t Terms) uint64 { return t.MaturityPeriod })},
		diamond.Method{Signature: SigYieldBasisPoints, Handler: termField(func(t Terms) uint64 { return t.YieldBasisPoints })},
		diamond.Method{Signature: SigBondPurchaseTimestamp, Handler: purchaseTimestamp},
		diamond.Method{Signature: SigBondAmounts, Handler: bondAmounts},
		diamond.Method{Signature: SigTimeToMaturity, Handler: timeToMaturity},
		diamond.Method{Signature: SigGetBondHolders, Handler: token.HolderPage},
		diamond.Method{Signature: SigGetBondHolderCount, Handler: token.HolderCount},
		diamond.Method{Signature: SigGetPosition, Handler: getPosition},
		diamond.Method{Signature: SigOpenPositionCount, Handler: openPositionCount},
	)
}

// Selectors returns the selectors to route, without the initializer.
func Selectors() []diamond.Selector { return diamond.Selectors(Facet{}, SigInitialize) }

func loadTerms(f *diamond.Frame) (Terms, error) {
	s, err := f.Space(namespace)
	if err != nil {
		return Terms{}, err
	}
	var t Terms
	if t.IssuanceTimestamp, err = arena.GetUint64(s, keyIssued); err != nil {
		return Terms{}, err
	}
	if t.MaturityPeriod, err = arena.GetUint64(s, keyMaturity); err != nil {
		return Terms{}, err
	}
	if t.YieldBasisPoints, err = arena.GetUint64(s, keyYield); err != nil {
		return Terms{}, err
	}
	return t, nil
}

// initialize is owner only and runs once.
func initialize(f *diamond.Frame, in diamond.Args) (any, error) {
	if err := diamond.RequireOwner(f); err != nil {
		return nil, err
	}
	name, err := in.String(0)
	if err != nil {
		return nil, err
	}
	symbol, err := in.String(1)
	if err != nil {
		return nil, err
	}
	days, err := in.Uint64(2)
	if err != nil {
		return nil, err
	}
	yield, err := in.Uint64(3)
	if err != nil {
		return nil, err
	}
	if days == 0 {
		return nil, fmt.Errorf("%w: maturity period must be at least one day", ErrInvalidTerms)
	}
	period, err := units.Mul(days, SecondsPerDay)
	if err != nil {
		return nil, err
	}

	st, err := token.Open(f)
	if err != nil {
		return nil, err
	}
	if err := st.Init(name, symbol); err != nil {
		return nil, err
	}
	s, err := f.Space(namespace)
	if err != nil {
		return nil, err
	}
	if err := arena.PutUint64(s, keyIssued, f.Now()); err != nil {
		return nil, err
	}
	if err := arena.PutUint64(s, keyMaturity, period); err != nil {
		return nil, err
	}
	if err := arena.PutUint64(s, keyYield, yield); err != nil {
		return nil, err
	}
	f.Emit("BondTokenInitialized",
		diamond.StringAttr("name", name),
		diamond.StringAttr("symbol", symbol),
		diamond.UintAttr("maturityPeriod", period),
		diamond.UintAttr("yieldBasisPoints", yield))
	return nil, nil
}

// moved ages the recipient's position and keeps the count of holders with a
// non-zero balance. Mints, transfers and burns all pass through here.
func moved(f *diamond.Frame, from, to account.Address, amount, toBefore uint64) error {
	if err := aging.Moved(f, from, to, amount, toBefore); err != nil {
		return err
	}
	if amount == 0 {
		return nil
	}
	s, err := f.Space(namespace)
	if err != nil {
		return err
	}
	open, err := arena.GetUint64(s, keyOpen)
	if err != nil {
		return err
	}
	if !to.IsZero() && toBefore == 0 {
		open++
	}
	if !from.IsZero() {
		st, err := token.Open(f)
		if err != nil {
			return err
		}
		left, err := st.BalanceOf(from)
		if err != nil {
			return err
		}
		if left == 0 {
			if open, err = units.Sub(open, 1); err != nil {
				return err
			}
		}
	}
	return arena.PutUint64(s, keyOpen, open)
}

func openPositionCount(f *diamond.Frame, _ diamond.Args) (any, error) {
	s, err := f.Space(namespace)
	if err != nil {
		return nil, err
	}
	return arena.GetUint64(s, keyOpen)
}

// matured reports whether holder has a position old enough to redeem.
func matured(f *diamond.Frame, holder account.Address) (bool, error) {
	st, err := token.Open(f)
	if err != nil {
		return false, err
	}
	bal, err := st.BalanceOf(holder)
	if err != nil || bal == 0 {
		return false, err
	}
	ts, err := aging.Timestamp(f, holder)
	if err != nil {
		return false, err
	}
	t, err := loadTerms(f)
	if err != nil {
		return false, err
	}
	return f.Now() >= ts && f.Now()-ts >= t.MaturityPeriod, nil
}

func checkBurn(f *diamond.Frame, _ *token.Store, from account.Address, _ uint64) error {
	ok, err := matured(f, from)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotMatured, from)
	}
	return nil
}

func hasBondMatured(f *diamond.Frame, in diamond.Args) (any, error) {
	holder, err := in.Address(0)
	if err != nil {
		return nil, err
	}
	return matured(f, holder)
}

// RedemptionAmount is principal plus yield, truncated.
func RedemptionAmount(principal, yieldBasisPoints uint64) (uint64, error) {
	return units.ApplyBasisPoints(principal, yieldBasisPoints)
}

func calculateRedemptionAmount(f *diamond.Frame, in diamond.Args) (any, error) {
	principal, err := in.Uint64(0)
	if err != nil {
		return nil, err
	}
	t, err := loadTerms(f)
	if err != nil {
		return nil, err
	}
	return RedemptionAmount(principal, t.YieldBasisPoints)
}

func termField(get func(Terms) uint64) diamond.Handler {
	return func(f *diamond.Frame, _ diamond.Args) (any, error) {
		t, err := loadTerms(f)
		if err != nil {
			return nil, err
		}
		return get(t), nil
	}
}

func purchaseTimestamp(f *diamond.Frame, in diamond.Args) (any, error) {
	holder, err := in.Address(0)
	if err != nil {
		return nil, err
	}
	return aging.Timestamp(f, holder)
}

func bondAmounts(f *diamond.Frame, in diamond.Args) (any, error) {
	holder, err := in.Address(0)
	if err != nil {
		return nil, err
	}
	st, err := token.Open(f)
	if err != nil {
		return nil, err
	}
	return st.BalanceOf(holder)
}

func getPosition(f *diamond.Frame, in diamond.Args) (any, error) {
	holder, err := in.Address(0)
	if err != nil {
		return nil, err
	}
	st, err := token.Open(f)
	if err != nil {
		return nil, err
	}
	p := Position{Holder: holder}
	if p.Principal, err = st.BalanceOf(holder); err != nil {
		return nil, err
	}
	if p.PurchaseTimestamp, err = aging.Timestamp(f, holder); err != nil {
		return nil, err
	}
	return p, nil
}

// timeToMaturity is zero once matured or without a position.
func timeToMaturity(f *diamond.Frame, in diamond.Args) (any, error) {
	holder, err := in.Address(0)
	if err != nil {
		return nil, err
	}
	ts, err := aging.Timestamp(f, holder)
	if err != nil || ts == 0 {
		return uint64(0), err
	}
	t, err := loadTerms(f)
	if err != nil {
		return nil, err
	}
	due, err := units.Add(ts, t.MaturityPeriod)
	if err != nil {
		return nil, err
	}
	if f.Now() >= due {
		return uint64(0), nil
	}
	return due - f.Now(), nil
}
