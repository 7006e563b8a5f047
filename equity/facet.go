// Package equity implements the equity ledger facet: shares minted under an
// authorized-share ceiling. Equity has no burn path.
package equity

import (
	"fmt"

	"github.com/bitfsorg/libissuance-go/account"
	"github.com/bitfsorg/libissuance-go/arena"
	"github.com/bitfsorg/libissuance-go/diamond"
	"github.com/bitfsorg/libissuance-go/token"
	"github.com/bitfsorg/libissuance-go/units"
)

const namespace = "equity"

var keyAuthorized = []byte("authorized")

// Signatures of the equity-specific surface.
const (
	SigInitialize          = "initializeEquityToken(string,string,uint256)"
	SigAuthorizedShares    = "authorizedShares()"
	SigTotalAuthorized     = "totalAuthorizedShares()"
	SigRemainingShares     = "remainingShares()"
	SigGetShareholders     = "getShareholders(uint256,uint256)"
	SigGetShareholderCount = "getShareholderCount()"
)

// Facet is the equity ledger.
type Facet struct{}

// Name implements diamond.Facet.
func (Facet) Name() string { return "equity.EquityFacet/v1" }

// Methods implements diamond.Facet.
func (Facet) Methods() []diamond.Method {
	var ms []diamond.Method
	for _, m := range token.Methods(token.Hooks{CheckMint: checkMint}) {
		if m.Signature == token.SigBurn {
			continue
		}
		ms = append(ms, m)
	}
	return append(ms,
		diamond.Method{Signature: SigInitialize, Handler: initialize},
		diamond.Method{Signature: SigAuthorizedShares, Handler: authorizedShares},
		diamond.Method{Signature: SigTotalAuthorized, Handler: authorizedShares},
		diamond.Method{Signature: SigRemainingShares, Handler: remainingShares},
		diamond.Method{Signature: SigGetShareholders, Handler: token.HolderPage},
		diamond.Method{Signature: SigGetShareholderCount, Handler: token.HolderCount},
	)
}

// Selectors returns the selectors to route, without the initializer.
func Selectors() []diamond.Selector { return diamond.Selectors(Facet{}, SigInitialize) }

func authorized(f *diamond.Frame) (uint64, error) {
	s, err := f.Space(namespace)
	if err != nil {
		return 0, err
	}
	return arena.GetUint64(s, keyAuthorized)
}

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
	shares, err := in.Uint64(2)
	if err != nil {
		return nil, err
	}
	if shares == 0 {
		return nil, ErrInvalidCap
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
	if err := arena.PutUint64(s, keyAuthorized, shares); err != nil {
		return nil, err
	}
	f.Emit("EquityTokenInitialized",
		diamond.StringAttr("name", name),
		diamond.StringAttr("symbol", symbol),
		diamond.UintAttr("authorizedShares", shares))
	return nil, nil
}

func checkMint(f *diamond.Frame, st *token.Store, _ account.Address, amount uint64) error {
	ceiling, err := authorized(f)
	if err != nil {
		return err
	}
	supply, err := st.TotalSupply()
	if err != nil {
		return err
	}
	next, err := units.Add(supply, amount)
	if err != nil || next > ceiling {
		return fmt.Errorf("%w: %d issued + %d > %d authorized", ErrAuthorizedCapExceeded, supply, amount, ceiling)
	}
	return nil
}

func authorizedShares(f *diamond.Frame, _ diamond.Args) (any, error) { return authorized(f) }

func remainingShares(f *diamond.Frame, _ diamond.Args) (any, error) {
	ceiling, err := authorized(f)
	if err != nil {
		return nil, err
	}
	st, err := token.Open(f)
	if err != nil {
		return nil, err
	}
	supply, err := st.TotalSupply()
	if err != nil {
		return nil, err
	}
	return units.Sub(ceiling, supply)
}
