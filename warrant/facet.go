// Package warrant implements the warrant ledger facet: strike price,
// expiration and exercise cost. Settlement into equity is orchestrated by
// the token sale.
package warrant

import (
	"fmt"

	"github.com/bitfsorg/libissuance-go/account"
	"github.com/bitfsorg/libissuance-go/arena"
	"github.com/bitfsorg/libissuance-go/diamond"
	"github.com/bitfsorg/libissuance-go/token"
	"github.com/bitfsorg/libissuance-go/units"
)

// SecondsPerDay converts expiration periods given in days.
const SecondsPerDay = 86400

const namespace = "warrant"

var (
	keyStrike     = []byte("strike")
	keyExpiration = []byte("expiration")
	keyEquity     = []byte("equity")
	keyPrice      = []byte("price")
)

var aging = token.Aging{Namespace: namespace, Prefix: "t"}

// Signatures of the warrant-specific surface.
const (
	SigInitialize               = "initializeWarrantToken(string,string,uint256,uint256)"
	SigHasExpired               = "hasExpired()"
	SigCalculateExerciseCost    = "calculateExerciseCost(uint256)"
	SigStrikePrice              = "strikePrice()"
	SigExpirationTimestamp      = "expirationTimestamp()"
	SigEquityTokenAddress       = "equityTokenAddress()"
	SigWarrantPrice             = "warrantPrice()"
	SigTimeToExpiration         = "timeToExpiration()"
	SigWarrantPurchaseTimestamp = "warrantPurchaseTimestamp(address)"
	SigGetWarrantHolders        = "getWarrantHolders(uint256,uint256)"
	SigGetWarrantHolderCount    = "getWarrantHolderCount()"
	SigGetPosition              = "getWarrantPosition(address)"
	SigSetEquityTokenAddress    = "setEquityTokenAddress(address)"
	SigSetWarrantPrice          = "setWarrantPrice(uint256)"
	SigUpdateStrikePrice        = "updateStrikePrice(uint256)"
	SigExtendExpiration         = "extendExpiration(uint256)"
)

// Position is a holder's warrant position.
type Position struct {
	Holder            account.Address
	Amount            uint64
	PurchaseTimestamp uint64
}

// Facet is the warrant ledger.
type Facet struct{}

// Name implements diamond.Facet.
func (Facet) Name() string { return "warrant.WarrantFacet/v1" }

// Methods implements diamond.Facet.
func (Facet) Methods() []diamond.Method {
	ms := token.Methods(token.Hooks{CheckMint: checkMint, Moved: aging.Moved})
	return append(ms,
		diamond.Method{Signature: SigInitialize, Handler: initialize},
		diamond.Method{Signature: SigHasExpired, Handler: hasExpired},
		diamond.Method{Signature: SigCalculateExerciseCost, Handler: calculateExerciseCost},
		diamond.Method{Signature: SigStrikePrice, Handler: uintField(keyStrike)},
		diamond.Method{Signature: SigExpirationTimestamp, Handler: uintField(keyExpiration)},
		diamond.Method{Signature: SigWarrantPrice, Handler: uintField(keyPrice)},
		diamond.Method{Signature: SigEquityTokenAddress, Handler: equityTokenAddress},
		diamond.Method{Signature: SigTimeToExpiration, Handler: timeToExpiration},
		diamond.Method{Signature: SigWarrantPurchaseTimestamp, Handler: purchaseTimestamp},
		diamond.Method{Signature: SigGetWarrantHolders, Handler: token.HolderPage},
		diamond.Method{Signature: SigGetWarrantHolderCount, Handler: token.HolderCount},
		diamond.Method{Signature: SigGetPosition, Handler: getPosition},
		diamond.Method{Signature: SigSetEquityTokenAddress, Handler: setEquityTokenAddress},
		diamond.Method{Signature: SigSetWarrantPrice, Handler: setPrice(keyPrice, "WarrantPriceUpdated")},
		diamond.Method{Signature: SigUpdateStrikePrice, Handler: setPrice(keyStrike, "StrikePriceUpdated")},
		diamond.Method{Signature: SigExtendExpiration, Handler: extendExpiration},
	)
}

// Selectors returns the selectors to route, without the initializer.
func Selectors() []diamond.Selector { return diamond.Selectors(Facet{}, SigInitialize) }

func space(f *diamond.Frame) (arena.Space, error) { return f.Space(namespace) }

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
	strike, err := in.Uint64(2)
	if err != nil {
		return nil, err
	}
	days, err := in.Uint64(3)
	if err != nil {
		return nil, err
	}
	if strike == 0 {
		return nil, fmt.Errorf("%w: strike", ErrInvalidPrice)
	}
	if days == 0 {
		return nil, fmt.Errorf("%w: zero days", ErrInvalidExpiration)
	}
	secs, err := units.Mul(days, SecondsPerDay)
	if err != nil {
		return nil, err
	}
	expiration, err := units.Add(f.Now(), secs)
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
	s, err := space(f)
	if err != nil {
		return nil, err
	}
	if err := arena.PutUint64(s, keyStrike, strike); err != nil {
		return nil, err
	}
	if err := arena.PutUint64(s, keyExpiration, expiration); err != nil {
		return nil, err
	}
	if err := arena.PutUint64(s, keyPrice, units.One); err != nil {
		return nil, err
	}
	f.Emit("WarrantTokenInitialized",
		diamond.StringAttr("name", name),
		diamond.StringAttr("symbol", symbol),
		diamond.UintAttr("strikePrice", strike),
		diamond.UintAttr("expirationTimestamp", expiration))
	return nil, nil
}

func expired(f *diamond.Frame) (bool, error) {
	s, err := space(f)
	if err != nil {
		return false, err
	}
	exp, err := arena.GetUint64(s, keyExpiration)
	if err != nil {
		return false, err
	}
	return f.Now() >= exp, nil
}

func checkMint(f *diamond.Frame, _ *token.Store, _ account.Address, _ uint64) error {
	ok, err := expired(f)
	if err != nil {
		return err
	}
	if ok {
		return ErrExpired
	}
	return nil
}

func hasExpired(f *diamond.Frame, _ diamond.Args) (any, error) { return expired(f) }

// ExerciseCost is amount*strike scaled by the monetary unit, truncated.
func ExerciseCost(amount, strike uint64) (uint64, error) {
	return units.MulDiv(amount, strike, units.One)
}

func calculateExerciseCost(f *diamond.Frame, in diamond.Args) (any, error) {
	amount, err := in.Uint64(0)
	if err != nil {
		return nil, err
	}
	s, err := space(f)
	if err != nil {
		return nil, err
	}
	strike, err := arena.GetUint64(s, keyStrike)
	if err != nil {
		return nil, err
	}
	return ExerciseCost(amount, strike)
}

func uintField(key []byte) diamond.Handler {
	return func(f *diamond.Frame, _ diamond.Args) (any, error) {
		s, err := space(f)
		if err != nil {
			return nil, err
		}
		return arena.GetUint64(s, key)
	}
}

func equityTokenAddress(f *diamond.Frame, _ diamond.Args) (any, error) {
	s, err := space(f)
	if err != nil {
		return nil, err
	}
	return arena.GetAddress(s, keyEquity)
}

func timeToExpiration(f *diamond.Frame, _ diamond.Args) (any, error) {
	s, err := space(f)
	if err != nil {
		return nil, err
	}
	exp, err := arena.GetUint64(s, keyExpiration)
	if err != nil {
		return nil, err
	}
	if f.Now() >= exp {
		return uint64(0), nil
	}
	return exp - f.Now(), nil
}

func purchaseTimestamp(f *diamond.Frame, in diamond.Args) (any, error) {
	holder, err := in.Address(0)
	if err != nil {
		return nil, err
	}
	return aging.Timestamp(f, holder)
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
	if p.Amount, err = st.BalanceOf(holder); err != nil {
		return nil, err
	}
	if p.PurchaseTimestamp, err = aging.Timestamp(f, holder); err != nil {
		return nil, err
	}
	return p, nil
}

func setEquityTokenAddress(f *diamond.Frame, in diamond.Args) (any, error) {
	if err := diamond.RequireOwner(f); err != nil {
		return nil, err
	}
	addr, err := in.Address(0)
	if err != nil {
		return nil, err
	}
	if err := account.Validate(addr); err != nil {
		return nil, err
	}
	s, err := space(f)
	if err != nil {
		return nil, err
	}
	if err := arena.PutAddress(s, keyEquity, addr); err != nil {
		return nil, err
	}
	f.Emit("EquityTokenAddressSet", diamond.AddrAttr("equityToken", addr))
	return nil, nil
}

func setPrice(key []byte, event string) diamond.Handler {
	return func(f *diamond.Frame, in diamond.Args) (any, error) {
		if err := diamond.RequireOwner(f); err != nil {
			return nil, err
		}
		price, err := in.Uint64(0)
		if err != nil {
			return nil, err
		}
		if price == 0 {
			return nil, ErrInvalidPrice
		}
		s, err := space(f)
		if err != nil {
			return nil, err
		}
		old, err := arena.GetUint64(s, key)
		if err != nil {
			return nil, err
		}
		if err := arena.PutUint64(s, key, price); err != nil {
			return nil, err
		}
		f.Emit(event, diamond.UintAttr("oldPrice", old), diamond.UintAttr("newPrice", price))
		return nil, nil
	}
}

// extendExpiration only moves the expiration forward, and never into the past.
func extendExpiration(f *diamond.Frame, in diamond.Args) (any, error) {
	if err := diamond.RequireOwner(f); err != nil {
		return nil, err
	}
	next, err := in.Uint64(0)
	if err != nil {
		return nil, err
	}
	s, err := space(f)
	if err != nil {
		return nil, err
	}
	cur, err := arena.GetUint64(s, keyExpiration)
	if err != nil {
		return nil, err
	}
	if next <= cur || next <= f.Now() {
		return nil, fmt.Errorf("%w: %d must follow %d and now (%d)", ErrInvalidExpiration, next, cur, f.Now())
	}
	if err := arena.PutUint64(s, keyExpiration, next); err != nil {
		return nil, err
	}
	f.Emit("ExpirationExtended", diamond.UintAttr("oldExpiration", cur), diamond.UintAttr("newExpiration", next))
	return nil, nil
}
