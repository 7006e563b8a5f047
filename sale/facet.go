// Package sale implements the token sale engine: a facet that coordinates
// the bond, warrant and equity diamonds, enforces sale flags and purchase
// limits, keeps the investor registry and moves funds.
//
// Every balance-affecting operation finishes its ledger calls and
// bookkeeping before it transfers value out.
package sale

import (
	"fmt"

	"github.com/bitfsorg/libissuance-go/account"
	"github.com/bitfsorg/libissuance-go/bond"
	"github.com/bitfsorg/libissuance-go/diamond"
	"github.com/bitfsorg/libissuance-go/token"
	"github.com/bitfsorg/libissuance-go/units"
	"github.com/bitfsorg/libissuance-go/warrant"
)

// Signatures of the sale engine surface.
const (
	SigInitialize         = "initializeTokenSale(address,address,address,address,uint256,uint256,uint256,uint256)"
	SigPurchaseBonds      = "purchaseBonds()"
	SigPurchaseWarrants   = "purchaseWarrants()"
	SigRedeemBonds        = "redeemBonds(uint256)"
	SigExerciseWarrants   = "exerciseWarrants(uint256)"
	SigFundBondRedemption = "fundBondRedemption()"
	SigReceive            = "receive()"

	SigToggleBondSale              = "toggleBondSale(bool)"
	SigToggleWarrantSale           = "toggleWarrantSale(bool)"
	SigUpdateBondPurchaseLimits    = "updateBondPurchaseLimits(uint256,uint256)"
	SigUpdateWarrantPurchaseLimits = "updateWarrantPurchaseLimits(uint256,uint256)"
	SigUpdateTreasury              = "updateTreasury(address)"
	SigUpdateTokenAddresses        = "updateTokenAddresses(address,address,address)"
	SigTransferFullOwnership       = "transferFullOwnership(address)"

	SigBondTokenDiamond       = "bondTokenDiamond()"
	SigWarrantTokenDiamond    = "warrantTokenDiamond()"
	SigEquityTokenDiamond     = "equityTokenDiamond()"
	SigBondMaturityPeriod     = "bondMaturityPeriod()"
	SigBondYieldPercentage    = "bondYieldPercentage()"
	SigWarrantStrikePrice     = "warrantStrikePrice()"
	SigTreasury               = "treasury()"
	SigBondSaleActive         = "bondSaleActive()"
	SigWarrantSaleActive      = "warrantSaleActive()"
	SigMinBondPurchase        = "minBondPurchase()"
	SigMaxBondPurchase        = "maxBondPurchase()"
	SigMinWarrantPurchase     = "minWarrantPurchase()"
	SigMaxWarrantPurchase     = "maxWarrantPurchase()"
	SigTotalFundsRaised       = "totalFundsRaised()"
	SigActiveBondCount        = "activeBondCount()"
	SigTotalWarrantsIssued    = "totalWarrantsIssued()"
	SigTotalEquityIssued      = "totalEquityIssued()"
	SigTotalBondRedemptions   = "totalBondRedemptions()"
	SigTotalWarrantsExercised = "totalWarrantsExercised()"
	SigInvestors              = "investors(address)"
	SigGetSaleConfig          = "getSaleConfig()"
	SigGetSaleMetrics         = "getSaleMetrics()"
	SigGetInvestors           = "getInvestors(uint256,uint256)"
	SigGetInvestorDetails     = "getInvestorDetails(address)"
	SigGetInvestorCount       = "getInvestorCount()"
)

// Facet is the token sale engine.
type Facet struct{}

// Name implements diamond.Facet.
func (Facet) Name() string { return "sale.TokenSaleFacet/v1" }

// Methods implements diamond.Facet.
func (Facet) Methods() []diamond.Method {
	return []diamond.Method{
		{Signature: SigInitialize, Handler: initialize},
		{Signature: SigPurchaseBonds, Handler: purchaseBonds},
		{Signature: SigPurchaseWarrants, Handler: purchaseWarrants},
		{Signature: SigRedeemBonds, Handler: redeemBonds},
		{Signature: SigExerciseWarrants, Handler: exerciseWarrants},
		{Signature: SigFundBondRedemption, Handler: fundBondRedemption},
		{Signature: SigReceive, Handler: fundBondRedemption},

		{Signature: SigToggleBondSale, Handler: toggleBondSale},
		{Signature: SigToggleWarrantSale, Handler: toggleWarrantSale},
		{Signature: SigUpdateBondPurchaseLimits, Handler: updateBondLimits},
		{Signature: SigUpdateWarrantPurchaseLimits, Handler: updateWarrantLimits},
		{Signature: SigUpdateTreasury, Handler: updateTreasury},
		{Signature: SigUpdateTokenAddresses, Handler: updateTokenAddresses},
		{Signature: SigTransferFullOwnership, Handler: transferFullOwnership},

		{Signature: SigBondTokenDiamond, Handler: settingsField(func(s settings) any { return s.Bond })},
		{Signature: SigWarrantTokenDiamond, Handler: settingsField(func(s settings) any { return s.Warrant })},
		{Signature: SigEquityTokenDiamond, Handler: settingsField(func(s settings) any { return s.Equity })},
		{Signature: SigTreasury, Handler: settingsField(func(s settings) any { return s.Treasury })},
		{Signature: SigBondSaleActive, Handler: settingsField(func(s settings) any { return s.BondSaleActive })},
		{Signature: SigWarrantSaleActive, Handler: settingsField(func(s settings) any { return s.WarrantSaleActive })},
		{Signature: SigMinBondPurchase, Handler: settingsField(func(s settings) any { return s.MinBondPurchase })},
		{Signature: SigMaxBondPurchase, Handler: settingsField(func(s settings) any { return s.MaxBondPurchase })},
		{Signature: SigMinWarrantPurchase, Handler: settingsField(func(s settings) any { return s.MinWarrantPurchase })},
		{Signature: SigMaxWarrantPurchase, Handler: settingsField(func(s settings) any { return s.MaxWarrantPurchase })},
		{Signature: SigBondMaturityPeriod, Handler: ledgerField(func(s settings) account.Address { return s.Bond }, bond.SigMaturityPeriod)},
		{Signature: SigBondYieldPercentage, Handler: ledgerField(func(s settings) account.Address { return s.Bond }, bond.SigYieldBasisPoints)},
		{Signature: SigWarrantStrikePrice, Handler: ledgerField(func(s settings) account.Address { return s.Warrant }, warrant.SigStrikePrice)},
		{Signature: SigTotalFundsRaised, Handler: counterField(keyFundsRaised)},
		{Signature: SigActiveBondCount, Handler: ledgerField(func(s settings) account.Address { return s.Bond }, bond.SigOpenPositionCount)},
		{Signature: SigTotalWarrantsIssued, Handler: counterField(keyWarrantsIssued)},
		{Signature: SigTotalEquityIssued, Handler: counterField(keyEquityIssued)},
		{Signature: SigTotalBondRedemptions, Handler: counterField(keyBondRedemptions)},
		{Signature: SigTotalWarrantsExercised, Handler: counterField(keyWarrantsExercised)},
		{Signature: SigInvestors, Handler: investorDetails},
		{Signature: SigGetSaleConfig, Handler: getSaleConfig},
		{Signature: SigGetSaleMetrics, Handler: getSaleMetrics},
		{Signature: SigGetInvestors, Handler: getInvestors},
		{Signature: SigGetInvestorDetails, Handler: investorDetails},
		{Signature: SigGetInvestorCount, Handler: getInvestorCount},
	}
}

// Selectors returns the selectors to route, without the initializer.
func Selectors() []diamond.Selector { return diamond.Selectors(Facet{}, SigInitialize) }

// ledger calls

func callUint(f *diamond.Frame, target account.Address, sig string, args ...any) (uint64, error) {
	return diamond.As[uint64](f.Call(target, 0, diamond.NewCall(sig, args...)))
}

func callBool(f *diamond.Frame, target account.Address, sig string, args ...any) (bool, error) {
	return diamond.As[bool](f.Call(target, 0, diamond.NewCall(sig, args...)))
}

func callSend(f *diamond.Frame, target account.Address, sig string, args ...any) error {
	_, err := f.Call(target, 0, diamond.NewCall(sig, args...))
	return err
}

func initialize(f *diamond.Frame, in diamond.Args) (any, error) {
	if err := diamond.RequireOwner(f); err != nil {
		return nil, err
	}
	st, err := open(f)
	if err != nil {
		return nil, err
	}
	if st.initialized() {
		return nil, ErrAlreadyInitialized
	}

	var cfg settings
	addrs := []*account.Address{&cfg.Bond, &cfg.Warrant, &cfg.Equity, &cfg.Treasury}
	for i, dst := range addrs {
		a, err := in.Address(i)
		if err != nil {
			return nil, err
		}
		if err := account.Validate(a); err != nil {
			return nil, fmt.Errorf("%w: argument %d", err, i)
		}
		*dst = a
	}
	nums := []*uint64{&cfg.MinBondPurchase, &cfg.MaxBondPurchase, &cfg.MinWarrantPurchase, &cfg.MaxWarrantPurchase}
	for i, dst := range nums {
		v, err := in.Uint64(len(addrs) + i)
		if err != nil {
			return nil, err
		}
		*dst = v
	}
	if err := cfg.bondLimits().validate(); err != nil {
		return nil, err
	}
	if err := cfg.warrantLimits().validate(); err != nil {
		return nil, err
	}
	cfg.BondSaleActive = true
	cfg.WarrantSaleActive = true
	if err := st.saveSettings(cfg); err != nil {
		return nil, err
	}
	f.Emit("TokenSaleInitialized",
		diamond.AddrAttr("bondToken", cfg.Bond),
		diamond.AddrAttr("warrantToken", cfg.Warrant),
		diamond.AddrAttr("equityToken", cfg.Equity),
		diamond.AddrAttr("treasury", cfg.Treasury))
	return nil, nil
}

func purchaseBonds(f *diamond.Frame, _ diamond.Args) (any, error) {
	st, err := open(f)
	if err != nil {
		return nil, err
	}
	cfg, err := st.settings()
	if err != nil {
		return nil, err
	}
	if !cfg.BondSaleActive {
		return nil, fmt.Errorf("%w: bonds", ErrSaleInactive)
	}
	value := f.Value()
	if !cfg.bondLimits().contains(value) {
		return nil, fmt.Errorf("%w: %d not in [%d, %d]", ErrAmountOutOfRange, value, cfg.MinBondPurchase, cfg.MaxBondPurchase)
	}
	buyer := f.Caller()

	if err := callSend(f, cfg.Bond, token.SigMint, buyer, value); err != nil {
		return nil, err
	}
	if err := st.touch(buyer, func(r *InvestorRecord) error {
		r.HasBonds = true
		r.TotalBondInvestment, err = units.Add(r.TotalBondInvestment, value)
		return err
	}); err != nil {
		return nil, err
	}
	if err := st.add(keyFundsRaised, value); err != nil {
		return nil, err
	}
	f.Emit("BondsPurchased",
		diamond.AddrAttr("buyer", buyer),
		diamond.UintAttr("amount", value),
		diamond.UintAttr("timestamp", f.Now()))

	return nil, f.Transfer(cfg.Treasury, value)
}

func purchaseWarrants(f *diamond.Frame, _ diamond.Args) (any, error) {
	st, err := open(f)
	if err != nil {
		return nil, err
	}
	cfg, err := st.settings()
	if err != nil {
		return nil, err
	}
	if !cfg.WarrantSaleActive {
		return nil, fmt.Errorf("%w: warrants", ErrSaleInactive)
	}
	value := f.Value()
	if !cfg.warrantLimits().contains(value) {
		return nil, fmt.Errorf("%w: %d not in [%d, %d]", ErrAmountOutOfRange, value, cfg.MinWarrantPurchase, cfg.MaxWarrantPurchase)
	}
	expired, err := callBool(f, cfg.Warrant, warrant.SigHasExpired)
	if err != nil {
		return nil, err
	}
	if expired {
		return nil, ErrExpired
	}
	price, err := callUint(f, cfg.Warrant, warrant.SigWarrantPrice)
	if err != nil {
		return nil, err
	}
	minted, err := units.MulDiv(value, units.One, price)
	if err != nil {
		return nil, err
	}
	if minted == 0 {
		return nil, fmt.Errorf("%w: %d buys no warrants at %d", ErrAmountOutOfRange, value, price)
	}
	buyer := f.Caller()

	if err := callSend(f, cfg.Warrant, token.SigMint, buyer, minted); err != nil {
		return nil, err
	}
	if err := st.touch(buyer, func(r *InvestorRecord) error {
		r.HasWarrants = true
		r.TotalWarrantInvestment, err = units.Add(r.TotalWarrantInvestment, value)
		return err
	}); err != nil {
		return nil, err
	}
	if err := st.add(keyWarrantsIssued, minted); err != nil {
		return nil, err
	}
	if err := st.add(keyFundsRaised, value); err != nil {
		return nil, err
	}
	f.Emit("WarrantsPurchased",
		diamond.AddrAttr("buyer", buyer),
		diamond.UintAttr("amount", value),
		diamond.UintAttr("warrants", minted),
		diamond.UintAttr("timestamp", f.Now()))

	return minted, f.Transfer(cfg.Treasury, value)
}

func redeemBonds(f *diamond.Frame, in diamond.Args) (any, error) {
	amount, err := in.Uint64(0)
	if err != nil {
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
	holder := f.Caller()

	matured, err := callBool(f, cfg.Bond, bond.SigHasBondMatured, holder)
	if err != nil {
		return nil, err
	}
	if !matured {
		return nil, fmt.Errorf("%w: %s", ErrNotMatured, holder)
	}
	payout, err := callUint(f, cfg.Bond, bond.SigCalculateRedemptionAmount, amount)
	if err != nil {
		return nil, err
	}
	reserve, err := f.Balance(f.Self())
	if err != nil {
		return nil, err
	}
	if reserve < payout {
		return nil, fmt.Errorf("%w: reserve %d, payout %d", ErrInsufficientReserve, reserve, payout)
	}

	if err := callSend(f, cfg.Bond, token.SigBurn, holder, amount); err != nil {
		return nil, err
	}
	left, err := callUint(f, cfg.Bond, token.SigBalanceOf, holder)
	if err != nil {
		return nil, err
	}
	if err := st.touch(holder, func(r *InvestorRecord) error {
		r.BondRedemptions++
		r.HasBonds = left > 0
		return nil
	}); err != nil {
		return nil, err
	}
	if err := st.add(keyBondRedemptions, 1); err != nil {
		return nil, err
	}
	f.Emit("BondsRedeemed",
		diamond.AddrAttr("holder", holder),
		diamond.UintAttr("amount", amount),
		diamond.UintAttr("payout", payout),
		diamond.UintAttr("timestamp", f.Now()))

	return payout, f.Transfer(holder, payout)
}

func exerciseWarrants(f *diamond.Frame, in diamond.Args) (any, error) {
	amount, err := in.Uint64(0)
	if err != nil {
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
	holder := f.Caller()

	expired, err := callBool(f, cfg.Warrant, warrant.SigHasExpired)
	if err != nil {
		return nil, err
	}
	if expired {
		return nil, ErrExpired
	}
	cost, err := callUint(f, cfg.Warrant, warrant.SigCalculateExerciseCost, amount)
	if err != nil {
		return nil, err
	}
	if f.Value() != cost {
		return nil, fmt.Errorf("%w: attached %d, cost %d", ErrIncorrectPayment, f.Value(), cost)
	}

	if err := callSend(f, cfg.Warrant, token.SigBurn, holder, amount); err != nil {
		return nil, err
	}
	if err := callSend(f, cfg.Equity, token.SigMint, holder, amount); err != nil {
		return nil, err
	}
	left, err := callUint(f, cfg.Warrant, token.SigBalanceOf, holder)
	if err != nil {
		return nil, err
	}
	if err := st.touch(holder, func(r *InvestorRecord) error {
		r.WarrantsExercised++
		r.HasWarrants = left > 0
		return nil
	}); err != nil {
		return nil, err
	}
	if err := st.add(keyWarrantsExercised, 1); err != nil {
		return nil, err
	}
	if err := st.add(keyEquityIssued, amount); err != nil {
		return nil, err
	}
	f.Emit("WarrantsExercised",
		diamond.AddrAttr("holder", holder),
		diamond.UintAttr("amount", amount),
		diamond.UintAttr("payment", cost),
		diamond.UintAttr("timestamp", f.Now()))

	return nil, f.Transfer(cfg.Treasury, cost)
}

// fundBondRedemption keeps the attached value as redemption reserve.
func fundBondRedemption(f *diamond.Frame, _ diamond.Args) (any, error) {
	if f.Value() == 0 {
		return nil, ErrZeroFunding
	}
	f.Emit("RedemptionFunded", diamond.AddrAttr("funder", f.Caller()), diamond.UintAttr("amount", f.Value()))
	return nil, nil
}
