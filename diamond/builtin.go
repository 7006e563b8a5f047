package diamond

import (
	"fmt"

	"github.com/bitfsorg/libissuance-go/account"
	"github.com/bitfsorg/libissuance-go/arena"
)

// Signatures of the built-in facets.
const (
	SigDiamondCut             = "diamondCut((address,uint8,bytes4[])[],address,bytes)"
	SigFacets                 = "facets()"
	SigFacetFunctionSelectors = "facetFunctionSelectors(address)"
	SigFacetAddresses         = "facetAddresses()"
	SigFacetAddress           = "facetAddress(bytes4)"
	SigOwner                  = "owner()"
	SigTransferOwnership      = "transferOwnership(address)"
	SigOperator               = "operator()"
	SigSetOperator            = "setOperator(address)"
)

// CutFacet implements diamondCut.
type CutFacet struct{}

// Name implements Facet.
func (CutFacet) Name() string { return "diamond.CutFacet/v1" }

// Methods implements Facet.
func (CutFacet) Methods() []Method {
	return []Method{{Signature: SigDiamondCut, Handler: diamondCut}}
}

// diamondCut applies the cuts and then runs the optional initializer, all in
// the current transaction. Owner only.
func diamondCut(f *Frame, in Args) (any, error) {
	if err := RequireOwner(f); err != nil {
		return nil, err
	}
	cuts, err := in.Cuts(0)
	if err != nil {
		return nil, err
	}
	initTarget, err := in.Address(1)
	if err != nil {
		return nil, err
	}
	initCall, err := in.Call(2)
	if err != nil {
		return nil, err
	}

	table, err := f.Space(nsSelectors)
	if err != nil {
		return nil, err
	}
	if err := applyCuts(f, table, cuts); err != nil {
		return nil, err
	}

	var initSel string
	if initTarget.IsZero() {
		if initCall != nil && !initCall.IsTransfer() {
			return nil, fmt.Errorf("%w: calldata without init target", ErrInitFailed)
		}
	} else {
		if initCall == nil || initCall.IsTransfer() {
			return nil, fmt.Errorf("%w: init target %s without calldata", ErrInitFailed, initTarget)
		}
		if _, err := f.delegate(initTarget, *initCall); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInitFailed, err)
		}
		initSel = initCall.Selector.String()
	}

	f.Emit("DiamondCut",
		UintAttr("cuts", uint64(len(cuts))),
		AddrAttr("init", initTarget),
		StringAttr("initSelector", initSel))
	return nil, nil
}

// LoupeFacet implements the introspection functions of the diamond standard.
type LoupeFacet struct{}

// Name implements Facet.
func (LoupeFacet) Name() string { return "diamond.LoupeFacet/v1" }

// Methods implements Facet.
func (LoupeFacet) Methods() []Method {
	return []Method{
		{Signature: SigFacets, Handler: loupeFacets},
		{Signature: SigFacetFunctionSelectors, Handler: loupeFacetSelectors},
		{Signature: SigFacetAddresses, Handler: loupeFacetAddresses},
		{Signature: SigFacetAddress, Handler: loupeFacetAddress},
	}
}

func loupeFacets(f *Frame, _ Args) (any, error) {
	table, err := f.Space(nsSelectors)
	if err != nil {
		return nil, err
	}
	return routedFacets(table)
}

func loupeFacetSelectors(f *Frame, in Args) (any, error) {
	facet, err := in.Address(0)
	if err != nil {
		return nil, err
	}
	table, err := f.Space(nsSelectors)
	if err != nil {
		return nil, err
	}
	infos, err := routedFacets(table)
	if err != nil {
		return nil, err
	}
	for _, fi := range infos {
		if fi.Address == facet {
			return fi.Selectors, nil
		}
	}
	return []Selector{}, nil
}

func loupeFacetAddresses(f *Frame, _ Args) (any, error) {
	table, err := f.Space(nsSelectors)
	if err != nil {
		return nil, err
	}
	infos, err := routedFacets(table)
	if err != nil {
		return nil, err
	}
	out := make([]account.Address, len(infos))
	for i, fi := range infos {
		out[i] = fi.Address
	}
	return out, nil
}

func loupeFacetAddress(f *Frame, in Args) (any, error) {
	sel, err := in.Selector(0)
	if err != nil {
		return nil, err
	}
	table, err := f.Space(nsSelectors)
	if err != nil {
		return nil, err
	}
	a, _, err := lookupSelector(table, sel)
	return a, err
}

// OwnershipFacet implements owner/operator administration.
//
// The owner administers the diamond. The operator is a coordinating diamond
// (the token sale) that may mint and burn on ledgers and may hand ownership
// over as part of a coordinated transfer.
type OwnershipFacet struct{}

// Name implements Facet.
func (OwnershipFacet) Name() string { return "diamond.OwnershipFacet/v1" }

// Methods implements Facet.
func (OwnershipFacet) Methods() []Method {
	return []Method{
		{Signature: SigOwner, Handler: ownerOf},
		{Signature: SigTransferOwnership, Handler: transferOwnership},
		{Signature: SigOperator, Handler: operatorOf},
		{Signature: SigSetOperator, Handler: setOperator},
	}
}

func ownershipSpace(f *Frame) (arena.Space, error) { return f.Space(nsOwnership) }

// Owner returns the owner of the frame's diamond.
func Owner(f *Frame) (account.Address, error) {
	s, err := ownershipSpace(f)
	if err != nil {
		return account.Zero, err
	}
	return arena.GetAddress(s, keyOwner)
}

// Operator returns the operator of the frame's diamond, zero if unset.
func Operator(f *Frame) (account.Address, error) {
	s, err := ownershipSpace(f)
	if err != nil {
		return account.Zero, err
	}
	return arena.GetAddress(s, keyOperator)
}

// RequireOwner fails with ErrAccessDenied unless the caller owns the diamond.
func RequireOwner(f *Frame) error {
	owner, err := Owner(f)
	if err != nil {
		return err
	}
	if f.Caller() != owner {
		return fmt.Errorf("%w: %s is not the owner", ErrAccessDenied, f.Caller())
	}
	return nil
}

// RequireOwnerOrOperator fails with ErrAccessDenied unless the caller is the
// owner or the operator.
func RequireOwnerOrOperator(f *Frame) error {
	owner, err := Owner(f)
	if err != nil {
		return err
	}
	op, err := Operator(f)
	if err != nil {
		return err
	}
	c := f.Caller()
	if c == owner || (!op.IsZero() && c == op) {
		return nil
	}
	return fmt.Errorf("%w: %s is neither owner nor operator", ErrAccessDenied, c)
}

func ownerOf(f *Frame, _ Args) (any, error) { return Owner(f) }

func operatorOf(f *Frame, _ Args) (any, error) { return Operator(f) }

func transferOwnership(f *Frame, in Args) (any, error) {
	if err := RequireOwnerOrOperator(f); err != nil {
		return nil, err
	}
	newOwner, err := in.Address(0)
	if err != nil {
		return nil, err
	}
	return nil, TransferOwnership(f, newOwner)
}

// TransferOwnership reassigns the frame's diamond to newOwner without an
// access check. Facets call it after their own authorization.
func TransferOwnership(f *Frame, newOwner account.Address) error {
	if err := account.Validate(newOwner); err != nil {
		return err
	}
	prev, err := Owner(f)
	if err != nil {
		return err
	}
	if err := setOwner(f, newOwner); err != nil {
		return err
	}
	f.Emit("OwnershipTransferred", AddrAttr("previousOwner", prev), AddrAttr("newOwner", newOwner))
	return nil
}

func setOperator(f *Frame, in Args) (any, error) {
	if err := RequireOwner(f); err != nil {
		return nil, err
	}
	op, err := in.Address(0)
	if err != nil {
		return nil, err
	}
	s, err := ownershipSpace(f)
	if err != nil {
		return nil, err
	}
	if err := arena.PutAddress(s, keyOperator, op); err != nil {
		return nil, err
	}
	f.Emit("OperatorSet", AddrAttr("operator", op))
	return nil, nil
}

func setOwner(f *Frame, owner account.Address) error {
	s, err := ownershipSpace(f)
	if err != nil {
		return err
	}
	return arena.PutAddress(s, keyOwner, owner)
}

// builtinFacets are deployed on every host and routed on every new diamond.
func builtinFacets() []Facet {
	return []Facet{CutFacet{}, LoupeFacet{}, OwnershipFacet{}}
}
