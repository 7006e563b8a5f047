package diamond

import (
	"errors"

	"github.com/bitfsorg/libissuance-go/account"
)

var (
	// ErrAccessDenied indicates a restricted call from a non-owner.
	ErrAccessDenied = errors.New("diamond: access denied")

	// ErrUnknownSelector indicates a call to a selector that is not routed.
	ErrUnknownSelector = errors.New("diamond: unknown selector")

	// ErrDuplicateSelector indicates a selector added twice or already routed.
	ErrDuplicateSelector = errors.New("diamond: duplicate selector")

	// ErrSelectorNotFound indicates a replace or remove of an unrouted selector.
	ErrSelectorNotFound = errors.New("diamond: selector not found")

	// ErrNoSelectors indicates a facet cut without selectors.
	ErrNoSelectors = errors.New("diamond: facet cut has no selectors")

	// ErrInvalidAction indicates a facet cut action outside Add/Replace/Remove.
	ErrInvalidAction = errors.New("diamond: invalid facet cut action")

	// ErrFacetNotDeployed indicates a facet address with no deployed code.
	ErrFacetNotDeployed = errors.New("diamond: facet not deployed")

	// ErrFacetExists indicates a facet name deployed twice.
	ErrFacetExists = errors.New("diamond: facet already deployed")

	// ErrSelectorNotInFacet indicates a routed selector the facet does not implement.
	ErrSelectorNotInFacet = errors.New("diamond: selector not implemented by facet")

	// ErrSameFacet indicates a replace that points a selector at its current facet.
	ErrSameFacet = errors.New("diamond: replace with the same facet")

	// ErrRemoveFacetAddress indicates a remove cut with a non-zero facet address.
	ErrRemoveFacetAddress = errors.New("diamond: remove facet address must be zero")

	// ErrInitFailed indicates the diamondCut initializer call failed.
	ErrInitFailed = errors.New("diamond: initialization failed")

	// ErrNotDiamond indicates a call with a selector to an address that is not a diamond.
	ErrNotDiamond = errors.New("diamond: target is not a diamond")

	// ErrInsufficientFunds indicates a native value transfer exceeding the sender balance.
	ErrInsufficientFunds = errors.New("diamond: insufficient native balance")

	// ErrCallDepth indicates nested calls exceeded the configured depth.
	ErrCallDepth = errors.New("diamond: call depth exceeded")

	// ErrBadArguments indicates call arguments of the wrong number or type.
	ErrBadArguments = errors.New("diamond: bad arguments")

	// ErrValueInQuery indicates a read-only query carrying native value.
	ErrValueInQuery = errors.New("diamond: query cannot carry value")

	// ErrReadOnly indicates a state change attempted from a read-only query.
	ErrReadOnly = errors.New("diamond: state change in read-only query")

	// ErrInvalidAddress indicates a zero or degenerate address argument.
	ErrInvalidAddress = account.ErrInvalidAddress
)
