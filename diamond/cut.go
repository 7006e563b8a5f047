package diamond

import (
	"fmt"

	"github.com/bitfsorg/libissuance-go/account"
	"github.com/bitfsorg/libissuance-go/arena"
)

// FacetCutAction is the operation a FacetCut performs on the selector table.
type FacetCutAction uint8

const (
	Add     FacetCutAction = 0
	Replace FacetCutAction = 1
	Remove  FacetCutAction = 2
)

// String returns the action name.
func (a FacetCutAction) String() string {
	switch a {
	case Add:
		return "add"
	case Replace:
		return "replace"
	case Remove:
		return "remove"
	}
	return fmt.Sprintf("action(%d)", uint8(a))
}

// FacetCut adds, replaces or removes a set of selectors.
type FacetCut struct {
	FacetAddress account.Address
	Action       FacetCutAction
	Selectors    []Selector
}

// applyCuts validates and applies cuts in order, emitting one log per
// selector change. Any error leaves the caller to unwind the partial work.
func applyCuts(f *Frame, table arena.Space, cuts []FacetCut) error {
	seen := make(map[Selector]int)
	for i, cut := range cuts {
		if len(cut.Selectors) == 0 {
			return fmt.Errorf("%w: cut %d", ErrNoSelectors, i)
		}
		for _, sel := range cut.Selectors {
			if prev, dup := seen[sel]; dup {
				return fmt.Errorf("%w: %s in cuts %d and %d", ErrDuplicateSelector, sel, prev, i)
			}
			seen[sel] = i
		}

		switch cut.Action {
		case Add:
			if err := addSelectors(f, table, cut); err != nil {
				return err
			}
		case Replace:
			if err := replaceSelectors(f, table, cut); err != nil {
				return err
			}
		case Remove:
			if err := removeSelectors(f, table, cut); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: %d", ErrInvalidAction, cut.Action)
		}
	}
	return nil
}

// requireImplements checks that facetAddr is deployed and implements sels.
func requireImplements(f *Frame, facetAddr account.Address, sels []Selector) error {
	df, err := f.exec.host.facet(facetAddr)
	if err != nil {
		return err
	}
	for _, sel := range sels {
		if _, ok := df.methods[sel]; !ok {
			return fmt.Errorf("%w: %s in %s", ErrSelectorNotInFacet, sel, df.name)
		}
	}
	return nil
}

func addSelectors(f *Frame, table arena.Space, cut FacetCut) error {
	if err := requireImplements(f, cut.FacetAddress, cut.Selectors); err != nil {
		return err
	}
	for _, sel := range cut.Selectors {
		if _, routed, err := lookupSelector(table, sel); err != nil {
			return err
		} else if routed {
			return fmt.Errorf("%w: %s already routed", ErrDuplicateSelector, sel)
		}
		if err := arena.PutAddress(table, sel[:], cut.FacetAddress); err != nil {
			return err
		}
		f.Emit("FacetAdded", AddrAttr("facet", cut.FacetAddress), StringAttr("selector", sel.String()))
	}
	return nil
}

func replaceSelectors(f *Frame, table arena.Space, cut FacetCut) error {
	if err := requireImplements(f, cut.FacetAddress, cut.Selectors); err != nil {
		return err
	}
	for _, sel := range cut.Selectors {
		current, routed, err := lookupSelector(table, sel)
		if err != nil {
			return err
		}
		if !routed {
			return fmt.Errorf("%w: %s", ErrSelectorNotFound, sel)
		}
		if current == cut.FacetAddress {
			return fmt.Errorf("%w: %s", ErrSameFacet, sel)
		}
		if err := arena.PutAddress(table, sel[:], cut.FacetAddress); err != nil {
			return err
		}
		f.Emit("FacetReplaced",
			AddrAttr("facet", cut.FacetAddress),
			AddrAttr("previous", current),
			StringAttr("selector", sel.String()))
	}
	return nil
}

func removeSelectors(f *Frame, table arena.Space, cut FacetCut) error {
	if !cut.FacetAddress.IsZero() {
		return fmt.Errorf("%w: got %s", ErrRemoveFacetAddress, cut.FacetAddress)
	}
	for _, sel := range cut.Selectors {
		current, routed, err := lookupSelector(table, sel)
		if err != nil {
			return err
		}
		if !routed {
			return fmt.Errorf("%w: %s", ErrSelectorNotFound, sel)
		}
		if err := table.Delete(sel[:]); err != nil {
			return err
		}
		f.Emit("FacetRemoved", AddrAttr("facet", current), StringAttr("selector", sel.String()))
	}
	return nil
}
