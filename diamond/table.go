package diamond

import (
	"bytes"
	"sort"

	"github.com/bitfsorg/libissuance-go/account"
	"github.com/bitfsorg/libissuance-go/arena"
)

// Diamond-level namespaces, owned by the diamond address.
const (
	nsCore      = "diamond.core"
	nsSelectors = "diamond.selectors"
	nsOwnership = "diamond.ownership"
)

var (
	keyCreated  = []byte("created")
	keyOwner    = []byte("owner")
	keyOperator = []byte("operator")
)

// lookupSelector resolves sel in the selector table.
func lookupSelector(table arena.Space, sel Selector) (account.Address, bool, error) {
	v := table.Get(sel[:])
	if v == nil {
		return account.Zero, false, nil
	}
	a, err := account.FromBytes(v)
	if err != nil {
		return account.Zero, false, err
	}
	return a, true, nil
}

// FacetInfo is one facet of a diamond and the selectors routed to it.
type FacetInfo struct {
	Address   account.Address
	Selectors []Selector
}

// routedFacets groups the selector table by facet address, both sorted.
func routedFacets(table arena.Space) ([]FacetInfo, error) {
	byFacet := map[account.Address][]Selector{}
	err := table.Scan(nil, func(k, v []byte) error {
		var sel Selector
		copy(sel[:], k)
		a, err := account.FromBytes(v)
		if err != nil {
			return err
		}
		byFacet[a] = append(byFacet[a], sel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := make([]FacetInfo, 0, len(byFacet))
	for a, sels := range byFacet {
		out = append(out, FacetInfo{Address: a, Selectors: sels})
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i].Address[:], out[j].Address[:]) < 0
	})
	return out, nil
}
