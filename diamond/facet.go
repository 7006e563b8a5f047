package diamond

import (
	"github.com/bitfsorg/libissuance-go/account"
)

// Handler executes one routed operation against the calling diamond's storage.
type Handler func(f *Frame, in Args) (any, error)

// Method binds a canonical signature to its handler.
type Method struct {
	Signature string
	Handler   Handler
}

// Facet is a unit of stateless logic routed to by selector. The same facet
// serves every diamond that routes to it; all state lives in the diamond's
// spaces.
type Facet interface {
	// Name identifies the facet code; it determines the facet address.
	Name() string

	// Methods lists the operations the facet implements.
	Methods() []Method
}

// FacetAddress returns the deterministic address of a facet name.
func FacetAddress(name string) account.Address {
	return account.Hash("facet/" + name)
}

// Signatures returns the signatures of every method of f.
func Signatures(f Facet) []string {
	ms := f.Methods()
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Signature
	}
	return out
}

// Selectors returns the selectors of every method of f, optionally excluding
// some signatures (initializers are usually invoked through diamondCut only).
func Selectors(f Facet, exclude ...string) []Selector {
	skip := make(map[string]bool, len(exclude))
	for _, s := range exclude {
		skip[s] = true
	}
	var out []Selector
	for _, m := range f.Methods() {
		if !skip[m.Signature] {
			out = append(out, SelectorOf(m.Signature))
		}
	}
	return out
}

// deployedFacet is a facet resolved into a selector index.
type deployedFacet struct {
	name    string
	address account.Address
	methods map[Selector]Method
}
