package diamond

import (
	"fmt"

	"github.com/bitfsorg/libissuance-go/account"
)

// Call is the calldata of a routed operation.
type Call struct {
	Selector Selector
	Args     Args
}

// NewCall builds calldata for signature with the given arguments.
func NewCall(signature string, args ...any) Call {
	return Call{Selector: SelectorOf(signature), Args: args}
}

// IsTransfer reports whether c carries no selector, i.e. a plain value transfer.
func (c Call) IsTransfer() bool { return c.Selector.IsZero() }

// Args are the decoded arguments of a call. Accessors fail with
// ErrBadArguments on a missing index or a type mismatch.
type Args []any

func (a Args) at(i int, want string) (any, error) {
	if i < 0 || i >= len(a) {
		return nil, fmt.Errorf("%w: missing argument %d (%s)", ErrBadArguments, i, want)
	}
	return a[i], nil
}

func mismatch(i int, want string, got any) error {
	return fmt.Errorf("%w: argument %d: want %s, got %T", ErrBadArguments, i, want, got)
}

// Address returns argument i as an address.
func (a Args) Address(i int) (account.Address, error) {
	v, err := a.at(i, "address")
	if err != nil {
		return account.Zero, err
	}
	addr, ok := v.(account.Address)
	if !ok {
		return account.Zero, mismatch(i, "address", v)
	}
	return addr, nil
}

// Uint64 returns argument i as an unsigned integer.
func (a Args) Uint64(i int) (uint64, error) {
	v, err := a.at(i, "uint")
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case uint64:
		return n, nil
	case uint32:
		return uint64(n), nil
	case uint:
		return uint64(n), nil
	case int:
		if n < 0 {
			return 0, mismatch(i, "non-negative uint", v)
		}
		return uint64(n), nil
	}
	return 0, mismatch(i, "uint", v)
}

// Bool returns argument i as a boolean.
func (a Args) Bool(i int) (bool, error) {
	v, err := a.at(i, "bool")
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, mismatch(i, "bool", v)
	}
	return b, nil
}

// String returns argument i as a string.
func (a Args) String(i int) (string, error) {
	v, err := a.at(i, "string")
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", mismatch(i, "string", v)
	}
	return s, nil
}

// Selector returns argument i as a selector.
func (a Args) Selector(i int) (Selector, error) {
	v, err := a.at(i, "bytes4")
	if err != nil {
		return Selector{}, err
	}
	s, ok := v.(Selector)
	if !ok {
		return Selector{}, mismatch(i, "bytes4", v)
	}
	return s, nil
}

// Cuts returns argument i as a list of facet cuts.
func (a Args) Cuts(i int) ([]FacetCut, error) {
	v, err := a.at(i, "facet cuts")
	if err != nil {
		return nil, err
	}
	switch c := v.(type) {
	case []FacetCut:
		return c, nil
	case nil:
		return nil, nil
	}
	return nil, mismatch(i, "[]FacetCut", v)
}

// Call returns argument i as nested calldata; nil means no call.
func (a Args) Call(i int) (*Call, error) {
	if i >= len(a) {
		return nil, nil
	}
	switch c := a[i].(type) {
	case nil:
		return nil, nil
	case Call:
		return &c, nil
	case *Call:
		return c, nil
	}
	return nil, mismatch(i, "Call", a[i])
}
