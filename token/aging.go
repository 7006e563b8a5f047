package token

import (
	"github.com/bitfsorg/libissuance-go/account"
	"github.com/bitfsorg/libissuance-go/arena"
	"github.com/bitfsorg/libissuance-go/diamond"
	"github.com/bitfsorg/libissuance-go/units"
)

// Aging tracks one purchase timestamp per holder. A holder that adds to an
// existing position gets the amount-weighted average of the old timestamp
// and the incoming one, so topping up never resets the age of earlier units
// and a transfer never makes units younger or older than they were.
type Aging struct {
	// Namespace and Prefix locate the timestamps in the diamond.
	Namespace string
	Prefix    string
}

func (a Aging) key(holder account.Address) []byte { return arena.Key(a.Prefix, holder[:]) }

// Timestamp returns holder's purchase timestamp, zero without a position.
func (a Aging) Timestamp(f *diamond.Frame, holder account.Address) (uint64, error) {
	s, err := f.Space(a.Namespace)
	if err != nil {
		return 0, err
	}
	return arena.GetUint64(s, a.key(holder))
}

// Moved implements Hooks.Moved.
func (a Aging) Moved(f *diamond.Frame, from, to account.Address, amount, toBefore uint64) error {
	s, err := f.Space(a.Namespace)
	if err != nil {
		return err
	}

	if !to.IsZero() {
		incoming := f.Now()
		if !from.IsZero() {
			if incoming, err = arena.GetUint64(s, a.key(from)); err != nil {
				return err
			}
		}
		current, err := arena.GetUint64(s, a.key(to))
		if err != nil {
			return err
		}
		ts := incoming
		if toBefore > 0 {
			if ts, err = WeightedTimestamp(current, toBefore, incoming, amount); err != nil {
				return err
			}
		}
		if err := arena.PutUint64(s, a.key(to), ts); err != nil {
			return err
		}
	}

	if !from.IsZero() {
		st, err := Open(f)
		if err != nil {
			return err
		}
		left, err := st.BalanceOf(from)
		if err != nil {
			return err
		}
		if left == 0 {
			return s.Delete(a.key(from))
		}
	}
	return nil
}

// WeightedTimestamp blends a position of balance held since current with
// amount arriving at incoming.
func WeightedTimestamp(current, balance, incoming, amount uint64) (uint64, error) {
	total, err := units.Add(balance, amount)
	if err != nil {
		return 0, err
	}
	if incoming >= current {
		d, err := units.MulDiv(incoming-current, amount, total)
		if err != nil {
			return 0, err
		}
		return current + d, nil
	}
	d, err := units.MulDiv(current-incoming, amount, total)
	if err != nil {
		return 0, err
	}
	return current - d, nil
}
