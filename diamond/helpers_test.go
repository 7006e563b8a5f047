package diamond

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libissuance-go/account"
	"github.com/bitfsorg/libissuance-go/arena"
)

var errBoom = errors.New("boom")

var (
	alice = account.Hash("alice")
	bob   = account.Hash("bob")
)

const nsCounter = "test.counter"

var keyCount = []byte("count")

// counterFacet keeps a per-diamond counter. scale multiplies count() so a
// replaced facet is observable.
type counterFacet struct {
	name  string
	scale uint64
}

func (c counterFacet) Name() string { return c.name }

func (c counterFacet) Methods() []Method {
	return []Method{
		{Signature: "increment()", Handler: func(f *Frame, _ Args) (any, error) {
			s, err := f.Space(nsCounter)
			if err != nil {
				return nil, err
			}
			n, err := arena.GetUint64(s, keyCount)
			if err != nil {
				return nil, err
			}
			f.Emit("Incremented", UintAttr("count", n+1))
			return n + 1, arena.PutUint64(s, keyCount, n+1)
		}},
		{Signature: "count()", Handler: func(f *Frame, _ Args) (any, error) {
			s, err := f.Space(nsCounter)
			if err != nil {
				return nil, err
			}
			n, err := arena.GetUint64(s, keyCount)
			return n * c.scale, err
		}},
		{Signature: "initCounter(uint256)", Handler: func(f *Frame, in Args) (any, error) {
			v, err := in.Uint64(0)
			if err != nil {
				return nil, err
			}
			s, err := f.Space(nsCounter)
			if err != nil {
				return nil, err
			}
			return nil, arena.PutUint64(s, keyCount, v)
		}},
		{Signature: "fail()", Handler: func(f *Frame, _ Args) (any, error) {
			s, err := f.Space(nsCounter)
			if err != nil {
				return nil, err
			}
			if err := arena.PutUint64(s, keyCount, 999); err != nil {
				return nil, err
			}
			f.Emit("Doomed")
			return nil, errBoom
		}},
		{Signature: "poke(address)", Handler: func(f *Frame, in Args) (any, error) {
			// Increments locally, then calls fail() on target and swallows
			// the error.
			target, err := in.Address(0)
			if err != nil {
				return nil, err
			}
			s, err := f.Space(nsCounter)
			if err != nil {
				return nil, err
			}
			if err := arena.PutUint64(s, keyCount, 1); err != nil {
				return nil, err
			}
			_, callErr := f.Call(target, 0, NewCall("fail()"))
			return callErr != nil, nil
		}},
		{Signature: "recurse()", Handler: func(f *Frame, _ Args) (any, error) {
			return f.Call(f.Self(), 0, NewCall("recurse()"))
		}},
		{Signature: "receive()", Handler: func(f *Frame, _ Args) (any, error) {
			s, err := f.Space(nsCounter)
			if err != nil {
				return nil, err
			}
			return nil, arena.PutUint64(s, []byte("received"), f.Value())
		}},
		{Signature: "payout(address,uint256)", Handler: func(f *Frame, in Args) (any, error) {
			to, err := in.Address(0)
			if err != nil {
				return nil, err
			}
			amt, err := in.Uint64(1)
			if err != nil {
				return nil, err
			}
			return nil, f.Transfer(to, amt)
		}},
	}
}

var (
	counterV1 = counterFacet{name: "test.Counter/v1", scale: 1}
	counterV2 = counterFacet{name: "test.Counter/v2", scale: 10}
)

type fixture struct {
	host    *Host
	clock   *ManualClock
	diamond account.Address
	owner   *Client
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	a, err := arena.OpenBolt(filepath.Join(t.TempDir(), "arena.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	clock := NewManualClock(time.Unix(1_700_000_000, 0))
	h := NewHost(a, WithClock(clock))
	_, err = h.Deploy(counterV1)
	require.NoError(t, err)
	_, err = h.Deploy(counterV2)
	require.NoError(t, err)

	d, err := h.CreateDiamond(context.Background(), alice)
	require.NoError(t, err)
	return &fixture{host: h, clock: clock, diamond: d, owner: NewClient(h, d, alice)}
}

// addCounter routes every counter selector except the initializer to v1.
func (fx *fixture) addCounter(t *testing.T) {
	t.Helper()
	_, err := fx.owner.DiamondCut(context.Background(), []FacetCut{{
		FacetAddress: FacetAddress(counterV1.Name()),
		Action:       Add,
		Selectors:    Selectors(counterV1, "initCounter(uint256)"),
	}}, account.Zero, nil)
	require.NoError(t, err)
}

func (fx *fixture) count(t *testing.T) uint64 {
	t.Helper()
	n, err := As[uint64](fx.owner.Query(context.Background(), "count()"))
	require.NoError(t, err)
	return n
}
