package diamond

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libissuance-go/account"
	"github.com/bitfsorg/libissuance-go/arena"
)

func TestSelectorOf(t *testing.T) {
	tests := []struct {
		sig  string
		want string
	}{
		{"transfer(address,uint256)", "0xa9059cbb"},
		{"balanceOf(address)", "0x70a08231"},
		{"owner()", "0x8da5cb5b"},
		{"facets()", "0x7a0ed627"},
	}
	for _, tt := range tests {
		t.Run(tt.sig, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectorOf(tt.sig).String())
			parsed, err := ParseSelector(tt.want)
			require.NoError(t, err)
			assert.Equal(t, SelectorOf(tt.sig), parsed)
		})
	}

	_, err := ParseSelector("0x1234")
	assert.ErrorIs(t, err, ErrBadArguments)
}

func TestCreateDiamond(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	ok, err := fx.host.IsDiamond(ctx, fx.diamond)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = fx.host.IsDiamond(ctx, alice)
	require.NoError(t, err)
	assert.False(t, ok)

	owner, err := fx.owner.Owner(ctx)
	require.NoError(t, err)
	assert.Equal(t, alice, owner)

	facets, err := fx.owner.Facets(ctx)
	require.NoError(t, err)
	assert.Len(t, facets, 3)

	addrs, err := fx.owner.FacetAddresses(ctx)
	require.NoError(t, err)
	assert.Contains(t, addrs, FacetAddress(LoupeFacet{}.Name()))

	// Same owner, next nonce, different diamond.
	d2, err := fx.host.CreateDiamond(ctx, alice)
	require.NoError(t, err)
	assert.NotEqual(t, fx.diamond, d2)

	_, err = fx.host.CreateDiamond(ctx, account.Zero)
	assert.ErrorIs(t, err, account.ErrInvalidAddress)
}

func TestDiamondCut_AddAndRemove(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	fx.addCounter(t)

	r, err := fx.owner.Send(ctx, "increment()")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), r.Result)
	assert.Equal(t, uint64(1), fx.count(t))

	got, err := fx.owner.FacetAddress(ctx, SelectorOf("increment()"))
	require.NoError(t, err)
	assert.Equal(t, FacetAddress(counterV1.Name()), got)

	_, err = fx.owner.DiamondCut(ctx, []FacetCut{{
		Action:    Remove,
		Selectors: SelectorsOf("increment()"),
	}}, account.Zero, nil)
	require.NoError(t, err)

	_, err = fx.owner.Send(ctx, "increment()")
	assert.ErrorIs(t, err, ErrUnknownSelector)

	got, err = fx.owner.FacetAddress(ctx, SelectorOf("increment()"))
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	// The counter survives selector removal.
	assert.Equal(t, uint64(1), fx.count(t))
}

func TestDiamondCut_Replace(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	fx.addCounter(t)

	_, err := fx.owner.Send(ctx, "increment()")
	require.NoError(t, err)

	_, err = fx.owner.DiamondCut(ctx, []FacetCut{{
		FacetAddress: FacetAddress(counterV2.Name()),
		Action:       Replace,
		Selectors:    SelectorsOf("count()"),
	}}, account.Zero, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), fx.count(t))

	sels, err := fx.owner.FacetFunctionSelectors(ctx, FacetAddress(counterV2.Name()))
	require.NoError(t, err)
	assert.Equal(t, SelectorsOf("count()"), sels)

	_, err = fx.owner.DiamondCut(ctx, []FacetCut{{
		FacetAddress: FacetAddress(counterV2.Name()),
		Action:       Replace,
		Selectors:    SelectorsOf("count()"),
	}}, account.Zero, nil)
	assert.ErrorIs(t, err, ErrSameFacet)
}

func TestDiamondCut_Rejections(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	fx.addCounter(t)
	v1 := FacetAddress(counterV1.Name())

	tests := []struct {
		name string
		cuts []FacetCut
		want error
	}{
		{"already routed", []FacetCut{{FacetAddress: v1, Action: Add, Selectors: SelectorsOf("count()")}}, ErrDuplicateSelector},
		{"duplicate within batch", []FacetCut{
			{FacetAddress: FacetAddress(counterV2.Name()), Action: Replace, Selectors: SelectorsOf("count()")},
			{Action: Remove, Selectors: SelectorsOf("count()")},
		}, ErrDuplicateSelector},
		{"no selectors", []FacetCut{{FacetAddress: v1, Action: Add}}, ErrNoSelectors},
		{"unknown facet", []FacetCut{{FacetAddress: bob, Action: Add, Selectors: SelectorsOf("initCounter(uint256)")}}, ErrFacetNotDeployed},
		{"selector not in facet", []FacetCut{{FacetAddress: v1, Action: Add, Selectors: SelectorsOf("nope()")}}, ErrSelectorNotInFacet},
		{"replace missing", []FacetCut{{FacetAddress: v1, Action: Replace, Selectors: SelectorsOf("initCounter(uint256)")}}, ErrSelectorNotFound},
		{"remove with address", []FacetCut{{FacetAddress: v1, Action: Remove, Selectors: SelectorsOf("count()")}}, ErrRemoveFacetAddress},
		{"remove missing", []FacetCut{{Action: Remove, Selectors: SelectorsOf("nope()")}}, ErrSelectorNotFound},
		{"bad action", []FacetCut{{FacetAddress: v1, Action: 7, Selectors: SelectorsOf("count()")}}, ErrInvalidAction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fx.owner.DiamondCut(ctx, tt.cuts, account.Zero, nil)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	// Nothing above changed the table.
	facets, err := fx.owner.Facets(ctx)
	require.NoError(t, err)
	assert.Len(t, facets, 4)
	assert.Equal(t, uint64(0), fx.count(t))
}

func TestDiamondCut_OwnerOnly(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.owner.As(bob).DiamondCut(context.Background(), []FacetCut{{
		FacetAddress: FacetAddress(counterV1.Name()),
		Action:       Add,
		Selectors:    SelectorsOf("count()"),
	}}, account.Zero, nil)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestDiamondCut_Init(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	v1 := FacetAddress(counterV1.Name())
	cuts := []FacetCut{{FacetAddress: v1, Action: Add, Selectors: SelectorsOf("count()", "increment()")}}

	t.Run("failure rolls back the cut", func(t *testing.T) {
		init := NewCall("fail()")
		_, err := fx.owner.DiamondCut(ctx, cuts, v1, &init)
		require.ErrorIs(t, err, ErrInitFailed)
		assert.ErrorIs(t, err, errBoom)

		got, err := fx.owner.FacetAddress(ctx, SelectorOf("count()"))
		require.NoError(t, err)
		assert.True(t, got.IsZero())
	})

	t.Run("target without calldata", func(t *testing.T) {
		_, err := fx.owner.DiamondCut(ctx, cuts, v1, nil)
		assert.ErrorIs(t, err, ErrInitFailed)
	})

	t.Run("calldata without target", func(t *testing.T) {
		init := NewCall("initCounter(uint256)", uint64(5))
		_, err := fx.owner.DiamondCut(ctx, cuts, account.Zero, &init)
		assert.ErrorIs(t, err, ErrInitFailed)
	})

	t.Run("success", func(t *testing.T) {
		init := NewCall("initCounter(uint256)", uint64(41))
		r, err := fx.owner.DiamondCut(ctx, cuts, v1, &init)
		require.NoError(t, err)
		assert.Equal(t, uint64(41), fx.count(t))

		var names []string
		for _, l := range r.Logs {
			names = append(names, l.Name)
		}
		assert.Equal(t, []string{"FacetAdded", "FacetAdded", "DiamondCut"}, names)

		// The initializer is reachable through the cut only.
		_, err = fx.owner.Send(ctx, "initCounter(uint256)", uint64(1))
		assert.ErrorIs(t, err, ErrUnknownSelector)
	})
}

func TestNestedCallRevert(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	fx.addCounter(t)

	other, err := fx.host.CreateDiamond(ctx, alice)
	require.NoError(t, err)
	otherClient := NewClient(fx.host, other, alice)
	_, err = otherClient.DiamondCut(ctx, []FacetCut{{
		FacetAddress: FacetAddress(counterV1.Name()),
		Action:       Add,
		Selectors:    SelectorsOf("count()", "fail()"),
	}}, account.Zero, nil)
	require.NoError(t, err)

	r, err := fx.owner.Send(ctx, "poke(address)", other)
	require.NoError(t, err)
	assert.Equal(t, true, r.Result)

	// The caller's write stands, the failed callee's write and log do not.
	assert.Equal(t, uint64(1), fx.count(t))
	n, err := As[uint64](otherClient.Query(ctx, "count()"))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), n)
	for _, l := range r.Logs {
		assert.NotEqual(t, "Doomed", l.Name)
	}
}

func TestCallDepth(t *testing.T) {
	a := arena.NewMem()
	h := NewHost(a, WithMaxDepth(4))
	_, err := h.Deploy(counterV1)
	require.NoError(t, err)
	ctx := context.Background()
	d, err := h.CreateDiamond(ctx, alice)
	require.NoError(t, err)
	c := NewClient(h, d, alice)
	_, err = c.DiamondCut(ctx, []FacetCut{{
		FacetAddress: FacetAddress(counterV1.Name()),
		Action:       Add,
		Selectors:    SelectorsOf("recurse()"),
	}}, account.Zero, nil)
	require.NoError(t, err)

	_, err = c.Send(ctx, "recurse()")
	assert.ErrorIs(t, err, ErrCallDepth)
}

func TestCallDepth_InitDelegation(t *testing.T) {
	h := NewHost(arena.NewMem(), WithMaxDepth(0))
	facet, err := h.Deploy(counterV1)
	require.NoError(t, err)
	ctx := context.Background()
	d, err := h.CreateDiamond(ctx, alice)
	require.NoError(t, err)
	c := NewClient(h, d, alice)

	init := NewCall("initCounter(uint256)", uint64(7))
	_, err = c.DiamondCut(ctx, []FacetCut{{
		FacetAddress: facet,
		Action:       Add,
		Selectors:    SelectorsOf("count()"),
	}}, facet, &init)
	require.ErrorIs(t, err, ErrInitFailed)
	assert.ErrorIs(t, err, ErrCallDepth)

	_, err = c.Query(ctx, "count()")
	assert.ErrorIs(t, err, ErrUnknownSelector, "the cut was reverted")

	_, err = c.DiamondCut(ctx, []FacetCut{{
		FacetAddress: facet,
		Action:       Add,
		Selectors:    SelectorsOf("count()"),
	}}, account.Zero, nil)
	require.NoError(t, err)
}

func TestNativeValue(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	fx.addCounter(t)

	_, err := fx.host.Deposit(ctx, bob, 500)
	require.NoError(t, err)

	// A plain transfer to a diamond runs its receive() handler.
	_, err = fx.host.Execute(ctx, Message{From: bob, To: fx.diamond, Value: 200})
	require.NoError(t, err)
	bal, err := fx.host.Balance(ctx, fx.diamond)
	require.NoError(t, err)
	assert.Equal(t, uint64(200), bal)
	err = fx.host.Arena().View(func(tx arena.Tx) error {
		s, err := tx.Space(fx.diamond, nsCounter)
		require.NoError(t, err)
		got, err := arena.GetUint64(s, []byte("received"))
		require.NoError(t, err)
		assert.Equal(t, uint64(200), got)
		return nil
	})
	require.NoError(t, err)

	_, err = fx.host.Execute(ctx, Message{From: bob, To: alice, Value: 301})
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	_, err = fx.owner.Send(ctx, "payout(address,uint256)", alice, uint64(150))
	require.NoError(t, err)
	bal, err = fx.host.Balance(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(150), bal)

	_, err = fx.owner.Send(ctx, "payout(address,uint256)", alice, uint64(51))
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	// Sending to a non-diamond address with calldata fails.
	_, err = fx.host.Execute(ctx, Message{From: bob, To: alice, Call: NewCall("count()")})
	assert.ErrorIs(t, err, ErrNotDiamond)
}

func TestQueryIsReadOnly(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	fx.addCounter(t)

	_, err := fx.owner.Query(ctx, "increment()")
	assert.ErrorIs(t, err, ErrReadOnly)

	_, err = fx.host.Query(ctx, Message{From: alice, To: fx.diamond, Value: 1, Call: NewCall("count()")})
	assert.ErrorIs(t, err, ErrValueInQuery)
	assert.Equal(t, uint64(0), fx.count(t))
}

func TestLogsAndSubscribers(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	fx.addCounter(t)

	var seen []Log
	fx.host.Subscribe(func(l Log) { seen = append(seen, l) })

	r, err := fx.owner.Send(ctx, "increment()")
	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.Equal(t, "Incremented", seen[0].Name)
	assert.Equal(t, r.TxID, seen[0].TxID)
	n, ok := seen[0].Uint("count")
	assert.True(t, ok)
	assert.Equal(t, uint64(1), n)

	_, err = fx.owner.As(bob).Send(ctx, "diamondCut((address,uint8,bytes4[])[],address,bytes)", []FacetCut(nil), account.Zero, nil)
	require.ErrorIs(t, err, ErrAccessDenied)
	assert.Len(t, seen, 1)

	logs, err := fx.host.Logs(ctx, 0, 0)
	require.NoError(t, err)
	require.NotEmpty(t, logs)
	last := logs[len(logs)-1]
	assert.Equal(t, "Incremented", last.Name)
	assert.Equal(t, uint64(len(logs)-1), last.Index)

	page, err := fx.host.Logs(ctx, uint64(len(logs)-1), 10)
	require.NoError(t, err)
	assert.Equal(t, []Log{last}, page)
}

func TestCanceledContext(t *testing.T) {
	fx := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := fx.owner.Send(ctx, "owner()")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOwnership(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	carol := account.Hash("carol")

	_, err := fx.owner.As(bob).SetOperator(ctx, bob)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = fx.owner.SetOperator(ctx, bob)
	require.NoError(t, err)
	op, err := fx.owner.Operator(ctx)
	require.NoError(t, err)
	assert.Equal(t, bob, op)

	_, err = fx.owner.As(carol).TransferOwnership(ctx, carol)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = fx.owner.TransferOwnership(ctx, account.Zero)
	assert.ErrorIs(t, err, ErrInvalidAddress)

	// The operator may hand ownership over.
	r, err := fx.owner.As(bob).TransferOwnership(ctx, carol)
	require.NoError(t, err)
	require.Len(t, r.Logs, 1)
	prev, _ := r.Logs[0].Address("previousOwner")
	assert.Equal(t, alice, prev)

	owner, err := fx.owner.Owner(ctx)
	require.NoError(t, err)
	assert.Equal(t, carol, owner)

	_, err = fx.owner.SetOperator(ctx, alice)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestDeploy_Duplicate(t *testing.T) {
	h := NewHost(arena.NewMem())
	_, err := h.Deploy(counterV1)
	require.NoError(t, err)
	_, err = h.Deploy(counterV1)
	assert.ErrorIs(t, err, ErrFacetExists)
	_, err = h.Deploy(OwnershipFacet{})
	assert.ErrorIs(t, err, ErrFacetExists)
}
