package warrant

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libissuance-go/account"
	"github.com/bitfsorg/libissuance-go/arena"
	"github.com/bitfsorg/libissuance-go/diamond"
	"github.com/bitfsorg/libissuance-go/units"
)

var (
	owner = account.Hash("owner")
	alice = account.Hash("alice")
)

const strike = 80_000_000 // 0.8

func newWarrant(t *testing.T) (*Client, *diamond.ManualClock) {
	t.Helper()
	ctx := context.Background()
	clock := diamond.NewManualClock(time.Unix(1_700_000_000, 0))
	h := diamond.NewHost(arena.NewMem(), diamond.WithClock(clock))
	facet, err := h.Deploy(Facet{})
	require.NoError(t, err)
	d, err := h.CreateDiamond(ctx, owner)
	require.NoError(t, err)

	c := NewClient(h, d, owner)
	init := InitCall("Stock Warrant", "SWARR", strike, 365)
	_, err = c.DiamondCut(ctx, []diamond.FacetCut{{FacetAddress: facet, Action: diamond.Add, Selectors: Selectors()}}, facet, &init)
	require.NoError(t, err)
	return c, clock
}

func TestExerciseCost(t *testing.T) {
	c, _ := newWarrant(t)
	ctx := context.Background()

	cost, err := c.CalculateExerciseCost(ctx, 5*units.One)
	require.NoError(t, err)
	assert.Equal(t, uint64(4*units.One), cost)

	cost, err = c.CalculateExerciseCost(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, cost, "truncates below one base unit")

	price, err := c.WarrantPrice(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(units.One), price)
}

func TestExpirationGate(t *testing.T) {
	c, clock := newWarrant(t)
	ctx := context.Background()

	exp, err := c.ExpirationTimestamp(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(clock.Now().Unix())+365*SecondsPerDay, exp)

	clock.Set(time.Unix(int64(exp-1), 0))
	ok, err := c.HasExpired(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	left, err := c.TimeToExpiration(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), left)
	_, err = c.Mint(ctx, alice, units.One)
	require.NoError(t, err)

	clock.Advance(time.Second)
	ok, err = c.HasExpired(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	_, err = c.Mint(ctx, alice, units.One)
	assert.ErrorIs(t, err, ErrExpired)

	// Burning stays possible after expiry.
	_, err = c.Burn(ctx, alice, units.One)
	require.NoError(t, err)
}

func TestAdminSetters(t *testing.T) {
	c, clock := newWarrant(t)
	ctx := context.Background()
	now := uint64(clock.Now().Unix())
	exp, err := c.ExpirationTimestamp(ctx)
	require.NoError(t, err)
	equity := account.Hash("equity")

	tests := []struct {
		name string
		run  func(*Client) error
		want error
	}{
		{"equity zero", func(c *Client) error { _, err := c.SetEquityTokenAddress(ctx, account.Zero); return err }, ErrInvalidAddress},
		{"equity", func(c *Client) error { _, err := c.SetEquityTokenAddress(ctx, equity); return err }, nil},
		{"price zero", func(c *Client) error { _, err := c.SetWarrantPrice(ctx, 0); return err }, ErrInvalidPrice},
		{"price", func(c *Client) error { _, err := c.SetWarrantPrice(ctx, units.One/10); return err }, nil},
		{"strike zero", func(c *Client) error { _, err := c.UpdateStrikePrice(ctx, 0); return err }, ErrInvalidPrice},
		{"strike", func(c *Client) error { _, err := c.UpdateStrikePrice(ctx, units.One); return err }, nil},
		{"expiration backward", func(c *Client) error { _, err := c.ExtendExpiration(ctx, exp-1); return err }, ErrInvalidExpiration},
		{"expiration unchanged", func(c *Client) error { _, err := c.ExtendExpiration(ctx, exp); return err }, ErrInvalidExpiration},
		{"expiration past", func(c *Client) error { _, err := c.ExtendExpiration(ctx, now-1); return err }, ErrInvalidExpiration},
		{"expiration", func(c *Client) error { _, err := c.ExtendExpiration(ctx, exp+SecondsPerDay); return err }, nil},
		{"non-owner", func(c *Client) error { _, err := c.As(alice).SetWarrantPrice(ctx, 1); return err }, diamond.ErrAccessDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run(c)
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}

	got, err := c.EquityTokenAddress(ctx)
	require.NoError(t, err)
	assert.Equal(t, equity, got)
	price, err := c.WarrantPrice(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(units.One/10), price)
	s, err := c.StrikePrice(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(units.One), s)
	exp2, err := c.ExpirationTimestamp(ctx)
	require.NoError(t, err)
	assert.Equal(t, exp+SecondsPerDay, exp2)
}

func TestPosition(t *testing.T) {
	c, clock := newWarrant(t)
	ctx := context.Background()
	_, err := c.Mint(ctx, alice, 3*units.One)
	require.NoError(t, err)

	p, err := c.Position(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, Position{Holder: alice, Amount: 3 * units.One, PurchaseTimestamp: uint64(clock.Now().Unix())}, p)

	holders, err := c.Holders(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []account.Address{alice}, holders)
}
