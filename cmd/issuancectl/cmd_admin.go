package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bitfsorg/libissuance-go/diamond"
	"github.com/bitfsorg/libissuance-go/issuance"
	"github.com/bitfsorg/libissuance-go/units"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Owner-only sale and ledger settings",
}

// adminTx opens the deployment, runs fn as the --as participant and prints
// the receipt.
func adminTx(op string, fn func(ctx context.Context, e *env, c issuance.Clients, args []string) (*diamond.Receipt, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return withEnv(true, func(ctx context.Context, e *env) error {
			c, _, err := e.clients()
			if err != nil {
				return err
			}
			r, err := fn(ctx, e, c, args)
			if err != nil {
				logger.Warn(op+" failed", zap.String("as", actAs), zap.Strings("args", args), zap.Error(err))
				return err
			}
			logger.Info(op, zap.String("as", actAs), zap.Strings("args", args), zap.Stringer("tx", r.TxID))
			printReceipt(cmd.OutOrStdout(), r)
			return nil
		})
	}
}

func parseLimits(args []string) (lo, hi uint64, err error) {
	if lo, err = units.ParseAmount(args[0]); err != nil {
		return 0, 0, fmt.Errorf("min: %w", err)
	}
	if hi, err = units.ParseAmount(args[1]); err != nil {
		return 0, 0, fmt.Errorf("max: %w", err)
	}
	return lo, hi, nil
}

var adminToggleBondCmd = &cobra.Command{
	Use:   "toggle-bond-sale <true|false>",
	Short: "Open or pause bond purchases",
	Args:  cobra.ExactArgs(1),
	RunE: adminTx("bond sale toggled", func(ctx context.Context, _ *env, c issuance.Clients, args []string) (*diamond.Receipt, error) {
		active, err := strconv.ParseBool(args[0])
		if err != nil {
			return nil, err
		}
		return c.Sale.ToggleBondSale(ctx, active)
	}),
}

var adminToggleWarrantCmd = &cobra.Command{
	Use:   "toggle-warrant-sale <true|false>",
	Short: "Open or pause warrant purchases",
	Args:  cobra.ExactArgs(1),
	RunE: adminTx("warrant sale toggled", func(ctx context.Context, _ *env, c issuance.Clients, args []string) (*diamond.Receipt, error) {
		active, err := strconv.ParseBool(args[0])
		if err != nil {
			return nil, err
		}
		return c.Sale.ToggleWarrantSale(ctx, active)
	}),
}

var adminBondLimitsCmd = &cobra.Command{
	Use:   "bond-limits <min> <max>",
	Short: "Set the bond purchase range",
	Args:  cobra.ExactArgs(2),
	RunE: adminTx("bond limits updated", func(ctx context.Context, _ *env, c issuance.Clients, args []string) (*diamond.Receipt, error) {
		lo, hi, err := parseLimits(args)
		if err != nil {
			return nil, err
		}
		return c.Sale.UpdateBondPurchaseLimits(ctx, lo, hi)
	}),
}

var adminWarrantLimitsCmd = &cobra.Command{
	Use:   "warrant-limits <min> <max>",
	Short: "Set the warrant purchase range",
	Args:  cobra.ExactArgs(2),
	RunE: adminTx("warrant limits updated", func(ctx context.Context, _ *env, c issuance.Clients, args []string) (*diamond.Receipt, error) {
		lo, hi, err := parseLimits(args)
		if err != nil {
			return nil, err
		}
		return c.Sale.UpdateWarrantPurchaseLimits(ctx, lo, hi)
	}),
}

var adminTreasuryCmd = &cobra.Command{
	Use:   "treasury <participant>",
	Short: "Change where purchase proceeds go",
	Args:  cobra.ExactArgs(1),
	RunE: adminTx("treasury updated", func(ctx context.Context, e *env, c issuance.Clients, args []string) (*diamond.Receipt, error) {
		t, err := e.resolve(args[0])
		if err != nil {
			return nil, err
		}
		return c.Sale.UpdateTreasury(ctx, t)
	}),
}

var adminTransferOwnershipCmd = &cobra.Command{
	Use:   "transfer-ownership <participant>",
	Short: "Hand all four diamonds to a new owner",
	Args:  cobra.ExactArgs(1),
	RunE: adminTx("ownership transferred", func(ctx context.Context, e *env, c issuance.Clients, args []string) (*diamond.Receipt, error) {
		to, err := e.resolve(args[0])
		if err != nil {
			return nil, err
		}
		return c.Sale.TransferFullOwnership(ctx, to)
	}),
}

var adminStrikeCmd = &cobra.Command{
	Use:   "strike <price>",
	Short: "Set the warrant strike price",
	Args:  cobra.ExactArgs(1),
	RunE: adminTx("strike updated", func(ctx context.Context, _ *env, c issuance.Clients, args []string) (*diamond.Receipt, error) {
		price, err := units.ParseAmount(args[0])
		if err != nil {
			return nil, err
		}
		return c.Warrant.UpdateStrikePrice(ctx, price)
	}),
}

var adminWarrantPriceCmd = &cobra.Command{
	Use:   "warrant-price <price>",
	Short: "Set the native price of one warrant",
	Args:  cobra.ExactArgs(1),
	RunE: adminTx("warrant price updated", func(ctx context.Context, _ *env, c issuance.Clients, args []string) (*diamond.Receipt, error) {
		price, err := units.ParseAmount(args[0])
		if err != nil {
			return nil, err
		}
		return c.Warrant.SetWarrantPrice(ctx, price)
	}),
}

var adminExtendExpirationCmd = &cobra.Command{
	Use:   "extend-expiration <duration>",
	Short: "Push the warrant expiration later by a duration (e.g. 720h)",
	Args:  cobra.ExactArgs(1),
	RunE: adminTx("expiration extended", func(ctx context.Context, _ *env, c issuance.Clients, args []string) (*diamond.Receipt, error) {
		d, err := time.ParseDuration(args[0])
		if err != nil {
			return nil, err
		}
		if d <= 0 {
			return nil, fmt.Errorf("extension must be positive")
		}
		exp, err := c.Warrant.ExpirationTimestamp(ctx)
		if err != nil {
			return nil, err
		}
		return c.Warrant.ExtendExpiration(ctx, exp+uint64(d/time.Second))
	}),
}

func init() {
	adminCmd.AddCommand(
		adminToggleBondCmd,
		adminToggleWarrantCmd,
		adminBondLimitsCmd,
		adminWarrantLimitsCmd,
		adminTreasuryCmd,
		adminTransferOwnershipCmd,
		adminStrikeCmd,
		adminWarrantPriceCmd,
		adminExtendExpirationCmd,
	)
}
