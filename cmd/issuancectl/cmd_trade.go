package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bitfsorg/libissuance-go/diamond"
	"github.com/bitfsorg/libissuance-go/token"
	"github.com/bitfsorg/libissuance-go/units"
)

// saleTx runs a sale-engine transaction for the --as participant with an
// amount argument.
func saleTx(amountArg string, op string, fn func(ctx context.Context, e *env, amount uint64) (*diamond.Receipt, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		amount, err := units.ParseAmount(args[0])
		if err != nil {
			return fmt.Errorf("%s: %w", amountArg, err)
		}
		return withEnv(true, func(ctx context.Context, e *env) error {
			r, err := fn(ctx, e, amount)
			if err != nil {
				logger.Warn(op+" failed", zap.String("as", actAs), zap.Error(err))
				return err
			}
			logger.Info(op, zap.String("as", actAs), zap.String("amount", units.FormatAmount(amount)), zap.Stringer("tx", r.TxID))
			printReceipt(cmd.OutOrStdout(), r)
			return nil
		})
	}
}

var bondsCmd = &cobra.Command{
	Use:   "bonds",
	Short: "Buy, redeem and inspect bonds",
}

var bondsBuyCmd = &cobra.Command{
	Use:   "buy <value>",
	Short: "Buy bonds 1:1 for native value",
	Args:  cobra.ExactArgs(1),
	RunE: saleTx("value", "bonds purchased", func(ctx context.Context, e *env, value uint64) (*diamond.Receipt, error) {
		c, _, err := e.clients()
		if err != nil {
			return nil, err
		}
		return c.Sale.PurchaseBonds(ctx, value)
	}),
}

var bondsRedeemCmd = &cobra.Command{
	Use:   "redeem <amount>",
	Short: "Redeem matured bonds for principal plus yield",
	Args:  cobra.ExactArgs(1),
	RunE: saleTx("amount", "bonds redeemed", func(ctx context.Context, e *env, amount uint64) (*diamond.Receipt, error) {
		c, _, err := e.clients()
		if err != nil {
			return nil, err
		}
		return c.Sale.RedeemBonds(ctx, amount)
	}),
}

var bondsPositionCmd = &cobra.Command{
	Use:   "position [participant]",
	Short: "Show a bond position and its maturity",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(true, func(ctx context.Context, e *env) error {
			c, holder, err := e.clients()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				if holder, err = e.resolve(args[0]); err != nil {
					return err
				}
			}
			p, err := c.Bond.Position(ctx, holder)
			if err != nil {
				return err
			}
			matured, err := c.Bond.HasBondMatured(ctx, holder)
			if err != nil {
				return err
			}
			left, err := c.Bond.TimeToMaturity(ctx, holder)
			if err != nil {
				return err
			}
			payout, err := c.Bond.CalculateRedemptionAmount(ctx, p.Principal)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "holder     %s\n", holder)
			fmt.Fprintf(out, "principal  %s\n", units.FormatAmount(p.Principal))
			fmt.Fprintf(out, "purchased  %s\n", time.Unix(int64(p.PurchaseTimestamp), 0).UTC().Format(time.RFC3339))
			fmt.Fprintf(out, "matured    %t (%s left)\n", matured, time.Duration(left)*time.Second)
			fmt.Fprintf(out, "redeems    %s\n", units.FormatAmount(payout))
			return nil
		})
	},
}

var warrantsCmd = &cobra.Command{
	Use:   "warrants",
	Short: "Buy, exercise and inspect warrants",
}

var warrantsBuyCmd = &cobra.Command{
	Use:   "buy <value>",
	Short: "Buy warrants at the warrant price",
	Args:  cobra.ExactArgs(1),
	RunE: saleTx("value", "warrants purchased", func(ctx context.Context, e *env, value uint64) (*diamond.Receipt, error) {
		c, _, err := e.clients()
		if err != nil {
			return nil, err
		}
		return c.Sale.PurchaseWarrants(ctx, value)
	}),
}

var warrantsExerciseCmd = &cobra.Command{
	Use:   "exercise <amount>",
	Short: "Exercise warrants into equity, paying the strike price",
	Args:  cobra.ExactArgs(1),
	RunE: saleTx("amount", "warrants exercised", func(ctx context.Context, e *env, amount uint64) (*diamond.Receipt, error) {
		c, _, err := e.clients()
		if err != nil {
			return nil, err
		}
		cost, err := c.Warrant.CalculateExerciseCost(ctx, amount)
		if err != nil {
			return nil, err
		}
		return c.Sale.ExerciseWarrants(ctx, amount, cost)
	}),
}

var warrantsPositionCmd = &cobra.Command{
	Use:   "position [participant]",
	Short: "Show a warrant position",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(true, func(ctx context.Context, e *env) error {
			c, holder, err := e.clients()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				if holder, err = e.resolve(args[0]); err != nil {
					return err
				}
			}
			p, err := c.Warrant.Position(ctx, holder)
			if err != nil {
				return err
			}
			cost, err := c.Warrant.CalculateExerciseCost(ctx, p.Amount)
			if err != nil {
				return err
			}
			left, err := c.Warrant.TimeToExpiration(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "holder     %s\n", holder)
			fmt.Fprintf(out, "warrants   %s\n", units.FormatAmount(p.Amount))
			fmt.Fprintf(out, "exercise   %s\n", units.FormatAmount(cost))
			fmt.Fprintf(out, "expires in %s\n", time.Duration(left)*time.Second)
			return nil
		})
	},
}

var fundCmd = &cobra.Command{
	Use:   "fund <value>",
	Short: "Add native value to the bond redemption reserve",
	Args:  cobra.ExactArgs(1),
	RunE: saleTx("value", "redemption funded", func(ctx context.Context, e *env, value uint64) (*diamond.Receipt, error) {
		c, _, err := e.clients()
		if err != nil {
			return nil, err
		}
		return c.Sale.FundBondRedemption(ctx, value)
	}),
}

var transferCmd = &cobra.Command{
	Use:   "transfer <bond|warrant|equity> <to> <amount>",
	Short: "Transfer instrument tokens between participants",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := units.ParseAmount(args[2])
		if err != nil {
			return err
		}
		return withEnv(true, func(ctx context.Context, e *env) error {
			c, _, err := e.clients()
			if err != nil {
				return err
			}
			var ledger *token.Client
			switch args[0] {
			case "bond":
				ledger = c.Bond.Client
			case "warrant":
				ledger = c.Warrant.Client
			case "equity":
				ledger = c.Equity.Client
			default:
				return fmt.Errorf("unknown instrument %q", args[0])
			}
			to, err := e.resolve(args[1])
			if err != nil {
				return err
			}
			r, err := ledger.Transfer(ctx, to, amount)
			if err != nil {
				return err
			}
			printReceipt(cmd.OutOrStdout(), r)
			return nil
		})
	},
}

func init() {
	bondsCmd.AddCommand(bondsBuyCmd, bondsRedeemCmd, bondsPositionCmd)
	warrantsCmd.AddCommand(warrantsBuyCmd, warrantsExerciseCmd, warrantsPositionCmd)
}
