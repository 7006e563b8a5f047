package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bitfsorg/libissuance-go/config"
	"github.com/bitfsorg/libissuance-go/issuance"
	"github.com/bitfsorg/libissuance-go/units"
	"github.com/bitfsorg/libissuance-go/wallet"
)

var (
	restoreMnemonic string
	accountCount    uint32
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the wallet and deploy the four diamonds",
	Long: `Writes the configuration file if missing, creates (or restores) the wallet
seed, labels participant 0 "owner" and deploys the bond, warrant, equity and
sale diamonds with the owner as owner and treasury.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List participants with their native balances",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(false, func(ctx context.Context, e *env) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "INDEX\tLABEL\tADDRESS\tBALANCE")
			labels := map[uint32]string{}
			for _, l := range e.roster.Labels {
				labels[l.Index] = l.Name
			}
			n := accountCount
			if e.roster.NextIndex > n {
				n = e.roster.NextIndex
			}
			for i := uint32(0); i < n; i++ {
				addr, err := e.wallet.Address(i)
				if err != nil {
					return err
				}
				bal, err := e.host.Balance(ctx, addr)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i, labels[i], addr, units.FormatAmount(bal))
			}
			return tw.Flush()
		})
	},
}

var accountsAddCmd = &cobra.Command{
	Use:   "add <label>",
	Short: "Label the next participant index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(false, func(ctx context.Context, e *env) error {
			l, err := e.roster.Add(args[0])
			if err != nil {
				return err
			}
			if err := wallet.SaveRoster(wallet.RosterPath(cfg.DataDir), e.roster); err != nil {
				return err
			}
			addr, err := e.wallet.Address(l.Index)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %d %s\n", l.Name, l.Index, addr)
			return nil
		})
	},
}

var depositCmd = &cobra.Command{
	Use:   "deposit <participant> <amount>",
	Short: "Credit native value to a participant (regtest faucet)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Network != "regtest" {
			return fmt.Errorf("deposit: %w", errNotRegtest)
		}
		amount, err := units.ParseAmount(args[1])
		if err != nil {
			return err
		}
		return withEnv(false, func(ctx context.Context, e *env) error {
			to, err := e.resolve(args[0])
			if err != nil {
				return err
			}
			r, err := e.host.Deposit(ctx, to, amount)
			if err != nil {
				return err
			}
			printReceipt(cmd.OutOrStdout(), r)
			return nil
		})
	},
}

var clockCmd = &cobra.Command{
	Use:   "clock",
	Short: "Show the host clock",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(false, func(ctx context.Context, e *env) error {
			fmt.Fprintln(cmd.OutOrStdout(), e.host.Now().UTC().Format(time.RFC3339))
			return nil
		})
	},
}

var clockAdvanceCmd = &cobra.Command{
	Use:   "advance <duration>",
	Short: "Move the regtest clock forward (e.g. 4320h for 180 days)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Network != "regtest" {
			return fmt.Errorf("clock advance: %w", errNotRegtest)
		}
		d, err := time.ParseDuration(args[0])
		if err != nil {
			return err
		}
		if d < 0 {
			return fmt.Errorf("clock advance: duration must not be negative")
		}
		return withEnv(false, func(ctx context.Context, e *env) error {
			offset, err := readClockOffset(e.db)
			if err != nil {
				return err
			}
			if err := writeClockOffset(ctx, e.host, offset+d); err != nil {
				return err
			}
			logger.Info("clock advanced", zap.Duration("by", d), zap.Duration("offset", offset+d))
			fmt.Fprintln(cmd.OutOrStdout(), time.Now().Add(offset+d).UTC().Format(time.RFC3339))
			return nil
		})
	},
}

func runInit(cmd *cobra.Command, args []string) error {
	if password == "" {
		return errNoPassword
	}
	out := cmd.OutOrStdout()

	cfgPath := config.ConfigPath(cfg.DataDir)
	if _, err := os.Stat(cfgPath); errors.Is(err, os.ErrNotExist) {
		if err := config.SaveConfig(cfgPath, cfg); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s\n", cfgPath)
	}

	mnemonic := restoreMnemonic
	if mnemonic == "" {
		var err error
		if mnemonic, err = wallet.GenerateMnemonic(wallet.Mnemonic12Words); err != nil {
			return err
		}
	}
	seed, err := wallet.SeedFromMnemonic(mnemonic, "")
	if err != nil {
		return err
	}
	if err := wallet.CreateSeedFile(wallet.SeedPath(cfg.DataDir), seed, password); err != nil {
		return err
	}

	rosterPath := wallet.RosterPath(cfg.DataDir)
	roster, err := wallet.LoadRoster(rosterPath)
	if err != nil {
		return err
	}
	if _, err := roster.Lookup("owner"); err != nil {
		if _, err := roster.Add("owner"); err != nil {
			return err
		}
	}
	if err := wallet.SaveRoster(rosterPath, roster); err != nil {
		return err
	}

	return withEnv(false, func(ctx context.Context, e *env) error {
		owner, err := e.resolve("owner")
		if err != nil {
			return err
		}
		params := cfg.Params(owner)
		if params.InitialReserve > 0 && cfg.Network == "regtest" {
			if _, err := e.host.Deposit(ctx, owner, params.InitialReserve); err != nil {
				return err
			}
		}
		d, err := issuance.Deploy(ctx, e.host, params, logger)
		if err != nil {
			return err
		}
		if restoreMnemonic == "" {
			fmt.Fprintf(out, "mnemonic: %s\n(write it down; it is not shown again)\n", mnemonic)
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "owner\t%s\n", d.Owner)
		fmt.Fprintf(tw, "bond\t%s\n", d.Bond)
		fmt.Fprintf(tw, "warrant\t%s\n", d.Warrant)
		fmt.Fprintf(tw, "equity\t%s\n", d.Equity)
		fmt.Fprintf(tw, "sale\t%s\n", d.Sale)
		if params.InitialReserve > 0 {
			fmt.Fprintf(tw, "reserve\t%s\n", units.FormatAmount(params.InitialReserve))
		}
		return tw.Flush()
	})
}

func init() {
	initCmd.Flags().StringVar(&restoreMnemonic, "mnemonic", "", "Restore from an existing BIP39 mnemonic")
	accountsCmd.Flags().Uint32VarP(&accountCount, "count", "n", 5, "Minimum number of participants to list")
	accountsCmd.AddCommand(accountsAddCmd)
	clockCmd.AddCommand(clockAdvanceCmd)
}
