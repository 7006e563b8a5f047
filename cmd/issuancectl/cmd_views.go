package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/bitfsorg/libissuance-go/diamond"
	"github.com/bitfsorg/libissuance-go/units"
)

var (
	pageOffset uint64
	pageLimit  uint64
)

var investorsCmd = &cobra.Command{
	Use:   "investors",
	Short: "List registered investors and their records",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(true, func(ctx context.Context, e *env) error {
			c, _, err := e.clients()
			if err != nil {
				return err
			}
			total, err := c.Sale.InvestorCount(ctx)
			if err != nil {
				return err
			}
			page, err := c.Sale.Investors(ctx, pageOffset, pageLimit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ADDRESS\tBONDS IN\tWARRANTS IN\tREDEMPTIONS\tEXERCISES\tLAST ACTIVITY")
			for _, a := range page {
				r, err := c.Sale.InvestorDetails(ctx, a)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n", a,
					units.FormatAmount(r.TotalBondInvestment),
					units.FormatAmount(r.TotalWarrantInvestment),
					r.BondRedemptions, r.WarrantsExercised,
					time.Unix(int64(r.LastActivity), 0).UTC().Format(time.RFC3339))
			}
			fmt.Fprintf(tw, "(%d of %d)\n", len(page), total)
			return tw.Flush()
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the sale configuration, metrics and token supplies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(true, func(ctx context.Context, e *env) error {
			c, _, err := e.clients()
			if err != nil {
				return err
			}
			sc, err := c.Sale.Config(ctx)
			if err != nil {
				return err
			}
			m, err := c.Sale.Metrics(ctx)
			if err != nil {
				return err
			}
			exp, err := c.Warrant.ExpirationTimestamp(ctx)
			if err != nil {
				return err
			}
			remaining, err := c.Equity.RemainingShares(ctx)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "clock\t%s\n", e.host.Now().UTC().Format(time.RFC3339))
			fmt.Fprintf(tw, "owner\t%s\n", e.dep.Owner)
			fmt.Fprintf(tw, "treasury\t%s\n", sc.Treasury)
			fmt.Fprintln(tw, "\t")
			fmt.Fprintf(tw, "bond sale\t%t [%s, %s]\n", sc.BondSaleActive, units.FormatAmount(sc.MinBondPurchase), units.FormatAmount(sc.MaxBondPurchase))
			fmt.Fprintf(tw, "warrant sale\t%t [%s, %s]\n", sc.WarrantSaleActive, units.FormatAmount(sc.MinWarrantPurchase), units.FormatAmount(sc.MaxWarrantPurchase))
			fmt.Fprintf(tw, "bond terms\t%d days, %d bps\n", sc.BondMaturityPeriod/86400, sc.BondYieldBasisPoints)
			fmt.Fprintf(tw, "warrant terms\tstrike %s, price %s, expires %s\n", units.FormatAmount(sc.WarrantStrikePrice), units.FormatAmount(sc.WarrantPrice),
				time.Unix(int64(exp), 0).UTC().Format(time.RFC3339))
			fmt.Fprintln(tw, "\t")
			fmt.Fprintf(tw, "funds raised\t%s\n", units.FormatAmount(m.TotalFundsRaised))
			fmt.Fprintf(tw, "redemption reserve\t%s\n", units.FormatAmount(m.ReserveBalance))
			fmt.Fprintf(tw, "active bond holders\t%d\n", m.ActiveBondCount)
			fmt.Fprintf(tw, "bond redemptions\t%d\n", m.TotalBondRedemptions)
			fmt.Fprintf(tw, "warrants issued\t%s\n", units.FormatAmount(m.TotalWarrantsIssued))
			fmt.Fprintf(tw, "warrant exercises\t%d\n", m.TotalWarrantsExercised)
			fmt.Fprintf(tw, "equity issued\t%s (remaining %s)\n", units.FormatAmount(m.TotalEquityIssued), units.FormatAmount(remaining))
			fmt.Fprintln(tw, "\t")
			for _, l := range []struct {
				name   string
				supply func(context.Context) (uint64, error)
			}{
				{"bond supply", c.Bond.TotalSupply},
				{"warrant supply", c.Warrant.TotalSupply},
				{"equity supply", c.Equity.TotalSupply},
			} {
				s, err := l.supply(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s\t%s\n", l.name, units.FormatAmount(s))
			}
			return tw.Flush()
		})
	},
}

var facetsCmd = &cobra.Command{
	Use:   "facets <bond|warrant|equity|sale|address>",
	Short: "List a diamond's facets and selectors",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(true, func(ctx context.Context, e *env) error {
			addr, err := e.diamondRef(args[0])
			if err != nil {
				return err
			}
			_, from, err := e.clients()
			if err != nil {
				return err
			}
			facets, err := diamond.NewClient(e.host, addr, from).Facets(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, f := range facets {
				fmt.Fprintf(out, "%s (%d selectors)\n", f.Address, len(f.Selectors))
				for _, s := range f.Selectors {
					fmt.Fprintf(out, "  %s\n", s)
				}
			}
			return nil
		})
	},
}

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Print the host event log",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(false, func(ctx context.Context, e *env) error {
			logs, err := e.host.Logs(ctx, pageOffset, pageLimit)
			if err != nil {
				return err
			}
			for _, l := range logs {
				printLog(cmd.OutOrStdout(), l)
			}
			return nil
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{investorsCmd, logsCmd} {
		c.Flags().Uint64Var(&pageOffset, "offset", 0, "Skip this many entries")
		c.Flags().Uint64Var(&pageLimit, "limit", 50, "Maximum entries to show")
	}
}
