package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bitfsorg/libissuance-go/sale"
	"github.com/bitfsorg/libissuance-go/units"
)

// saleCollector reports the sale engine's running totals at scrape time.
type saleCollector struct {
	client *sale.Client
	descs  map[string]*prometheus.Desc
}

func newSaleCollector(c *sale.Client) *saleCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc("issuance_sale_"+name, help, nil, nil)
	}
	return &saleCollector{
		client: c,
		descs: map[string]*prometheus.Desc{
			"funds":     desc("funds_raised_units", "Native value raised by bond and warrant purchases, in whole units."),
			"reserve":   desc("reserve_units", "Redemption reserve held by the sale diamond, in whole units."),
			"bonds":     desc("active_bond_holders", "Holders with an open bond position."),
			"warrants":  desc("warrants_issued_units", "Warrants minted through the sale, in whole units."),
			"equity":    desc("equity_issued_units", "Equity minted by warrant exercise, in whole units."),
			"redeemed":  desc("bond_redemptions", "Completed bond redemptions."),
			"exercised": desc("warrant_exercises", "Completed warrant exercises."),
		},
	}
}

func (c *saleCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range c.descs {
		ch <- d
	}
}

func (c *saleCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	m, err := c.client.Metrics(ctx)
	if err != nil {
		logger.Warn("sale metrics unavailable", zap.Error(err))
		return
	}
	whole := func(v uint64) float64 { return float64(v) / float64(units.One) }
	for key, v := range map[string]float64{
		"funds":     whole(m.TotalFundsRaised),
		"reserve":   whole(m.ReserveBalance),
		"bonds":     float64(m.ActiveBondCount),
		"warrants":  whole(m.TotalWarrantsIssued),
		"equity":    whole(m.TotalEquityIssued),
		"redeemed":  float64(m.TotalBondRedemptions),
		"exercised": float64(m.TotalWarrantsExercised),
	} {
		ch <- prometheus.MustNewConstMetric(c.descs[key], prometheus.GaugeValue, v)
	}
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose Prometheus metrics on the configured listen address",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		e, err := openEnv(true)
		if err != nil {
			return err
		}
		defer e.Close()

		c, _, err := e.clients()
		if err != nil {
			return err
		}
		if err := prometheus.Register(newSaleCollector(c.Sale)); err != nil {
			return err
		}
		sale.ObserveMetrics(e.host, e.dep.Sale)

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv := &http.Server{Addr: cfg.ListenAddr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

		errCh := make(chan error, 1)
		go func() { errCh <- srv.ListenAndServe() }()
		logger.Info("serving metrics", zap.String("addr", cfg.ListenAddr), zap.Stringer("sale", e.dep.Sale))

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	},
}
