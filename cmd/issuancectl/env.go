package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bitfsorg/libissuance-go/account"
	"github.com/bitfsorg/libissuance-go/arena"
	"github.com/bitfsorg/libissuance-go/diamond"
	"github.com/bitfsorg/libissuance-go/issuance"
	"github.com/bitfsorg/libissuance-go/wallet"
)

const dbFile = "issuance.db"

var (
	errNoPassword = errors.New("wallet password required (--password or ISSUANCE_PASSWORD)")
	errNotRegtest = errors.New("only available on regtest")
)

// env is everything a command needs, opened from the data directory.
type env struct {
	db     *arena.Bolt
	host   *diamond.Host
	wallet *wallet.Wallet
	roster *wallet.Roster
	dep    *issuance.Deployment
}

// clockSpace holds the regtest clock offset in the host arena.
const clockSpace = "issuancectl.clock"

var keyClockOffset = arena.Key("offset")

type offsetClock struct{ offset time.Duration }

func (c offsetClock) Now() time.Time { return time.Now().Add(c.offset) }

func readClockOffset(a arena.Arena) (time.Duration, error) {
	var secs uint64
	err := a.View(func(tx arena.Tx) error {
		s, err := tx.Space(account.Zero, clockSpace)
		if err != nil {
			return err
		}
		secs, err = arena.GetUint64(s, keyClockOffset)
		return err
	})
	return time.Duration(secs) * time.Second, err
}

func writeClockOffset(ctx context.Context, h *diamond.Host, d time.Duration) error {
	return h.Update(ctx, func(tx arena.Tx) error {
		s, err := tx.Space(account.Zero, clockSpace)
		if err != nil {
			return err
		}
		return arena.PutUint64(s, keyClockOffset, uint64(d/time.Second))
	})
}

// openEnv opens the database, wallet and roster. With deployed set it also
// loads the deployment record.
func openEnv(deployed bool) (*env, error) {
	if password == "" {
		return nil, errNoPassword
	}
	seed, err := wallet.OpenSeedFile(wallet.SeedPath(cfg.DataDir), password)
	if err != nil {
		return nil, err
	}
	w, err := wallet.NewWallet(seed, cfg.Network)
	if err != nil {
		return nil, err
	}
	roster, err := wallet.LoadRoster(wallet.RosterPath(cfg.DataDir))
	if err != nil {
		return nil, err
	}

	db, err := arena.OpenBolt(filepath.Join(cfg.DataDir, dbFile))
	if err != nil {
		return nil, err
	}
	offset, err := readClockOffset(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	h := diamond.NewHost(db, diamond.WithClock(offsetClock{offset}), diamond.WithLogger(logger))
	if err := issuance.DeployFacets(h); err != nil {
		db.Close()
		return nil, err
	}

	e := &env{db: db, host: h, wallet: w, roster: roster}
	if deployed {
		e.dep, err = issuance.Load(db)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: run issuancectl init first", err)
		}
	}
	logger.Debug("environment opened", zap.String("datadir", cfg.DataDir), zap.Duration("clockOffset", offset))
	return e, nil
}

func (e *env) Close() error { return e.db.Close() }

// resolve turns a label, index or 0x address into an address.
func (e *env) resolve(ref string) (account.Address, error) {
	if strings.HasPrefix(ref, "0x") {
		return account.ParseAddress(ref)
	}
	idx, err := e.roster.Resolve(ref)
	if err != nil {
		return account.Zero, err
	}
	return e.wallet.Address(idx)
}

// diamondRef resolves bond, warrant, equity, sale or an address.
func (e *env) diamondRef(ref string) (account.Address, error) {
	switch ref {
	case "bond":
		return e.dep.Bond, nil
	case "warrant":
		return e.dep.Warrant, nil
	case "equity":
		return e.dep.Equity, nil
	case "sale":
		return e.dep.Sale, nil
	}
	return e.resolve(ref)
}

// clients returns the deployment clients acting as the --as participant.
func (e *env) clients() (issuance.Clients, account.Address, error) {
	from, err := e.resolve(actAs)
	if err != nil {
		return issuance.Clients{}, account.Zero, err
	}
	return e.dep.Clients(e.host, from), from, nil
}

func withEnv(deployed bool, fn func(ctx context.Context, e *env) error) error {
	e, err := openEnv(deployed)
	if err != nil {
		return err
	}
	defer e.Close()
	return fn(context.Background(), e)
}

func printReceipt(w io.Writer, r *diamond.Receipt) {
	fmt.Fprintf(w, "tx %s at %s\n", r.TxID, time.Unix(int64(r.Timestamp), 0).UTC().Format(time.RFC3339))
	for _, l := range r.Logs {
		printLog(w, l)
	}
}

func printLog(w io.Writer, l diamond.Log) {
	attrs := make([]string, 0, len(l.Attrs))
	for _, a := range l.Attrs {
		attrs = append(attrs, a.Key+"="+a.Value)
	}
	fmt.Fprintf(w, "  #%d %s %s %s\n", l.Index, l.Emitter, l.Name, strings.Join(attrs, " "))
}
