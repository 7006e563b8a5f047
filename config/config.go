// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

// Package config loads and saves the issuancectl configuration file: plain
// "key = value" lines, "#" comments, unknown keys ignored.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bitfsorg/libissuance-go/account"
	"github.com/bitfsorg/libissuance-go/issuance"
	"github.com/bitfsorg/libissuance-go/sale"
	"github.com/bitfsorg/libissuance-go/units"
)

// Config holds the node settings and the instrument terms used by init.
// Monetary fields are in base units.
type Config struct {
	DataDir    string
	ListenAddr string
	Network    string
	LogLevel   string
	LogFile    string

	BondMaturityDays      uint64
	BondYieldBasisPoints  uint64
	WarrantStrike         uint64
	WarrantPrice          uint64
	WarrantExpirationDays uint64
	AuthorizedShares      uint64
	MinBondPurchase       uint64
	MaxBondPurchase       uint64
	MinWarrantPurchase    uint64
	MaxWarrantPurchase    uint64
	InitialReserve        uint64
}

// DefaultDataDir returns ~/.issuance, or .issuance when the home directory
// cannot be determined.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".issuance"
	}
	return filepath.Join(home, ".issuance")
}

// ConfigPath returns the configuration file path inside dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "config")
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	p := issuance.DefaultParams(account.Zero)
	return Config{
		DataDir:    DefaultDataDir(),
		ListenAddr: ":9464",
		Network:    "regtest",
		LogLevel:   "info",

		BondMaturityDays:      p.BondMaturityDays,
		BondYieldBasisPoints:  p.BondYieldBasisPoints,
		WarrantStrike:         p.WarrantStrikePrice,
		WarrantPrice:          p.WarrantPrice,
		WarrantExpirationDays: p.WarrantExpirationDays,
		AuthorizedShares:      p.AuthorizedShares,
		MinBondPurchase:       p.BondLimits.Min,
		MaxBondPurchase:       p.BondLimits.Max,
		MinWarrantPurchase:    p.WarrantLimits.Min,
		MaxWarrantPurchase:    p.WarrantLimits.Max,
	}
}

// Params converts the instrument terms into deployment parameters with owner
// as both owner and treasury.
func (c Config) Params(owner account.Address) issuance.Params {
	p := issuance.DefaultParams(owner)
	p.BondMaturityDays = c.BondMaturityDays
	p.BondYieldBasisPoints = c.BondYieldBasisPoints
	p.WarrantStrikePrice = c.WarrantStrike
	p.WarrantPrice = c.WarrantPrice
	p.WarrantExpirationDays = c.WarrantExpirationDays
	p.AuthorizedShares = c.AuthorizedShares
	p.BondLimits = sale.Limits{Min: c.MinBondPurchase, Max: c.MaxBondPurchase}
	p.WarrantLimits = sale.Limits{Min: c.MinWarrantPurchase, Max: c.MaxWarrantPurchase}
	p.InitialReserve = c.InitialReserve
	return p
}

// LoadConfig reads path on top of DefaultConfig. A missing file yields
// ErrConfigNotFound.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return Config{}, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	cfg := DefaultConfig()
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, err := parseKeyValue(line)
		if err != nil {
			return Config{}, fmt.Errorf("%w: line %d: %q", ErrInvalidConfigLine, lineNo, line)
		}
		if err := cfg.set(key, value); err != nil {
			return Config{}, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return cfg, nil
}

// parseKeyValue splits on the first '='.
func parseKeyValue(line string) (string, string, error) {
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return "", "", ErrInvalidConfigLine
	}
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return "", "", ErrInvalidConfigLine
	}
	return key, strings.TrimSpace(value), nil
}

func (c *Config) set(key, value string) error {
	var (
		dst    *uint64
		amount bool
	)
	switch key {
	case "datadir":
		c.DataDir = value
	case "listen":
		c.ListenAddr = value
	case "network":
		c.Network = value
	case "loglevel":
		c.LogLevel = value
	case "logfile":
		c.LogFile = value
	case "bond.maturitydays":
		dst = &c.BondMaturityDays
	case "bond.yieldbps":
		dst = &c.BondYieldBasisPoints
	case "warrant.expirationdays":
		dst = &c.WarrantExpirationDays
	case "warrant.strike":
		dst, amount = &c.WarrantStrike, true
	case "warrant.price":
		dst, amount = &c.WarrantPrice, true
	case "equity.authorized":
		dst, amount = &c.AuthorizedShares, true
	case "sale.minbond":
		dst, amount = &c.MinBondPurchase, true
	case "sale.maxbond":
		dst, amount = &c.MaxBondPurchase, true
	case "sale.minwarrant":
		dst, amount = &c.MinWarrantPurchase, true
	case "sale.maxwarrant":
		dst, amount = &c.MaxWarrantPurchase, true
	case "sale.initialreserve":
		dst, amount = &c.InitialReserve, true
	}
	if dst == nil {
		return nil
	}

	var (
		v   uint64
		err error
	)
	if amount {
		v, err = units.ParseAmount(value)
	} else {
		v, err = strconv.ParseUint(value, 10, 64)
	}
	if err != nil {
		return fmt.Errorf("%w: %s = %q: %w", ErrInvalidValue, key, value, err)
	}
	*dst = v
	return nil
}

// SaveConfig writes cfg to path, creating parent directories.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("# Issuance Configuration\n\n")
	fmt.Fprintf(&b, "datadir = %s\n", cfg.DataDir)
	fmt.Fprintf(&b, "listen = %s\n", cfg.ListenAddr)
	fmt.Fprintf(&b, "network = %s\n", cfg.Network)
	fmt.Fprintf(&b, "loglevel = %s\n", cfg.LogLevel)
	fmt.Fprintf(&b, "logfile = %s\n", cfg.LogFile)

	b.WriteString("\n# Instrument terms (amounts in whole units)\n")
	fmt.Fprintf(&b, "bond.maturitydays = %d\n", cfg.BondMaturityDays)
	fmt.Fprintf(&b, "bond.yieldbps = %d\n", cfg.BondYieldBasisPoints)
	fmt.Fprintf(&b, "warrant.strike = %s\n", units.FormatAmount(cfg.WarrantStrike))
	fmt.Fprintf(&b, "warrant.price = %s\n", units.FormatAmount(cfg.WarrantPrice))
	fmt.Fprintf(&b, "warrant.expirationdays = %d\n", cfg.WarrantExpirationDays)
	fmt.Fprintf(&b, "equity.authorized = %s\n", units.FormatAmount(cfg.AuthorizedShares))
	fmt.Fprintf(&b, "sale.minbond = %s\n", units.FormatAmount(cfg.MinBondPurchase))
	fmt.Fprintf(&b, "sale.maxbond = %s\n", units.FormatAmount(cfg.MaxBondPurchase))
	fmt.Fprintf(&b, "sale.minwarrant = %s\n", units.FormatAmount(cfg.MinWarrantPurchase))
	fmt.Fprintf(&b, "sale.maxwarrant = %s\n", units.FormatAmount(cfg.MaxWarrantPurchase))
	fmt.Fprintf(&b, "sale.initialreserve = %s\n", units.FormatAmount(cfg.InitialReserve))

	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
