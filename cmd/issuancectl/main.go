// Command issuancectl operates a bond, warrant and equity issuance on a local
// bbolt-backed host.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bitfsorg/libissuance-go/config"
)

var (
	dataDir  string
	password string
	actAs    string
	verbose  bool

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "issuancectl",
	Short: "Operate a corporate bond, warrant and equity issuance",
	Long: `issuancectl drives four diamonds (bond, warrant, equity and the token sale
engine) stored in <datadir>/issuance.db.

Participants are HD-derived identities; refer to them by roster label
("owner", "alice"), by index ("3") or by 0x address.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig()
		if err != nil {
			return err
		}
		logger, err = buildLogger(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = logger.With(zap.String("run", uuid.NewString()), zap.String("command", cmd.CommandPath()))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func loadConfig() (config.Config, error) {
	c, err := config.LoadConfig(config.ConfigPath(dataDir))
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		c = config.DefaultConfig()
	case err != nil:
		return config.Config{}, err
	}
	c.DataDir = dataDir
	if err := config.ValidateConfig(c); err != nil {
		return config.Config{}, err
	}
	return c, nil
}

func buildLogger(c config.Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	level, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	zc.Level = level
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if c.LogFile != "" {
		zc.OutputPaths = []string{c.LogFile}
	}
	return zc.Build()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "datadir", config.DefaultDataDir(), "Data directory")
	rootCmd.PersistentFlags().StringVar(&password, "password", os.Getenv("ISSUANCE_PASSWORD"), "Wallet password (or set ISSUANCE_PASSWORD)")
	rootCmd.PersistentFlags().StringVar(&actAs, "as", "owner", "Participant sending the transaction")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(initCmd, accountsCmd, depositCmd, clockCmd)
	rootCmd.AddCommand(bondsCmd, warrantsCmd, fundCmd, transferCmd)
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(investorsCmd, statusCmd, facetsCmd, logsCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
