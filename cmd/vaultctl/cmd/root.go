package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/conviction-labs/vault-scripts/config"
	"github.com/conviction-labs/vault-scripts/framework"
)

var errInvalidAddress = errors.New("invalid contract address")

var (
	flagConfig       string
	flagNetwork      string
	flagAccountIndex int
	flagAccountID    string

	cfg *config.Config
	log *logrus.Entry
)

var rootCmd = &cobra.Command{
	Use:   "vaultctl",
	Short: "Tooling for the conviction vault contracts",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "",
		"config file (default ./"+config.DefaultFile+")")
	rootCmd.PersistentFlags().StringVarP(&flagNetwork, "network", "n", "",
		"network to use, overrides the config file")
	rootCmd.PersistentFlags().IntVar(&flagAccountIndex, "account-index", -1,
		"development account index, local networks only")
	rootCmd.PersistentFlags().StringVar(&flagAccountID, "id", "",
		"keystore account id")

	rootCmd.AddCommand(abiCmd, accountCmd, fastForwardCmd, serveCmd, watchCmd)

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	var err error
	cfg, err = config.Load(flagConfig)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if flagNetwork != "" {
		cfg.Set("network", flagNetwork)
	}

	log, err = cfg.NewLogger()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func accountIndex() *int {
	if flagAccountIndex < 0 {
		return nil
	}
	return &flagAccountIndex
}

func dial(ctx context.Context) *framework.Framework {
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	fr, err := cfg.Dial(ctx, log, accountIndex(), flagAccountID)
	if err != nil {
		log.WithError(err).Fatal("failed to connect")
	}
	return fr
}
