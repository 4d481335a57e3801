package cmd

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/conviction-labs/vault-scripts/vault"
)

var fastForwardCmd = &cobra.Command{
	Use:   "fast-forward <period>",
	Short: "Move a local chain past a lock period (0: 30d, 1: 90d, 2: 180d, 3: 365d)",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return err
		}
		period, err := vault.ParseLockPeriod(n)
		if err != nil {
			return err
		}

		ctx := context.Background()
		fr := dial(ctx)
		defer fr.Close()

		before, after, err := vault.FastForward(ctx, fr, period)
		if err != nil {
			return err
		}
		log.WithField("period", period).WithField("before", before).WithField("after", after).
			Info("Chain time moved")
		return nil
	},
}
