package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/conviction-labs/vault-scripts/framework"
)

var watchCmd = &cobra.Command{
	Use:   "watch <Contract> <address>",
	Short: "Log the events a deployed contract emits",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		contractAbi, err := framework.GetABI(cfg.ArtifactsDir(), args[0])
		if err != nil {
			return err
		}
		if !common.IsHexAddress(args[1]) {
			return errInvalidAddress
		}
		addr := common.HexToAddress(args[1])

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		fr := dial(ctx)
		defer fr.Close()

		listener := framework.NewEventListener(log, fr.Chain(), addr, contractAbi)
		return listener.Listen(ctx, func(ev *framework.Event) {
			log.WithField("event", ev.Name).
				WithField("block", ev.BlockNumber).
				WithField("tx", ev.TxHash.Hex()).
				WithFields(ev.Fields).
				Info("Event received")
		})
	},
}
