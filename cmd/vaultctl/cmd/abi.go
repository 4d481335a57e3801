package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conviction-labs/vault-scripts/framework"
)

var abiCmd = &cobra.Command{
	Use:   "abi <Contract>",
	Short: "Print the ABI of a compiled contract",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		artifact, err := framework.ReadArtifact(cfg.ArtifactsDir(), args[0])
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(artifact.RawAbi, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}
