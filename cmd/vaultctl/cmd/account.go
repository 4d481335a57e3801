package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conviction-labs/vault-scripts/framework"
)

var flagBalance bool

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Show the account transactions are signed with",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		if !flagBalance {
			key, err := framework.GetAccount(cfg.AccountOptions(accountIndex(), flagAccountID))
			if err != nil {
				return err
			}
			fmt.Println(key.Address().Hex())
			return nil
		}

		ctx := context.Background()
		fr := dial(ctx)
		defer fr.Close()

		balance, err := fr.Balance(ctx, fr.Address())
		if err != nil {
			return err
		}
		fmt.Println(fr.Address().Hex(), balance)
		return nil
	},
}

func init() {
	accountCmd.Flags().BoolVar(&flagBalance, "balance", false, "connect and print the balance in wei")
}
