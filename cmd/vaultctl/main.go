package main

import "github.com/conviction-labs/vault-scripts/cmd/vaultctl/cmd"

func main() {
	cmd.Execute()
}
