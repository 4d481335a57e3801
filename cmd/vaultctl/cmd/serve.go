package cmd

import (
	"github.com/spf13/cobra"

	"github.com/conviction-labs/vault-scripts/deployments"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve recorded deployments and contract ABIs over HTTP",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		if err := cfg.Validate(); err != nil {
			log.WithError(err).Fatal("invalid configuration")
		}
		book := deployments.NewBook(cfg.DeploymentsDir())
		srv := deployments.NewServer(log, cfg.ListenAddr(), book, cfg.ArtifactsDir())

		log.Println("listening on", cfg.ListenAddr())
		log.Fatal(srv.StartHTTPServer())
	},
}
