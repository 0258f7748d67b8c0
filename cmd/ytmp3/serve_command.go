package main

import (
	"github.com/spf13/cobra"

	"github.com/ytget/ytmp3/internal/server"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Accept download jobs over HTTP and stream status on /ws",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			runner, err := ctx.newRunner(cmd.Context())
			if err != nil {
				return err
			}

			addr := cfg.Server.Listen
			if listen != "" {
				addr = listen
			}
			return server.New(addr, runner, cfg.Paths.DownloadDir, ctx.logger).Serve(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "Listen address (overrides config)")
	return cmd
}
