package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/recipe-genie/server/internal/httpserver"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the conversation API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := configFrom(cmd)
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return withApp(cmd, func(a *app) error {
				srv, err := httpserver.New(httpserver.Config{
					Port:          cfg.Server.Port,
					Mode:          cfg.Server.Mode,
					Environment:   cfg.Environment,
					Conversations: a.runner,
				})
				if err != nil {
					return err
				}
				return srv.Run(ctx)
			})
		},
	}
}
