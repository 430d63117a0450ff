package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MdSadiqMd/udp-sender/internal/server"
)

func newServeCmd(opts *options) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API in front of one UDP session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				opts.cfg.HTTPAddr = addr
			}
			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return server.Run(ctx, opts.cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (default :8080)")
	return cmd
}
