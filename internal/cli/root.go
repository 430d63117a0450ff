// Package cli implements the udpsender command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MdSadiqMd/udp-sender/pkg/config"
	"github.com/MdSadiqMd/udp-sender/pkg/logging"
)

type options struct {
	cfgFile       string
	timeoutMs     int
	localAddr     string
	fullPortRange bool
	noColor       bool

	cfg *config.Config
}

// NewRootCmd builds a fresh command tree so tests do not share flag state.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "udpsender",
		Short: "Send one UDP datagram and show the reply",
		Long: `udpsender sends a text message as a single UDP datagram to an IPv4
address and port, then waits briefly for one reply datagram.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(opts.cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if cmd.Flags().Changed("timeout-ms") {
				cfg.Socket.TimeoutMillis = opts.timeoutMs
			}
			if opts.localAddr != "" {
				cfg.Socket.LocalAddr = opts.localAddr
			}
			if opts.fullPortRange {
				cfg.Endpoint.FullPortRange = true
			}
			if opts.noColor {
				cfg.NoColor = true
			}
			logging.SetColor(!cfg.NoColor)
			logging.SetOutput(cmd.ErrOrStderr(), cmd.ErrOrStderr())

			opts.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "JSON or YAML config file")
	root.PersistentFlags().IntVar(&opts.timeoutMs, "timeout-ms", 0, "receive timeout in milliseconds (default 2000)")
	root.PersistentFlags().StringVar(&opts.localAddr, "local-addr", "", "local UDP bind address (default 0.0.0.0:0)")
	root.PersistentFlags().BoolVar(&opts.fullPortRange, "full-port-range", false, "accept ports up to 65535 instead of 32767")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored log output")

	root.AddCommand(
		newSendCmd(opts),
		newInteractiveCmd(opts),
		newRemoteCmd(opts),
		newServeCmd(opts),
	)
	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
