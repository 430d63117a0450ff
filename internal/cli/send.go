package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/MdSadiqMd/udp-sender/pkg/logging"
	"github.com/MdSadiqMd/udp-sender/pkg/session"
)

func newSendCmd(opts *options) *cobra.Command {
	var ip, port, message string

	cmd := &cobra.Command{
		Use:   "send [ip port message]",
		Short: "Send one datagram and wait for one reply",
		Example: `  udpsender send 192.168.1.5 9000 hello
  udpsender send --ip 255.255.255.255 --port 9000 --message discover`,
		Args: cobra.MaximumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				ip = args[0]
			}
			if len(args) > 1 {
				port = args[1]
			}
			if len(args) > 2 {
				message = args[2]
			}

			sess, loop, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer sess.Close()

			_, err = transact(cmd.Context(), sess, loop, cmd.OutOrStdout(), message, ip, port)
			return err
		},
	}

	cmd.Flags().StringVar(&ip, "ip", "", "destination IPv4 address")
	cmd.Flags().StringVar(&port, "port", "", "destination port")
	cmd.Flags().StringVarP(&message, "message", "m", "", "message text")
	return cmd
}

// openSession creates a session whose results are observed on the goroutine
// that calls loop.Run.
func openSession(ctx context.Context, opts *options) (*session.Session, *session.Loop, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	loop := session.NewLoop()
	sess, err := session.Open(ctx, session.Options{
		UDP:        opts.cfg.UDP(),
		Endpoint:   opts.cfg.EndpointOptions(),
		Dispatcher: loop,
	})
	if err != nil {
		return nil, nil, err
	}
	return sess, loop, nil
}

// transact runs one transaction and drains the loop on this goroutine until
// its result has been printed.
func transact(ctx context.Context, sess *session.Session, loop *session.Loop, out io.Writer, message, ip, port string) (session.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var result session.Result
	err := sess.Submit(message, ip, port, func(r session.Result) {
		result = r
		for _, hint := range r.Hints {
			logging.LogWarning("%s", hint)
		}
		fmt.Fprintln(out, r.Text)
		cancel()
	})
	if err != nil {
		return session.Result{}, err
	}

	loop.Run(ctx)
	if result.ID == 0 {
		// Cancelled before the transaction reported back.
		return session.Result{}, ctx.Err()
	}
	return result, nil
}
