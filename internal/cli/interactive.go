package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newInteractiveCmd(opts *options) *cobra.Command {
	var ip, port string

	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Read messages from stdin and send each line as one datagram",
		Long: `Every input line is sent as one datagram to the current destination and the
reply (or timeout) is printed before the next prompt.

  /ip <addr>    change the destination address
  /port <port>  change the destination port
  /quit         leave`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, loop, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer sess.Close()

			out := cmd.OutOrStdout()
			reader := bufio.NewReader(cmd.InOrStdin())
			fmt.Fprintf(out, "Sending from %s. Type a message and hit Enter.\n", sess.Transactor().LocalAddr())

			for {
				fmt.Fprintf(out, "[%s:%s]> ", ip, port)
				line, err := reader.ReadString('\n')
				line = strings.TrimRight(line, "\r\n")

				switch {
				case line == "/quit":
					return nil
				case strings.HasPrefix(line, "/ip "):
					ip = strings.TrimSpace(strings.TrimPrefix(line, "/ip "))
				case strings.HasPrefix(line, "/port "):
					port = strings.TrimSpace(strings.TrimPrefix(line, "/port "))
				case line != "":
					// The message buffer is consumed per send.
					if _, terr := transact(cmd.Context(), sess, loop, out, line, ip, port); terr != nil {
						return terr
					}
				}

				if err != nil {
					fmt.Fprintln(out)
					return nil
				}
			}
		},
	}

	cmd.Flags().StringVar(&ip, "ip", "", "destination IPv4 address")
	cmd.Flags().StringVar(&port, "port", "", "destination port")
	return cmd
}
