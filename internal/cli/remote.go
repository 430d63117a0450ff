package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MdSadiqMd/udp-sender/internal/server"
	"github.com/MdSadiqMd/udp-sender/pkg/logging"
	"github.com/MdSadiqMd/udp-sender/pkg/utils"
)

func newRemoteCmd(opts *options) *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "remote <ip> <port> <message>",
		Short: "Ask a running udpsender server to perform the transaction",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if serverURL == "" {
				serverURL = opts.cfg.ServerURL
			}
			client := utils.NewHTTPClient(serverURL, opts.cfg.Timeout()+10*time.Second)
			if err := client.HealthCheck(); err != nil {
				return fmt.Errorf("server %s is not reachable: %w", serverURL, err)
			}

			body, status, err := client.Post("/api/v1/send", server.SendRequest{
				IP:      args[0],
				Port:    args[1],
				Message: args[2],
			})
			if err != nil {
				return err
			}

			var resp struct {
				Result  string   `json:"result"`
				Outcome string   `json:"outcome"`
				Hints   []string `json:"hints"`
			}
			if err := json.Unmarshal(body, &resp); err != nil {
				return fmt.Errorf("decode response (status %d): %w", status, err)
			}
			for _, hint := range resp.Hints {
				logging.LogWarning("%s", hint)
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Result)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "", "server base URL (default from config)")
	return cmd
}
