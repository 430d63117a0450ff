package server

import (
	"context"
	"fmt"
	"time"

	"github.com/MdSadiqMd/udp-sender/pkg/config"
	"github.com/MdSadiqMd/udp-sender/pkg/logging"
	"github.com/MdSadiqMd/udp-sender/pkg/session"
)

// Run opens the session, serves HTTP until ctx is done and then releases
// both. The session is closed on every return path.
func Run(ctx context.Context, cfg *config.Config) error {
	logging.LogConfig("http_addr=%s local_addr=%s timeout=%v buffer=%d full_port_range=%v",
		cfg.HTTPAddr, cfg.Socket.LocalAddr, cfg.Timeout(), cfg.Socket.BufferSize, cfg.Endpoint.FullPortRange)
	if cfg.Endpoint.FullPortRange {
		logging.LogWarning("Full port range enabled: ports above 32767 are accepted")
	}

	sess, err := session.Open(ctx, session.Options{
		UDP:      cfg.UDP(),
		Endpoint: cfg.EndpointOptions(),
	})
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer sess.Close()

	httpServer := NewHTTPServer(cfg.HTTPAddr, sess)

	errChan := make(chan error, 1)
	go func() {
		errChan <- httpServer.Start()
	}()

	select {
	case <-ctx.Done():
		logging.LogInfo("[Main] Shutting down...")
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}

	// In-flight sends finish within one receive window.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeout()+5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	logging.LogSuccess("[Main] Shutdown complete")
	return nil
}
