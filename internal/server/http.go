package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MdSadiqMd/udp-sender/pkg/logging"
	customMiddleware "github.com/MdSadiqMd/udp-sender/pkg/middleware"
	"github.com/MdSadiqMd/udp-sender/pkg/session"
)

// HTTPServer exposes one session to remote callers. Each send request holds
// its connection open until the transaction finishes.
type HTTPServer struct {
	addr       string
	session    *session.Session
	httpServer *http.Server
	startTime  time.Time
}

func NewHTTPServer(addr string, sess *session.Session) *HTTPServer {
	s := &HTTPServer{
		addr:      addr,
		session:   sess,
		startTime: time.Now(),
	}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *HTTPServer) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.LoggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(customMiddleware.CorsMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics", s.handleMetrics)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/validate", s.handleValidate)
		r.Post("/send", s.handleSend)
	})
	return r
}

// Start blocks until the server stops. A clean Shutdown returns nil.
func (s *HTTPServer) Start() error {
	logging.LogInfo("[HTTP] Server listening on %s", s.addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
