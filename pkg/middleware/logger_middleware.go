package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/MdSadiqMd/udp-sender/pkg/logging"
)

func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.LogInfo("[HTTP] %s %s %d %v (req=%s)",
				r.Method,
				r.URL.Path,
				ww.Status(),
				time.Since(start),
				middleware.GetReqID(r.Context()))
		}()

		next.ServeHTTP(ww, r)
	})
}
