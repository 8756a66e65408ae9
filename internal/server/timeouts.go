// internal/server/timeouts.go
//
// HTTP server helper with bounded timeouts.
//
//   • ReadHeaderTimeout – abort slow-loris headers (5 s)
//   • ReadTimeout       – bound body upload, multipart images included
//   • WriteTimeout      – cap total response time, SMTP wait included
//   • IdleTimeout       – close keep-alives on idle clients
//
// The values come from the `http` config section so cmd/web does not
// repeat boilerplate.
//

package server

import (
	"net/http"
	"time"

	"github.com/rokibulislampro/mnly-server/internal/config"
)

const readHeaderTimeout = 5 * time.Second

// New constructs an *http.Server for cfg.
func New(cfg config.HTTP, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}
