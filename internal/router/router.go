// internal/router/router.go
//
// HTTP route tree.
//
// Context
// -------
// New assembles the public handler: the shared middleware chain, one chi
// sub-router per component, the liveness text at "/", and the Prometheus
// exposition at "/metrics".  Every dependency arrives through Deps so that
// tests can build the full tree over memstore and fakes.
//
// Middleware order
// ----------------
//
//  1. RequestID          – echo or mint X-Request-Id.
//  2. requestinfo.Enrich – client IP, user agent, and optional geo.
//  3. AccessLog          – one line and two metrics per request.
//  4. Recoverer          – a panic becomes a 500, never a crash.
//  5. CORS               – explicit allow-list with credentials.
//  6. Security           – JSON API response headers.
//  7. ForceHTTPS         – 308 to https when enabled.
//
// Notes
// -----
// • Public write routes (POST /order, POST /review) get their own per-IP
//   limiter each.  The limiter keys on the TCP peer unless the peer is in
//   limits.trusted_proxies.
// • Oxford commas, two spaces after periods.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rokibulislampro/mnly-server/components/about"
	"github.com/rokibulislampro/mnly-server/components/jwt"
	"github.com/rokibulislampro/mnly-server/components/order"
	"github.com/rokibulislampro/mnly-server/components/product"
	"github.com/rokibulislampro/mnly-server/components/review"
	"github.com/rokibulislampro/mnly-server/components/user"
	"github.com/rokibulislampro/mnly-server/internal/checkout"
	"github.com/rokibulislampro/mnly-server/internal/component"
	"github.com/rokibulislampro/mnly-server/internal/config"
	"github.com/rokibulislampro/mnly-server/internal/media"
	"github.com/rokibulislampro/mnly-server/internal/middleware"
	"github.com/rokibulislampro/mnly-server/internal/requestinfo"
	"github.com/rokibulislampro/mnly-server/internal/store"
	"github.com/rokibulislampro/mnly-server/internal/token"
)

// Liveness is the body served at "/".
const Liveness = "Mnly server is running"

// Deps is everything the route tree needs.
type Deps struct {
	Store    *store.Gateway
	Tokens   *token.Service
	Notifier checkout.Notifier
	Uploader media.Uploader
	Config   *config.Config
	Log      *zap.Logger
	// Now stamps reviews; nil means time.Now.
	Now      func() time.Time
}

// New returns the root handler.
func New(d Deps) http.Handler {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	cfg := d.Config
	maxUpload := cfg.Limits.MaxUploadMB << 20

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		requestinfo.Enrich,
		middleware.AccessLog(d.Log),
		chimw.Recoverer,
		middleware.CORS(cfg.CORS.AllowedOrigins),
		middleware.Security,
		middleware.ForceHTTPS(cfg.HTTP.ForceHTTPS),
	)

	trusted, err := requestinfo.ParseTrusted(cfg.Limits.TrustedProxies)
	if err != nil {
		d.Log.Warn("trusted proxies ignored", zap.Error(err))
		trusted = nil
	}
	orderLimit := middleware.NewRateLimiter(cfg.Limits.OrdersPerMinute, cfg.Limits.Burst,
		middleware.WithTrustedProxies(trusted))
	reviewLimit := middleware.NewRateLimiter(cfg.Limits.OrdersPerMinute, cfg.Limits.Burst,
		middleware.WithTrustedProxies(trusted))

	var reg component.Registry
	reg.Register(jwt.New(d.Tokens))
	reg.Register(user.New(d.Store.Users, d.Tokens))
	reg.Register(product.New(d.Store.Products, d.Uploader, cfg.Media.ProductFolder, maxUpload, d.Log))
	reg.Register(order.New(d.Store.Orders, d.Notifier, orderLimit.Handler, d.Log))
	reg.Register(about.New(d.Store.About))
	reg.Register(review.New(d.Store.Reviews, d.Uploader, review.Config{
		Folder:    cfg.Media.ReviewFolder,
		MaxMemory: maxUpload,
		Limit:     reviewLimit.Handler,
		Now:       d.Now,
	}, d.Log))
	reg.Mount(r)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(Liveness))
	})
	r.Handle("/metrics", promhttp.Handler())

	for _, c := range reg.All() {
		d.Log.Debug("component mounted", zap.String("prefix", "/"+c.Name()))
	}
	return r
}
