// internal/requestinfo/middleware.go
//
// Enrich attaches a *RequestInfo to every request.  It runs right after the
// request-id middleware so the access log, the rate limiter, and handlers
// all read the same parsed client IP, user agent, and language.

package requestinfo

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rokibulislampro/mnly-server/internal/ua"
)

// forwardHeaders are consulted in order; the first parseable address wins.
var forwardHeaders = []string{"X-Forwarded-For", "X-Real-Ip"}

// Enrich parses the request once and forwards it with the info attached.
func Enrich(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := ClientIP(r)
		info := &RequestInfo{
			UA:          ua.Parse(r.UserAgent()),
			PrimaryLang: primaryLang(r.Header.Get("Accept-Language")),
			Geo:         lookupGeo(ip),
			Timestamp:   time.Now().UTC(),
		}
		if ce := zap.L().Check(zap.DebugLevel, "request info"); ce != nil {
			ce.Write(
				zap.Stringer("ip", ip),
				zap.String("country", info.Geo.CountryISO),
				zap.String("device", info.UA.Device),
				zap.Bool("bot", info.UA.IsBot),
			)
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, info)))
	})
}

// ClientIP returns the caller's address.  Proxy headers take precedence
// over r.RemoteAddr; within X-Forwarded-For the left-most entry is the
// original client.  Nil means nothing parsed.  The headers are client
// controlled, so the result is for logs and geo hints only; anything that
// enforces a limit uses TrustedClientIP.
func ClientIP(r *http.Request) net.IP {
	for _, h := range forwardHeaders {
		for _, part := range strings.Split(r.Header.Get(h), ",") {
			if ip := net.ParseIP(strings.TrimSpace(part)); ip != nil {
				return ip
			}
		}
	}
	host := r.RemoteAddr
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return net.ParseIP(host)
}
