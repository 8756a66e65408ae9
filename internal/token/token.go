// internal/token/token.go
//
// HS256 identity tokens.
//
// Context
// -------
// POST /jwt signs whatever claims the storefront sends (at minimum an
// email) with the shared secret from `auth.token_secret`.  Every token
// expires one hour after issue; there is no refresh and no revocation, so
// expiry is the only way a token stops working.
//
// Notes
// -----
//   - Verify pins HS256 and requires `exp`.
//   - The clock is injectable for tests.
//   - Oxford commas, two spaces after periods.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TTL is the fixed lifetime of an issued token.
const TTL = time.Hour

// ErrInvalid covers bad signatures, malformed input, and expired tokens.
var ErrInvalid = errors.New("token: invalid")

// Claims is the opaque claim set carried by a token.
type Claims map[string]any

// Email returns the "email" claim, or "" when absent.
func (c Claims) Email() string {
	s, _ := c["email"].(string)
	return s
}

// Service issues and verifies tokens.  Safe for concurrent use.
type Service struct {
	secret []byte
	now    func() time.Time
}

// Option tweaks a Service.
type Option func(*Service)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New returns a Service signing with secret.
func New(secret string, opts ...Option) (*Service, error) {
	if secret == "" {
		return nil, errors.New("token: secret is required")
	}
	s := &Service{secret: []byte(secret), now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// registered claims are never copied from the caller.
var registered = []string{"iss", "sub", "aud", "nbf", "jti"}

// Issue signs a copy of claims with iat and a one-hour exp.  Registered
// claims in the input are dropped.
func (s *Service) Issue(claims Claims) (string, error) {
	now := s.now()
	mc := jwt.MapClaims{}
	for k, v := range claims {
		mc[k] = v
	}
	for _, k := range registered {
		delete(mc, k)
	}
	mc["iat"] = jwt.NewNumericDate(now)
	mc["exp"] = jwt.NewNumericDate(now.Add(TTL))

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, mc).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the decoded claims.
func (s *Service) Verify(raw string) (Claims, error) {
	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalid
	}
	return Claims(mc), nil
}
