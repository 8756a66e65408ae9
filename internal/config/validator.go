// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `internal/config/loader.go` calls `validateStruct` right after defaults
// are applied.  Any tag mismatch aborts startup, so the binary never runs
// with a missing token secret, an unusable mail relay, or a database
// driver nobody implemented.
//
// Beyond the built-in rules we register `origin`, which accepts a bare
// scheme://host[:port] value.  CORS compares origins literally, so a
// trailing slash or path in config would silently block the storefront.
//
// Notes
// -----
//   • Oxford commas, two spaces after periods.

package config

import (
	"net/url"

	"github.com/go-playground/validator/v10"
)

//
// validator instance (package-level singleton)
//

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	_ = val.RegisterValidation("origin", func(fl validator.FieldLevel) bool {
		u, err := url.Parse(fl.Field().String())
		if err != nil || u.Scheme == "" || u.Host == "" {
			return false
		}
		return u.Path == "" && u.RawQuery == "" && u.Fragment == ""
	})
	return val
}

//
// public API
//

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	return v.Struct(c)
}
