// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `internal/config/loader.go` calls `validateStruct` immediately after it
// unmarshals and resolves the merged Koanf tree into a `Config` instance.
// Any tag mismatch or validation error aborts startup, ensuring the
// binary never runs with partial, malformed, or missing configuration.
//
// The session key minimum length (16 bytes) lives in the struct tag, not
// here; this file only owns the singleton instance so the API handlers
// can share it for request-body validation.

package config

import "github.com/go-playground/validator/v10"

//
// validator instance (package-level singleton)
//

var v = validator.New()

//
// public API
//

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	return v.Struct(c)
}

// Validator exposes the shared instance for payload validation in the
// API layer.  The instance is safe for concurrent use.
func Validator() *validator.Validate { return v }
