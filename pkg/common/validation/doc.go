// Package validation provides common validation utilities for configuration
// parameters and call arguments across the uthreads library.
//
// The helpers return *errors.ValidationError values so every usage error
// produced by a constructor or an API entry point has the same shape.
package validation
