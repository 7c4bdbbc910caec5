// Package errors provides error handling for gencraft.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Sentinel marking for cheap classification across package boundaries
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Classify without string matching
//	if errors.Is(err, errors.ErrModuleNotFound) {
//	    // escalate to installation
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	"strings"

	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint           = crdb.WithHint
	WithHintf          = crdb.WithHintf
	WithDetail         = crdb.WithDetail
	WithDetailf        = crdb.WithDetailf
	WithSecondaryError = crdb.WithSecondaryError
)

// Error inspection
var (
	Is            = crdb.Is
	IsAny         = crdb.IsAny
	As            = crdb.As
	Unwrap        = crdb.Unwrap
	UnwrapOnce    = crdb.UnwrapOnce
	UnwrapAll     = crdb.UnwrapAll
	Mark          = crdb.Mark
	GetAllHints   = crdb.GetAllHints
	GetAllDetails = crdb.GetAllDetails
	FlattenHints  = crdb.FlattenHints
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Common sentinel errors for use across gencraft.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrModuleNotFound indicates a package identifier could not be resolved
	// to an importable module. This is the signature that makes the plugin
	// loader escalate to installation instead of failing outright.
	ErrModuleNotFound = New("module not found")

	// ErrInstallDeclined indicates the user (or a non-interactive session)
	// declined an installation prompt.
	ErrInstallDeclined = New("installation declined")

	// ErrTimeout indicates an operation timed out
	ErrTimeout = New("operation timed out")

	// ErrInvalidConfig indicates the configuration is malformed or invalid
	ErrInvalidConfig = New("invalid configuration")
)

// moduleNotFoundSignatures are the resolution-failure message shapes
// produced by the package-manager runtimes themselves. Errors surfaced
// from child processes or foreign tooling classify the same way as our
// own marked errors.
var moduleNotFoundSignatures = []string{
	"module_not_found",
	"err_module_not_found",
	"cannot find module",
	"cannot find package",
}

// IsModuleNotFound checks if an error is or wraps ErrModuleNotFound,
// or carries a recognized module-not-found message signature.
func IsModuleNotFound(err error) bool {
	if err == nil {
		return false
	}
	if Is(err, ErrModuleNotFound) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, sig := range moduleNotFoundSignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}

// MarkModuleNotFound attaches the module-not-found signature to err.
func MarkModuleNotFound(err error) error {
	if err == nil {
		return nil
	}
	return Mark(err, ErrModuleNotFound)
}

// IsInstallDeclined checks if an error is or wraps ErrInstallDeclined
func IsInstallDeclined(err error) bool {
	return err != nil && Is(err, ErrInstallDeclined)
}

// IsTimeout checks if an error is or wraps ErrTimeout
func IsTimeout(err error) bool {
	return err != nil && Is(err, ErrTimeout)
}
