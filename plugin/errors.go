package plugin

import (
	"fmt"
	"strings"

	"github.com/gencraft/gencraft/errors"
)

// NotFoundError indicates every resolution strategy was exhausted without
// producing a plugin. Attempted lists the identifiers and paths tried, in
// order.
type NotFoundError struct {
	Name      string
	Attempted []string
}

func (e *NotFoundError) Error() string {
	if len(e.Attempted) == 0 {
		return fmt.Sprintf("generator plugin not found: %q", e.Name)
	}
	return fmt.Sprintf("generator plugin not found: %q (tried: %s)",
		e.Name, strings.Join(e.Attempted, ", "))
}

// NewNotFoundError builds a NotFoundError with a stack trace attached.
func NewNotFoundError(name string, attempted []string) error {
	return errors.WithStack(&NotFoundError{Name: name, Attempted: attempted})
}

// LoadError indicates a module was found but threw during import, or its
// exports did not satisfy the plugin contract. ExportKeys lists the
// export surface when shape extraction failed.
type LoadError struct {
	Name       string
	ExportKeys []string
	cause      error
}

func (e *LoadError) Error() string {
	msg := fmt.Sprintf("failed to load generator plugin %q", e.Name)
	if len(e.ExportKeys) > 0 {
		msg += fmt.Sprintf(": module does not export a valid plugin (available exports: %s)",
			strings.Join(e.ExportKeys, ", "))
	}
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error { return e.cause }

// NewLoadError wraps cause as a LoadError for the given plugin name.
func NewLoadError(name string, cause error) error {
	return errors.WithStack(&LoadError{Name: name, cause: cause})
}

// NewExportShapeError builds a LoadError for a module whose export
// surface had no usable plugin, listing the keys for diagnostics.
func NewExportShapeError(name string, exportKeys []string) error {
	return errors.WithStack(&LoadError{Name: name, ExportKeys: exportKeys})
}

// InstallError indicates an install command failed, timed out, or passed
// but left the package unresolvable. The loader never surfaces it
// directly; it is converted back into NotFoundError or LoadError at the
// loader boundary.
type InstallError struct {
	Package string
	Manager string
	cause   error
}

func (e *InstallError) Error() string {
	msg := fmt.Sprintf("failed to install %q", e.Package)
	if e.Manager != "" {
		msg += " with " + e.Manager
	}
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

func (e *InstallError) Unwrap() error { return e.cause }

// NewInstallError wraps cause as an InstallError.
func NewInstallError(pkg, manager string, cause error) error {
	return errors.WithStack(&InstallError{Package: pkg, Manager: manager, cause: cause})
}

// ValidationError indicates malformed generation options. Produced by
// generator backends rather than the loader, but part of the same error
// family for a uniform caller surface.
type ValidationError struct {
	Plugin string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid options for generator %q: field %q: %s", e.Plugin, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid options for generator %q: %s", e.Plugin, e.Reason)
}

// NewValidationError builds a ValidationError with a stack trace attached.
func NewValidationError(pluginName, field, reason string) error {
	return errors.WithStack(&ValidationError{Plugin: pluginName, Field: field, Reason: reason})
}

// IsNotFound reports whether err is or wraps a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsLoadError reports whether err is or wraps a *LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}

// IsInstallError reports whether err is or wraps an *InstallError.
func IsInstallError(err error) bool {
	var ie *InstallError
	return errors.As(err, &ie)
}

// IsValidationError reports whether err is or wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
