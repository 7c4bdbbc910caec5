// Package plugin provides generator plugin resolution for gencraft.
//
// A generator plugin is a code-generation backend invoked by name. The
// caller never needs to know whether the backend is bundled into the
// binary, already installed in the workspace, or must be fetched on
// demand with the workspace's package manager.
//
// Architecture:
//   - Registry holds plugins that are already resolved (bundled or
//     previously loaded)
//   - Loader turns a bare name into a validated plugin, trying resolution
//     strategies in a fixed priority order
//   - The npm subpackage supplies the production Importer and the
//     auto-installer
//
// Example backends:
//   - openapi-tools: the OpenAPI Generator CLI
//   - hey-api: the Hey API TypeScript client generator
//   - orval: the Orval client generator
package plugin

import (
	"context"
	"time"
)

// Plugin defines the interface every generator backend must satisfy.
// A name and a generate operation are the minimum contract; absence of
// either disqualifies a candidate from being treated as a plugin.
type Plugin interface {
	// Name returns the unique, non-empty plugin identifier
	Name() string

	// Generate runs the backend against the given options
	Generate(ctx context.Context, opts GenerateOptions) error
}

// Validator is an optional interface for plugins that can check
// generation options before any work happens. Malformed options are
// reported as *ValidationError.
type Validator interface {
	Plugin

	Validate(ctx context.Context, opts GenerateOptions) error
}

// SchemaProvider is an optional interface for plugins that expose a
// property schema, enabling hosts to render option forms or docs.
type SchemaProvider interface {
	Plugin

	Schema() map[string]SchemaField
}

// GenerateOptions carries the execution context a backend needs.
// The host build tool owns these values; this subsystem only passes
// them through.
type GenerateOptions struct {
	// Root is the workspace root directory
	Root string

	// Project is the workspace project being generated for
	Project string

	// InputSpec is the path to the source document (e.g. an OpenAPI file)
	InputSpec string

	// OutputDir is where generated files land
	OutputDir string

	// Options are backend-specific settings
	Options map[string]any
}

// SchemaField describes a single generation option for UI or docs.
type SchemaField struct {
	Type        string // "string", "number", "boolean", "array"
	Description string // Human-readable description
	Default     string // Default value as string
	Required    bool   // Whether the field is required
}

// Source identifies where a resolved plugin came from.
type Source string

const (
	// SourceBundled means the plugin was compiled into the host binary
	SourceBundled Source = "bundled"
	// SourceNpm means the plugin was resolved from an installed package
	SourceNpm Source = "npm"
	// SourceLocal means the plugin was loaded from a developer-mode path
	SourceLocal Source = "local"
)

// DiscoveryResult describes a validated plugin candidate.
type DiscoveryResult struct {
	// Descriptor is the validated plugin
	Descriptor Plugin

	// Source is where the plugin was found
	Source Source

	// Version is the plugin's semantic version, when known
	Version string

	// Path is the on-disk location the plugin was loaded from, when known
	Path string
}

// Importer resolves a package identifier or file path to a module's
// export surface. The host runtime's package-resolution algorithm is a
// black box behind this interface; implementations signal resolution
// failure with errors.ErrModuleNotFound so the loader can distinguish
// "not installed" from "broken".
type Importer interface {
	// Import resolves a package identifier against the workspace rooted
	// at root and returns its export surface.
	Import(ctx context.Context, specifier, root string) (Module, error)

	// ImportFile loads a module directly from a file location, bypassing
	// package resolution. Used for developer-mode fallback paths.
	ImportFile(ctx context.Context, path string) (Module, error)
}

// Installer fetches a missing plugin package with the workspace's
// package manager. Implementations gate on CI and interactivity; a
// declined or failed install is an error, never a crash.
type Installer interface {
	Install(ctx context.Context, pkg string, opts InstallOptions) error
}

// InstallOptions controls a single install invocation.
type InstallOptions struct {
	// Dev installs the package as a dev dependency
	Dev bool

	// Manager overrides package-manager detection ("npm", "yarn",
	// "pnpm", "bun"); empty means detect
	Manager string

	// Timeout bounds the install command; zero means the installer's
	// default
	Timeout time.Duration

	// Force installs even when the package already resolves
	Force bool
}
