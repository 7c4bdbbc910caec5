package config

import (
	"github.com/gencraft/gencraft/errors"
)

// Config represents the core gencraft configuration
type Config struct {
	Workspace WorkspaceConfig `mapstructure:"workspace"`
	Plugin    PluginConfig    `mapstructure:"plugin"`
	Install   InstallConfig   `mapstructure:"install"`
}

// WorkspaceConfig locates the workspace the tool operates on
type WorkspaceConfig struct {
	// Root is the workspace root directory. Empty means the directory
	// containing the project config file, or the current directory.
	Root string `mapstructure:"root"`
}

// PluginConfig configures generator plugin resolution
type PluginConfig struct {
	// Paths are additional local directories probed for plugin manifests
	// in developer mode, ahead of the built-in fallback locations.
	Paths []string `mapstructure:"paths"`

	// Aliases extends the built-in short-name -> package identifier map.
	// Entries here shadow the compiled-in table.
	Aliases map[string]string `mapstructure:"aliases"`
}

// InstallConfig configures automatic installation of missing plugin packages
type InstallConfig struct {
	// Auto enables installation without prompting (outside CI)
	Auto bool `mapstructure:"auto"`

	// PackageManager overrides detection: npm, yarn, pnpm or bun
	PackageManager string `mapstructure:"package_manager"`

	// TimeoutSeconds bounds a single install command (default: 300)
	TimeoutSeconds int `mapstructure:"timeout_seconds"`

	// Dev installs plugin packages as dev dependencies (default: true)
	Dev bool `mapstructure:"dev"`

	// Registry is passed through to the package manager when set
	Registry string `mapstructure:"registry"`
}

// Validate checks configuration values that have a closed domain.
func (c *Config) Validate() error {
	switch c.Install.PackageManager {
	case "", "npm", "yarn", "pnpm", "bun":
	default:
		return errors.Wrapf(errors.ErrInvalidConfig,
			"install.package_manager %q (expected npm, yarn, pnpm or bun)", c.Install.PackageManager)
	}
	if c.Install.TimeoutSeconds < 0 {
		return errors.Wrapf(errors.ErrInvalidConfig,
			"install.timeout_seconds %d must not be negative", c.Install.TimeoutSeconds)
	}
	return nil
}
