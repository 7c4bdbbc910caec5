package config

import (
	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Workspace defaults
	v.SetDefault("workspace.root", "")

	// Plugin resolution defaults
	v.SetDefault("plugin.paths", []string{})

	// Install defaults
	v.SetDefault("install.auto", false)
	v.SetDefault("install.timeout_seconds", 300) // package managers can be slow on cold caches
	v.SetDefault("install.dev", true)            // generator plugins are build-time tooling
	v.SetDefault("install.package_manager", "")  // empty = detect
	v.SetDefault("install.registry", "")
}
