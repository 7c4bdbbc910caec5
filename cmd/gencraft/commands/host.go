package commands

import (
	"os"
	"path/filepath"
	"time"

	"github.com/gencraft/gencraft/config"
	"github.com/gencraft/gencraft/logger"
	"github.com/gencraft/gencraft/plugin"
	"github.com/gencraft/gencraft/plugin/npm"
)

// host bundles the per-invocation plugin resolution context. The
// registry, loader and installer are constructed once per command and
// passed down instead of living in package-level state.
type host struct {
	cfg       *config.Config
	root      string
	registry  *plugin.Registry
	loader    *plugin.Loader
	installer *npm.Installer
}

// newHost wires the resolution subsystem from configuration. assumeYes
// suppresses install prompts for this invocation (--yes).
func newHost(rootOverride string, assumeYes bool) (*host, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	root := workspaceRoot(cfg, rootOverride)
	env := plugin.SystemEnvironment{}

	installer := npm.NewInstaller(npm.InstallerConfig{
		Root:      root,
		Auto:      cfg.Install.Auto,
		AssumeYes: assumeYes,
		Manager:   cfg.Install.PackageManager,
		Registry:  cfg.Install.Registry,
		Timeout:   time.Duration(cfg.Install.TimeoutSeconds) * time.Second,
	}, env, logger.Logger)

	registry := plugin.NewRegistry(logger.Logger)
	loader := plugin.NewLoader(registry, npm.NewImporter(logger.Logger), env, logger.Logger,
		plugin.WithInstaller(installer),
		plugin.WithAliases(cfg.Plugin.Aliases),
		plugin.WithLocalPaths(cfg.Plugin.Paths),
	)

	return &host{
		cfg:       cfg,
		root:      root,
		registry:  registry,
		loader:    loader,
		installer: installer,
	}, nil
}

// workspaceRoot picks the workspace root: explicit flag, configured
// root, the directory holding the project config, then the working
// directory.
func workspaceRoot(cfg *config.Config, override string) string {
	if override != "" {
		return override
	}
	if cfg.Workspace.Root != "" {
		return cfg.Workspace.Root
	}
	if path := config.FindProjectConfig(); path != "" {
		return filepath.Dir(path)
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}
