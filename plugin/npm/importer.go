package npm

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"

	"github.com/gencraft/gencraft/errors"
	"github.com/gencraft/gencraft/plugin"
)

// Manifest describes how a package exposes its generator plugin: the
// export slot, the command to run, and an optional option schema. It
// lives either in a gencraft.plugin.toml next to the package.json or in
// a "gencraft" stanza inside the package.json itself.
type Manifest struct {
	Name    string                   `toml:"name" json:"name"`
	Version string                   `toml:"version" json:"version"`
	Export  string                   `toml:"export" json:"export"`
	Run     string                   `toml:"run" json:"run"`
	Schema  map[string]ManifestField `toml:"schema" json:"schema"`
}

// ManifestField mirrors plugin.SchemaField for manifest serialization.
type ManifestField struct {
	Type        string `toml:"type" json:"type"`
	Description string `toml:"description" json:"description"`
	Default     string `toml:"default" json:"default"`
	Required    bool   `toml:"required" json:"required"`
}

// validExports are the export slots a manifest may target; they mirror
// the loader's export strategies.
var validExports = map[string]bool{
	"default":      true,
	"createPlugin": true,
	"plugin":       true,
	"Plugin":       true,
}

// Importer resolves package identifiers against the workspace's
// node_modules chain and synthesizes a module export surface from the
// package's plugin manifest. It is the production plugin.Importer.
type Importer struct {
	logger *zap.SugaredLogger
}

var _ plugin.Importer = (*Importer)(nil)

// NewImporter creates the production importer.
func NewImporter(logger *zap.SugaredLogger) *Importer {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Importer{logger: logger}
}

// Import resolves specifier under root and returns the package's export
// surface. Packages without a plugin manifest still produce a module —
// their package.json top-level keys — so the loader can report the
// available exports.
func (im *Importer) Import(ctx context.Context, specifier, root string) (plugin.Module, error) {
	dir, err := ResolvePackageDir(root, specifier)
	if err != nil {
		return nil, err
	}

	// A standalone manifest next to package.json wins over the stanza.
	manifestPath := filepath.Join(dir, plugin.ManifestFileName)
	if _, err := os.Stat(manifestPath); err == nil {
		return im.ImportFile(ctx, manifestPath)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read package.json for %s", specifier)
	}

	var keys map[string]any
	if err := json.Unmarshal(raw, &keys); err != nil {
		return nil, errors.Wrapf(err, "malformed package.json for %s", specifier)
	}

	stanza, ok := keys["gencraft"]
	if !ok {
		// No plugin surface; expose the raw keys for diagnostics.
		return plugin.Module(keys), nil
	}

	stanzaRaw, err := json.Marshal(stanza)
	if err != nil {
		return nil, errors.Wrapf(err, "malformed gencraft stanza in %s", specifier)
	}
	var m Manifest
	if err := json.Unmarshal(stanzaRaw, &m); err != nil {
		return nil, errors.Wrapf(err, "malformed gencraft stanza in %s", specifier)
	}

	// Inherit package identity when the stanza leaves it out.
	if m.Name == "" {
		if name, _ := keys["name"].(string); name != "" {
			m.Name = plugin.ShortName(name)
		}
	}
	if m.Version == "" {
		m.Version, _ = keys["version"].(string)
	}

	return im.moduleFromManifest(dir, m)
}

// ImportFile loads a module directly from a manifest file (or a
// directory containing one), bypassing package resolution. Missing files
// classify as module-not-found.
func (im *Importer) ImportFile(ctx context.Context, path string) (plugin.Module, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.MarkModuleNotFound(errors.Wrapf(err, "cannot find module at %s", path))
	}
	if info.IsDir() {
		path = filepath.Join(path, plugin.ManifestFileName)
		if _, err := os.Stat(path); err != nil {
			return nil, errors.MarkModuleNotFound(errors.Wrapf(err, "cannot find module at %s", path))
		}
	}

	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, errors.Wrapf(err, "malformed plugin manifest %s", path)
	}

	return im.moduleFromManifest(filepath.Dir(path), m)
}

// moduleFromManifest builds the export surface: an exec-backed plugin
// placed in the manifest's export slot.
func (im *Importer) moduleFromManifest(dir string, m Manifest) (plugin.Module, error) {
	if m.Name == "" {
		return nil, errors.Newf("plugin manifest in %s has no name", dir)
	}
	if m.Run == "" {
		return nil, errors.Newf("plugin manifest for %q has no run command", m.Name)
	}

	exportKey := m.Export
	if exportKey == "" {
		exportKey = "default"
	}
	if !validExports[exportKey] {
		return nil, errors.Newf("plugin manifest for %q targets unknown export %q", m.Name, m.Export)
	}

	version := m.Version
	if version != "" {
		if _, err := semver.NewVersion(version); err != nil {
			im.logger.Warnw("Plugin manifest has invalid version, ignoring",
				"plugin", m.Name, "version", version, "error", err)
			version = ""
		}
	}

	schema := make(map[string]plugin.SchemaField, len(m.Schema))
	for name, f := range m.Schema {
		schema[name] = plugin.SchemaField{
			Type:        f.Type,
			Description: f.Description,
			Default:     f.Default,
			Required:    f.Required,
		}
	}

	p := NewExecPlugin(m.Name, version, dir, m.Run, schema, im.logger)

	if exportKey == "createPlugin" {
		return plugin.Module{exportKey: plugin.Factory(func() plugin.Plugin { return p })}, nil
	}
	return plugin.Module{exportKey: p}, nil
}
