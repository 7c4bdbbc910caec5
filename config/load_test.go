package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gencraft/gencraft/errors"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ProjectFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	t.Run("full config", func(t *testing.T) {
		dir := t.TempDir()
		path := writeConfig(t, dir, `
[workspace]
root = "/srv/app"

[plugin]
paths = ["packages/local"]

[plugin.aliases]
"my-gen" = "@acme/plugin-my-gen"

[install]
auto = true
package_manager = "pnpm"
timeout_seconds = 120
dev = false
registry = "https://registry.example.com"
`)

		cfg, err := LoadFromFile(path)
		require.NoError(t, err)

		assert.Equal(t, "/srv/app", cfg.Workspace.Root)
		assert.Equal(t, []string{"packages/local"}, cfg.Plugin.Paths)
		assert.Equal(t, "@acme/plugin-my-gen", cfg.Plugin.Aliases["my-gen"])
		assert.True(t, cfg.Install.Auto)
		assert.Equal(t, "pnpm", cfg.Install.PackageManager)
		assert.Equal(t, 120, cfg.Install.TimeoutSeconds)
		assert.False(t, cfg.Install.Dev)
		assert.Equal(t, "https://registry.example.com", cfg.Install.Registry)
	})

	t.Run("defaults applied to empty file", func(t *testing.T) {
		dir := t.TempDir()
		path := writeConfig(t, dir, "")

		cfg, err := LoadFromFile(path)
		require.NoError(t, err)

		assert.False(t, cfg.Install.Auto)
		assert.True(t, cfg.Install.Dev)
		assert.Equal(t, 300, cfg.Install.TimeoutSeconds)
		assert.Empty(t, cfg.Install.PackageManager)
	})

	t.Run("unknown package manager rejected", func(t *testing.T) {
		dir := t.TempDir()
		path := writeConfig(t, dir, `
[install]
package_manager = "cargo"
`)

		_, err := LoadFromFile(path)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
	})

	t.Run("negative timeout rejected", func(t *testing.T) {
		dir := t.TempDir()
		path := writeConfig(t, dir, `
[install]
timeout_seconds = -5
`)

		_, err := LoadFromFile(path)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
	})

	t.Run("missing file errors", func(t *testing.T) {
		_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
		assert.Error(t, err)
	})
}

func TestFindProjectConfigFrom(t *testing.T) {
	t.Run("found in parent directory", func(t *testing.T) {
		root := t.TempDir()
		path := writeConfig(t, root, "")
		nested := filepath.Join(root, "a", "b", "c")
		require.NoError(t, os.MkdirAll(nested, 0o755))

		assert.Equal(t, path, FindProjectConfigFrom(nested))
	})

	t.Run("not found", func(t *testing.T) {
		assert.Empty(t, FindProjectConfigFrom(t.TempDir()))
	})
}

func TestReset(t *testing.T) {
	Reset()
	assert.Nil(t, globalConfig)
	assert.Nil(t, viperInstance)
}

func TestLoad_ResetInvalidatesMemoizedConfig(t *testing.T) {
	dir := t.TempDir()
	oldWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(oldWD)) })
	Reset()
	t.Cleanup(Reset)

	writeConfig(t, dir, `
[install]
auto = false
`)

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.Install.Auto)

	writeConfig(t, dir, `
[install]
auto = true
`)

	// Load memoizes: an on-disk edit alone is not visible.
	cfg, err = Load()
	require.NoError(t, err)
	assert.False(t, cfg.Install.Auto)

	// Reset is the invalidation boundary watch mode relies on; a
	// rebuild after it must see the edited value.
	Reset()
	cfg, err = Load()
	require.NoError(t, err)
	assert.True(t, cfg.Install.Auto, "re-run after config edit must see the new value")
}
