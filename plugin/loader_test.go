package plugin

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gencraft/gencraft/errors"
)

// =============================================================================
// Fakes
// =============================================================================

type fakeEnv struct {
	ci          bool
	interactive bool
	vars        map[string]string
}

func (e *fakeEnv) Getenv(key string) string { return e.vars[key] }
func (e *fakeEnv) IsCI() bool               { return e.ci }
func (e *fakeEnv) IsInteractive() bool      { return e.interactive }
func (e *fakeEnv) LookPath(bin string) (string, error) {
	return "", errors.Newf("%s not on path", bin)
}

var _ RuntimeEnvironment = (*fakeEnv)(nil)

// fakeImporter is a spy over both import mechanisms.
type fakeImporter struct {
	modules     map[string]Module // by specifier
	errs        map[string]error  // by specifier
	fileModules map[string]Module // by path
	importCalls []string
	fileCalls   []string
}

func newFakeImporter() *fakeImporter {
	return &fakeImporter{
		modules:     make(map[string]Module),
		errs:        make(map[string]error),
		fileModules: make(map[string]Module),
	}
}

func (f *fakeImporter) Import(ctx context.Context, specifier, root string) (Module, error) {
	f.importCalls = append(f.importCalls, specifier)
	if err, ok := f.errs[specifier]; ok {
		return nil, err
	}
	if m, ok := f.modules[specifier]; ok {
		return m, nil
	}
	return nil, errors.MarkModuleNotFound(errors.Newf("cannot find module %q", specifier))
}

func (f *fakeImporter) ImportFile(ctx context.Context, path string) (Module, error) {
	f.fileCalls = append(f.fileCalls, path)
	if m, ok := f.fileModules[path]; ok {
		return m, nil
	}
	return nil, errors.MarkModuleNotFound(errors.Newf("cannot find module at %s", path))
}

type fakeInstaller struct {
	calls     []string
	opts      []InstallOptions
	err       error
	onInstall func(pkg string)
}

func (f *fakeInstaller) Install(ctx context.Context, pkg string, opts InstallOptions) error {
	f.calls = append(f.calls, pkg)
	f.opts = append(f.opts, opts)
	if f.err != nil {
		return f.err
	}
	if f.onInstall != nil {
		f.onInstall(pkg)
	}
	return nil
}

func newTestLoader(importer Importer, installer Installer, env RuntimeEnvironment, opts ...LoaderOption) (*Loader, *Registry) {
	registry := NewRegistry(nil)
	if installer != nil {
		opts = append(opts, WithInstaller(installer))
	}
	return NewLoader(registry, importer, env, nil, opts...), registry
}

// =============================================================================
// Loader Tests
// =============================================================================

func TestLoader_RegistryHit(t *testing.T) {
	importer := newFakeImporter()
	installer := &fakeInstaller{}
	loader, registry := newTestLoader(importer, installer, &fakeEnv{})

	registered := newMockPlugin("openapi-tools")
	registry.Register(registered)

	got, err := loader.Load(context.Background(), "openapi-tools", LoadOptions{Root: "/ws"})
	require.NoError(t, err)
	assert.Same(t, registered, got)

	// Registry hits never touch the import mechanism.
	assert.Empty(t, importer.importCalls)
	assert.Empty(t, importer.fileCalls)
	assert.Empty(t, installer.calls)
}

func TestLoader_CacheIdempotence(t *testing.T) {
	importer := newFakeImporter()
	p := newMockPlugin("hey-api")
	importer.modules["@gencraft/plugin-hey-api"] = Module{"default": p}

	loader, _ := newTestLoader(importer, nil, &fakeEnv{})

	first, err := loader.Load(context.Background(), "hey-api", LoadOptions{Root: "/ws"})
	require.NoError(t, err)
	second, err := loader.Load(context.Background(), "hey-api", LoadOptions{Root: "/ws"})
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Len(t, importer.importCalls, 1, "second load must not import again")
}

func TestLoader_CacheKeyedByRequestedName(t *testing.T) {
	importer := newFakeImporter()
	p := newMockPlugin("hey-api")
	importer.modules["@gencraft/plugin-hey-api"] = Module{"default": p}

	loader, _ := newTestLoader(importer, nil, &fakeEnv{})

	_, err := loader.Load(context.Background(), "hey-api", LoadOptions{Root: "/ws"})
	require.NoError(t, err)

	// The resolved package identifier is not a cache key.
	_, err = loader.Load(context.Background(), "@gencraft/plugin-hey-api", LoadOptions{Root: "/ws"})
	require.NoError(t, err)
	assert.Len(t, importer.importCalls, 2)
}

func TestLoader_NameMapping(t *testing.T) {
	t.Run("builtin name maps to package", func(t *testing.T) {
		importer := newFakeImporter()
		importer.modules["@gencraft/plugin-orval"] = Module{"default": newMockPlugin("orval")}
		loader, _ := newTestLoader(importer, nil, &fakeEnv{})

		_, err := loader.Load(context.Background(), "orval", LoadOptions{Root: "/ws"})
		require.NoError(t, err)
		assert.Equal(t, []string{"@gencraft/plugin-orval"}, importer.importCalls)
	})

	t.Run("unknown name used verbatim", func(t *testing.T) {
		importer := newFakeImporter()
		importer.modules["@acme/generator"] = Module{"default": newMockPlugin("acme")}
		loader, _ := newTestLoader(importer, nil, &fakeEnv{})

		_, err := loader.Load(context.Background(), "@acme/generator", LoadOptions{Root: "/ws"})
		require.NoError(t, err)
		assert.Equal(t, []string{"@acme/generator"}, importer.importCalls)
	})

	t.Run("configured alias wins", func(t *testing.T) {
		importer := newFakeImporter()
		importer.modules["@acme/plugin-hey-api-fork"] = Module{"default": newMockPlugin("hey-api")}
		loader, _ := newTestLoader(importer, nil, &fakeEnv{},
			WithAliases(map[string]string{"hey-api": "@acme/plugin-hey-api-fork"}))

		_, err := loader.Load(context.Background(), "hey-api", LoadOptions{Root: "/ws"})
		require.NoError(t, err)
		assert.Equal(t, []string{"@acme/plugin-hey-api-fork"}, importer.importCalls)
	})
}

func TestLoader_ExportShapeFailure(t *testing.T) {
	importer := newFakeImporter()
	importer.modules["@gencraft/plugin-hey-api"] = Module{"helper": "not a plugin", "settings": 1}
	loader, _ := newTestLoader(importer, nil, &fakeEnv{})

	_, err := loader.Load(context.Background(), "hey-api", LoadOptions{Root: "/ws"})
	require.Error(t, err)
	assert.True(t, IsLoadError(err))
	assert.False(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "helper")
	assert.Contains(t, err.Error(), "settings")
}

func TestLoader_CISuppressesInstall(t *testing.T) {
	importer := newFakeImporter()
	installer := &fakeInstaller{}
	loader, _ := newTestLoader(importer, installer, &fakeEnv{ci: true})

	_, err := loader.Load(context.Background(), "hey-api", LoadOptions{Root: "/ws"})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Empty(t, installer.calls, "CI must never trigger an install")
}

func TestLoader_AutoInstallRetry(t *testing.T) {
	// Scenario: mapped package missing, not CI; install succeeds and the
	// retried import resolves.
	importer := newFakeImporter()
	p := newMockPlugin("hey-api")
	installer := &fakeInstaller{
		onInstall: func(pkg string) {
			importer.modules[pkg] = Module{"default": p}
		},
	}
	loader, _ := newTestLoader(importer, installer, &fakeEnv{})

	got, err := loader.Load(context.Background(), "hey-api", LoadOptions{Root: "/ws"})
	require.NoError(t, err)
	assert.Same(t, p, got)

	require.Len(t, installer.calls, 1, "exactly one install invocation")
	assert.Equal(t, "@gencraft/plugin-hey-api", installer.calls[0])
	assert.True(t, installer.opts[0].Dev, "plugins install as dev dependencies")

	// Primary import plus exactly one retry.
	assert.Equal(t, []string{"@gencraft/plugin-hey-api", "@gencraft/plugin-hey-api"}, importer.importCalls)
}

func TestLoader_InstallerFailureFallsThrough(t *testing.T) {
	importer := newFakeImporter()
	installer := &fakeInstaller{err: NewInstallError("@gencraft/plugin-hey-api", "npm", errors.New("exit status 1"))}
	loader, _ := newTestLoader(importer, installer, &fakeEnv{})

	_, err := loader.Load(context.Background(), "hey-api", LoadOptions{Root: "/ws"})
	require.Error(t, err)

	// The installer failure is swallowed; the caller sees the uniform
	// not-found surface, never the install error.
	assert.True(t, IsNotFound(err))
	assert.False(t, IsInstallError(err))
	assert.Len(t, installer.calls, 1)
}

func TestLoader_NoInstallOutsideNamespace(t *testing.T) {
	importer := newFakeImporter()
	installer := &fakeInstaller{}
	loader, _ := newTestLoader(importer, installer, &fakeEnv{})

	_, err := loader.Load(context.Background(), "left-pad", LoadOptions{Root: "/ws"})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Empty(t, installer.calls, "foreign packages are never auto-installed")
}

func TestLoader_GenericImportErrorIsLoadError(t *testing.T) {
	// Scenario: no mapping, no registry entry, and the import fails with
	// something other than module-not-found.
	importer := newFakeImporter()
	importer.errs["unknown-thing"] = errors.New("unexpected token in entry point")
	installer := &fakeInstaller{}
	loader, _ := newTestLoader(importer, installer, &fakeEnv{})

	_, err := loader.Load(context.Background(), "unknown-thing", LoadOptions{Root: "/ws"})
	require.Error(t, err)
	assert.True(t, IsLoadError(err))
	assert.False(t, IsNotFound(err))
	assert.Empty(t, installer.calls)
}

func TestLoader_PrimaryImportSkipsEverythingElse(t *testing.T) {
	// Scenario: built-in package already importable — no install attempt,
	// no fallback paths, even in local-dev mode.
	importer := newFakeImporter()
	importer.modules["@gencraft/plugin-openapi-tools"] = Module{"default": newMockPlugin("openapi-tools")}
	installer := &fakeInstaller{}
	env := &fakeEnv{vars: map[string]string{LocalDevEnv: "1"}}
	loader, _ := newTestLoader(importer, installer, env)

	_, err := loader.Load(context.Background(), "openapi-tools", LoadOptions{Root: "/ws"})
	require.NoError(t, err)
	assert.Empty(t, installer.calls)
	assert.Empty(t, importer.fileCalls)
}

func TestLoader_LocalDevFallback(t *testing.T) {
	distPath := filepath.Join("/ws", "packages", "openapi-tools", "dist", ManifestFileName)
	srcPath := filepath.Join("/ws", "packages", "openapi-tools", ManifestFileName)

	t.Run("built output probed before source-adjacent", func(t *testing.T) {
		importer := newFakeImporter()
		fromDist := newMockPlugin("openapi-tools")
		fromSrc := newMockPlugin("openapi-tools")
		importer.fileModules[distPath] = Module{"default": fromDist}
		importer.fileModules[srcPath] = Module{"default": fromSrc}

		env := &fakeEnv{vars: map[string]string{LocalDevEnv: "1"}}
		loader, _ := newTestLoader(importer, nil, env)

		got, err := loader.Load(context.Background(), "openapi-tools", LoadOptions{Root: "/ws"})
		require.NoError(t, err)
		assert.Same(t, fromDist, got, "dist manifest must win over source-adjacent")
		assert.Equal(t, []string{distPath}, importer.fileCalls)
	})

	t.Run("source-adjacent used when dist absent", func(t *testing.T) {
		importer := newFakeImporter()
		fromSrc := newMockPlugin("openapi-tools")
		importer.fileModules[srcPath] = Module{"default": fromSrc}

		env := &fakeEnv{vars: map[string]string{LocalDevEnv: "1"}}
		loader, _ := newTestLoader(importer, nil, env)

		got, err := loader.Load(context.Background(), "openapi-tools", LoadOptions{Root: "/ws"})
		require.NoError(t, err)
		assert.Same(t, fromSrc, got)
		assert.Equal(t, []string{distPath, srcPath}, importer.fileCalls)
	})

	t.Run("disabled without local-dev flag", func(t *testing.T) {
		importer := newFakeImporter()
		importer.fileModules[distPath] = Module{"default": newMockPlugin("openapi-tools")}
		loader, _ := newTestLoader(importer, nil, &fakeEnv{})

		_, err := loader.Load(context.Background(), "openapi-tools", LoadOptions{Root: "/ws"})
		require.Error(t, err)
		assert.Empty(t, importer.fileCalls)
	})

	t.Run("only for builtin packages", func(t *testing.T) {
		importer := newFakeImporter()
		env := &fakeEnv{vars: map[string]string{LocalDevEnv: "1"}}
		loader, _ := newTestLoader(importer, nil, env)

		_, err := loader.Load(context.Background(), "@gencraft/plugin-unheard-of", LoadOptions{Root: "/ws"})
		require.Error(t, err)
		assert.Empty(t, importer.fileCalls)
	})

	t.Run("non-default export rejected", func(t *testing.T) {
		importer := newFakeImporter()
		importer.fileModules[distPath] = Module{"plugin": newMockPlugin("openapi-tools")}

		env := &fakeEnv{vars: map[string]string{LocalDevEnv: "1"}}
		loader, _ := newTestLoader(importer, nil, env)

		_, err := loader.Load(context.Background(), "openapi-tools", LoadOptions{Root: "/ws"})
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
	})
}

func TestLoader_Describe(t *testing.T) {
	importer := newFakeImporter()
	p := newMockPlugin("hey-api")
	importer.modules["@gencraft/plugin-hey-api"] = Module{"default": p}

	env := &fakeEnv{vars: map[string]string{LocalDevEnv: "1"}}
	loader, _ := newTestLoader(importer, nil, env)

	_, ok := loader.Describe("hey-api")
	assert.False(t, ok, "nothing loaded yet")

	_, err := loader.Load(context.Background(), "hey-api", LoadOptions{Root: "/ws"})
	require.NoError(t, err)

	result, ok := loader.Describe("hey-api")
	require.True(t, ok)
	assert.Same(t, p, result.Descriptor)
	assert.Equal(t, SourceNpm, result.Source)

	// Local-path loads record where the plugin came from.
	distPath := filepath.Join("/ws", "packages", "openapi-tools", "dist", ManifestFileName)
	importer.fileModules[distPath] = Module{"default": newMockPlugin("openapi-tools")}

	_, err = loader.Load(context.Background(), "openapi-tools", LoadOptions{Root: "/ws"})
	require.NoError(t, err)

	result, ok = loader.Describe("openapi-tools")
	require.True(t, ok)
	assert.Equal(t, SourceLocal, result.Source)
	assert.Equal(t, distPath, result.Path)
}

func TestLoader_NotFoundCarriesAttempts(t *testing.T) {
	importer := newFakeImporter()
	env := &fakeEnv{vars: map[string]string{LocalDevEnv: "1"}}
	loader, _ := newTestLoader(importer, nil, env)

	_, err := loader.Load(context.Background(), "openapi-tools", LoadOptions{Root: "/ws"})
	require.Error(t, err)

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "openapi-tools", nf.Name)
	require.Len(t, nf.Attempted, 3)
	assert.Equal(t, "@gencraft/plugin-openapi-tools", nf.Attempted[0])
	assert.Contains(t, nf.Attempted[1], filepath.Join("dist", ManifestFileName))
}
