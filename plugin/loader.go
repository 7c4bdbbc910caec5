package plugin

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/gencraft/gencraft/errors"
)

// Loader turns a generator name into a validated plugin, trying
// resolution strategies in a fixed priority order and short-circuiting
// on first success:
//
//  1. Registry hit
//  2. Result cache hit
//  3. Resolve the package identifier (built-in table, then the name itself)
//  4. Import the package and extract a plugin from its exports
//  5. Auto-install escalation (namespace packages only, never in CI),
//     then one retried import
//  6. Developer-mode fallback file paths (built-in packages only)
//  7. Terminal typed failure
//
// Successful resolutions are cached under the originally requested name
// for the process lifetime; entries are never invalidated. Concurrent
// first-time loads of the same name are not deduplicated: two callers
// racing on a cold miss may both import and both attempt installation.
// The cache map itself is lock-protected, so the race costs duplicated
// work, not corruption.
type Loader struct {
	registry  *Registry
	importer  Importer
	installer Installer
	env       RuntimeEnvironment
	logger    *zap.SugaredLogger

	// aliases extends the built-in name map (from workspace config)
	aliases map[string]string

	// localPaths are extra developer-mode probe roots (from workspace
	// config), tried ahead of the workspace packages/ directory
	localPaths []string

	cacheMu sync.RWMutex
	cache   map[string]DiscoveryResult
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithInstaller wires an auto-installer. Without one, step 5 is skipped.
func WithInstaller(installer Installer) LoaderOption {
	return func(l *Loader) { l.installer = installer }
}

// WithAliases extends the built-in name map with workspace-configured
// entries, which shadow the compiled-in table.
func WithAliases(aliases map[string]string) LoaderOption {
	return func(l *Loader) { l.aliases = aliases }
}

// WithLocalPaths adds developer-mode probe roots ahead of the workspace
// packages/ directory.
func WithLocalPaths(paths []string) LoaderOption {
	return func(l *Loader) { l.localPaths = paths }
}

// NewLoader creates a plugin loader. The registry, importer and
// environment are required collaborators; the installer is optional.
func NewLoader(registry *Registry, importer Importer, env RuntimeEnvironment, logger *zap.SugaredLogger, opts ...LoaderOption) *Loader {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	l := &Loader{
		registry: registry,
		importer: importer,
		env:      env,
		logger:   logger,
		cache:    make(map[string]DiscoveryResult),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadOptions carries per-call context for resolution.
type LoadOptions struct {
	// Root is the workspace root the package is resolved against.
	// Empty means the current working directory.
	Root string
}

// Load resolves name to a validated plugin. It rejects with
// *NotFoundError when every strategy is exhausted on module-not-found
// signatures, and *LoadError for any other import-time failure or a bad
// export shape.
func (l *Loader) Load(ctx context.Context, name string, opts LoadOptions) (Plugin, error) {
	// Strategy 1: registry hit — no import, no I/O.
	if l.registry.Has(name) {
		return l.registry.Get(name)
	}

	// Strategy 2: cache hit from a prior load of this exact name.
	if cached, ok := l.Describe(name); ok {
		return cached.Descriptor, nil
	}

	root := opts.Root
	if root == "" {
		if wd, err := os.Getwd(); err == nil {
			root = wd
		} else {
			root = "."
		}
	}

	// Strategy 3: resolve the package identifier.
	pkg := ResolvePackageName(name, l.aliases)
	attempted := []string{pkg}

	// Strategy 4: primary dynamic import.
	p, importErr := l.importAndExtract(ctx, pkg, root)
	if importErr == nil {
		l.cacheStore(name, discovered(p, SourceNpm, ""))
		l.logger.Debugw("Generator plugin resolved", "name", name, "package", pkg, "source", SourceNpm)
		return p, nil
	}

	// Strategy 5: auto-install escalation. Only for module-not-found
	// failures, only inside the plugin namespace, never in CI. Installer
	// failures are logged and do not prevent falling through.
	if l.installer != nil && errors.IsModuleNotFound(importErr) && InNamespace(pkg) && !l.env.IsCI() {
		l.logger.Infow("Generator package missing, attempting installation", "package", pkg)
		if err := l.installer.Install(ctx, pkg, InstallOptions{Dev: true}); err != nil {
			l.logger.Warnw("Auto-install failed", "package", pkg, "error", err)
		} else {
			p, retryErr := l.importAndExtract(ctx, pkg, root)
			if retryErr == nil {
				l.cacheStore(name, discovered(p, SourceNpm, ""))
				l.logger.Infow("Generator plugin installed and resolved", "name", name, "package", pkg)
				return p, nil
			}
			importErr = retryErr
		}
	}

	// Strategy 6: developer-mode fallback paths, for built-in packages
	// only. Built output locations are probed before source-adjacent
	// ones; only a default export qualifies.
	if IsBuiltinPackage(pkg) && IsLocalDev(l.env) {
		for _, path := range l.fallbackPaths(root, ShortName(pkg)) {
			attempted = append(attempted, path)
			m, err := l.importer.ImportFile(ctx, path)
			if err != nil {
				l.logger.Debugw("Fallback path probe failed", "path", path, "error", err)
				continue
			}
			p, err := ExtractDefault(m)
			if err != nil {
				l.logger.Debugw("Fallback module has no default plugin export", "path", path, "error", err)
				continue
			}
			l.cacheStore(name, discovered(p, SourceLocal, path))
			l.logger.Infow("Generator plugin loaded from local path", "name", name, "path", path)
			return p, nil
		}
	}

	// Strategy 7: terminal failure.
	if IsLoadError(importErr) {
		// Export-shape failures already carry the diagnostic key list.
		return nil, importErr
	}
	if errors.IsModuleNotFound(importErr) {
		return nil, NewNotFoundError(name, attempted)
	}
	return nil, NewLoadError(name, importErr)
}

// importAndExtract imports pkg and runs export-shape extraction plus
// descriptor validation on the result.
func (l *Loader) importAndExtract(ctx context.Context, pkg, root string) (Plugin, error) {
	m, err := l.importer.Import(ctx, pkg, root)
	if err != nil {
		return nil, err
	}
	p, err := ExtractPlugin(m)
	if err != nil {
		return nil, NewExportShapeError(pkg, m.Keys())
	}
	return p, nil
}

// fallbackPaths builds the fixed, ordered developer-mode probe list for
// a built-in short name: configured local roots first, then the
// workspace packages/ directory; within each root, the built output
// manifest before the source-adjacent one.
func (l *Loader) fallbackPaths(root, short string) []string {
	bases := make([]string, 0, len(l.localPaths)+1)
	for _, p := range l.localPaths {
		expanded, err := ExpandPath(p)
		if err != nil {
			l.logger.Warnw("Invalid plugin search path, skipping", "path", p, "error", err)
			continue
		}
		bases = append(bases, filepath.Join(expanded, short))
	}
	bases = append(bases, filepath.Join(root, "packages", short))

	paths := make([]string, 0, len(bases)*2)
	for _, base := range bases {
		paths = append(paths,
			filepath.Join(base, "dist", ManifestFileName),
			filepath.Join(base, ManifestFileName),
		)
	}
	return paths
}

// Describe reports how a previously loaded plugin was discovered.
func (l *Loader) Describe(name string) (DiscoveryResult, bool) {
	l.cacheMu.RLock()
	defer l.cacheMu.RUnlock()
	result, ok := l.cache[name]
	return result, ok
}

// discovered builds the discovery record for a validated plugin,
// picking up the version from plugins that report one.
func discovered(p Plugin, source Source, path string) DiscoveryResult {
	result := DiscoveryResult{Descriptor: p, Source: source, Path: path}
	if v, ok := p.(interface{ Version() string }); ok {
		result.Version = v.Version()
	}
	return result
}

func (l *Loader) cacheStore(name string, result DiscoveryResult) {
	l.cacheMu.Lock()
	defer l.cacheMu.Unlock()
	l.cache[name] = result
}
