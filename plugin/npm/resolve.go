package npm

import (
	"os"
	"path/filepath"

	"github.com/gencraft/gencraft/errors"
)

// ResolvePackageDir resolves a package identifier to its installed
// directory, honoring the workspace's module search paths: node_modules
// directories are checked from root upward, the same way the host
// runtime resolves packages. The identifier may be scoped
// ("@scope/name").
//
// Failure is marked with errors.ErrModuleNotFound so callers can
// distinguish "not installed" from other failures.
func ResolvePackageDir(root, pkg string) (string, error) {
	dir, err := filepath.Abs(root)
	if err != nil {
		dir = root
	}

	for {
		candidate := filepath.Join(dir, "node_modules", filepath.FromSlash(pkg))
		if _, err := os.Stat(filepath.Join(candidate, "package.json")); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", errors.MarkModuleNotFound(
		errors.Newf("cannot find module %q from %q", pkg, root))
}
