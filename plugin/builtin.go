package plugin

import (
	"sort"
	"strings"
)

// Namespace is the reserved package-identifier prefix for installable
// generator packages. Only packages under this prefix are ever
// auto-installed; arbitrary third-party identifiers are not.
const Namespace = "@gencraft/plugin-"

// builtinPackages maps short friendly names to installable package
// identifiers. The map serves double duty: resolution (name -> package)
// and install target (the same identifier is handed to the package
// manager).
var builtinPackages = map[string]string{
	"openapi-tools": Namespace + "openapi-tools",
	"hey-api":       Namespace + "hey-api",
	"orval":         Namespace + "orval",
}

// IsBuiltinName reports whether name is a known built-in short name.
func IsBuiltinName(name string) bool {
	_, ok := builtinPackages[name]
	return ok
}

// BuiltinNames returns the known built-in short names in sorted order.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtinPackages))
	for name := range builtinPackages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolvePackageName maps a short name through the built-in table (and
// any caller-supplied aliases, which shadow it). Unknown names are
// treated as package identifiers themselves.
func ResolvePackageName(name string, aliases map[string]string) string {
	if pkg, ok := aliases[name]; ok {
		return pkg
	}
	if pkg, ok := builtinPackages[name]; ok {
		return pkg
	}
	return name
}

// IsBuiltinPackage reports whether pkg is one of the built-in installable
// package identifiers. Developer-mode fallback probing is limited to
// these.
func IsBuiltinPackage(pkg string) bool {
	for _, candidate := range builtinPackages {
		if candidate == pkg {
			return true
		}
	}
	return false
}

// InNamespace reports whether pkg is within the plugin-packages
// namespace and therefore eligible for auto-installation.
func InNamespace(pkg string) bool {
	return strings.HasPrefix(pkg, Namespace)
}

// ShortName extracts the short name from a namespaced package
// identifier. Returns the input unchanged for foreign identifiers.
func ShortName(pkg string) string {
	return strings.TrimPrefix(pkg, Namespace)
}
