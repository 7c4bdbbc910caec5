package plugin

import (
	"sort"

	"github.com/gencraft/gencraft/errors"
)

// Module is a resolved package's export surface: export names mapped to
// exported values. Values of interest are Plugin implementations or
// zero-argument plugin factories; anything else is ignored by shape
// extraction but still listed in diagnostics.
type Module map[string]any

// Keys returns the export names in sorted order.
func (m Module) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Factory is a zero-argument plugin constructor. A module may export one
// under the "createPlugin" key instead of a ready-made plugin value.
type Factory func() Plugin

// ExportStrategy extracts a plugin candidate from one well-known export
// slot. Each strategy is a pure function of the module; the loader tries
// them in the fixed order of exportStrategies.
type ExportStrategy struct {
	// Key is the export slot this strategy inspects
	Key string

	// Extract returns the candidate and true when the slot holds one
	Extract func(Module) (Plugin, bool)
}

// exportStrategies is the fixed priority order for export-shape
// detection: default export, createPlugin factory, then the plugin and
// Plugin named exports.
var exportStrategies = []ExportStrategy{
	{Key: "default", Extract: fromValue("default")},
	{Key: "createPlugin", Extract: fromFactory("createPlugin")},
	{Key: "plugin", Extract: fromValue("plugin")},
	{Key: "Plugin", Extract: fromValue("Plugin")},
}

// ExportStrategies returns the fixed strategy order. Exposed so hosts
// and tests can see the priority list without relying on behavior.
func ExportStrategies() []ExportStrategy {
	out := make([]ExportStrategy, len(exportStrategies))
	copy(out, exportStrategies)
	return out
}

func fromValue(key string) func(Module) (Plugin, bool) {
	return func(m Module) (Plugin, bool) {
		p, ok := m[key].(Plugin)
		return p, ok
	}
}

func fromFactory(key string) func(Module) (Plugin, bool) {
	return func(m Module) (Plugin, bool) {
		switch f := m[key].(type) {
		case Factory:
			return f(), true
		case func() Plugin:
			return f(), true
		default:
			return nil, false
		}
	}
}

// ExtractPlugin walks the export strategies in priority order and
// returns the first candidate that satisfies the plugin contract. When
// no export qualifies it returns an error listing the available export
// keys for diagnostics.
func ExtractPlugin(m Module) (Plugin, error) {
	for _, strategy := range exportStrategies {
		candidate, ok := strategy.Extract(m)
		if !ok {
			continue
		}
		if err := ValidateDescriptor(candidate); err != nil {
			continue
		}
		return candidate, nil
	}
	return nil, errors.Newf("module does not export a valid plugin (exports: %v)", m.Keys())
}

// ExtractDefault accepts only the default export. Developer-mode
// fallback files are required to use it; the looser strategy list is for
// published packages.
func ExtractDefault(m Module) (Plugin, error) {
	candidate, ok := fromValue("default")(m)
	if !ok {
		return nil, errors.Newf("module does not have a default plugin export (exports: %v)", m.Keys())
	}
	if err := ValidateDescriptor(candidate); err != nil {
		return nil, err
	}
	return candidate, nil
}

// ValidateDescriptor is the validation boundary for dynamically
// discovered plugins: a candidate must be non-nil and carry a non-empty
// name. (The generate operation is guaranteed by the interface.)
func ValidateDescriptor(p Plugin) error {
	if p == nil {
		return errors.New("plugin candidate is nil")
	}
	if p.Name() == "" {
		return errors.New("plugin candidate has an empty name")
	}
	return nil
}
