// Package npm supplies the production collaborators of the plugin
// loader for npm-distributed generator packages: workspace package
// resolution, package-manager detection, the auto-installer, and an
// importer that turns installed packages into callable plugins.
package npm

import (
	"github.com/gencraft/gencraft/errors"
)

// Manager identifies a JavaScript package manager CLI.
type Manager string

const (
	Npm  Manager = "npm"
	Yarn Manager = "yarn"
	Pnpm Manager = "pnpm"
	Bun  Manager = "bun"
)

func (m Manager) String() string { return string(m) }

// ParseManager validates a user-supplied manager name.
func ParseManager(s string) (Manager, error) {
	switch Manager(s) {
	case Npm, Yarn, Pnpm, Bun:
		return Manager(s), nil
	default:
		return "", errors.Newf("unknown package manager %q (expected npm, yarn, pnpm or bun)", s)
	}
}

// InstallArgs builds the manager-specific argument list for installing
// pkg: install subcommand, optional dev-dependency flag, optional global
// flag, optional registry override.
func (m Manager) InstallArgs(pkg string, dev, global bool, registry string) []string {
	var args []string

	switch m {
	case Yarn:
		if global {
			args = []string{"global", "add"}
		} else {
			args = []string{"add"}
		}
		if dev {
			args = append(args, "--dev")
		}
	case Pnpm, Bun:
		args = []string{"add"}
		if dev {
			args = append(args, "--save-dev")
		}
		if global {
			args = append(args, "--global")
		}
	default: // npm
		args = []string{"install"}
		if dev {
			args = append(args, "--save-dev")
		}
		if global {
			args = append(args, "--global")
		}
	}

	if registry != "" {
		args = append(args, "--registry", registry)
	}

	return append(args, pkg)
}

// lockfiles maps lockfile names to the manager that owns them, in check
// order. A lockfile is the most reliable signal of workspace intent.
var lockfiles = []struct {
	file    string
	manager Manager
}{
	{"package-lock.json", Npm},
	{"yarn.lock", Yarn},
	{"pnpm-lock.yaml", Pnpm},
	{"bun.lockb", Bun},
	{"bun.lock", Bun},
}

// probeOrder is the live-probe preference: richer-feature managers
// before the universal fallback.
var probeOrder = []Manager{Pnpm, Yarn, Bun, Npm}
