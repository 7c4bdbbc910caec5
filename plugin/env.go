package plugin

import (
	"os"
	"os/exec"
	"strings"

	"github.com/mattn/go-isatty"
)

// RuntimeEnvironment is the ambient-environment capability the loader
// and installer depend on. Injecting it keeps CI and interactivity
// detection testable instead of reading process globals inside the
// components.
type RuntimeEnvironment interface {
	// Getenv returns the value of an environment variable
	Getenv(key string) string

	// IsCI reports whether the process runs under a CI system
	IsCI() bool

	// IsInteractive reports whether a human is attached to the terminal
	IsInteractive() bool

	// LookPath locates an executable on the search path
	LookPath(bin string) (string, error)
}

// LocalDevEnv enables developer-mode fallback path probing. It is
// distinct from CI detection: CI gates installation, this gates loading
// built-in plugins from working-tree files.
const LocalDevEnv = "GENCRAFT_LOCAL_DEV"

// ciIndicators are the standard environment variables CI systems set.
var ciIndicators = []string{
	"CI",
	"CONTINUOUS_INTEGRATION",
	"GITHUB_ACTIONS",
	"GITLAB_CI",
	"CIRCLECI",
	"BUILDKITE",
	"TRAVIS",
	"TF_BUILD",
}

// SystemEnvironment reads the real process environment.
type SystemEnvironment struct{}

var _ RuntimeEnvironment = SystemEnvironment{}

func (SystemEnvironment) Getenv(key string) string {
	return os.Getenv(key)
}

func (SystemEnvironment) IsCI() bool {
	for _, key := range ciIndicators {
		switch strings.ToLower(os.Getenv(key)) {
		case "", "0", "false":
			continue
		default:
			return true
		}
	}
	return false
}

func (SystemEnvironment) IsInteractive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (SystemEnvironment) LookPath(bin string) (string, error) {
	return exec.LookPath(bin)
}

// IsLocalDev reports whether developer-mode fallback probing is enabled
// in the given environment.
func IsLocalDev(env RuntimeEnvironment) bool {
	switch strings.ToLower(env.Getenv(LocalDevEnv)) {
	case "", "0", "false":
		return false
	default:
		return true
	}
}
