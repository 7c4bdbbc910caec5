package npm

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/gencraft/gencraft/plugin"
)

// Detector decides which package manager governs a workspace, without
// requiring the caller to specify one. Signals in order of reliability:
// lockfiles, the running wrapper's environment hint, live version
// probing, then the npm fallback. Probing is last because it is slow and
// can report managers that are installed globally but unused here.
type Detector struct {
	env    plugin.RuntimeEnvironment
	logger *zap.SugaredLogger

	// probe reports whether a manager's CLI responds to its version
	// command. Injectable for tests.
	probe func(ctx context.Context, m Manager) bool
}

// NewDetector creates a package-manager detector.
func NewDetector(env plugin.RuntimeEnvironment, logger *zap.SugaredLogger) *Detector {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	d := &Detector{env: env, logger: logger}
	d.probe = d.versionProbe
	return d
}

// Detect returns the package manager for the workspace rooted at root.
// Never fails: npm is assumed always present.
func (d *Detector) Detect(ctx context.Context, root string) Manager {
	// (a) lockfile in the workspace root
	for _, lf := range lockfiles {
		if _, err := os.Stat(filepath.Join(root, lf.file)); err == nil {
			d.logger.Debugw("Package manager detected from lockfile", "lockfile", lf.file, "manager", lf.manager)
			return lf.manager
		}
	}

	// (b) hint set by the currently-running package-manager wrapper
	if m, ok := d.userAgentHint(); ok {
		d.logger.Debugw("Package manager detected from user agent", "manager", m)
		return m
	}

	// (c) live probing, fixed preference order
	for _, m := range probeOrder {
		if d.probe(ctx, m) {
			d.logger.Debugw("Package manager detected by probing", "manager", m)
			return m
		}
	}

	// (d) universal fallback
	return Npm
}

// userAgentHint parses npm_config_user_agent, which wrappers set to
// values like "pnpm/8.15.4 npm/? node/v20.11.1 linux x64".
func (d *Detector) userAgentHint() (Manager, bool) {
	agent := d.env.Getenv("npm_config_user_agent")
	if agent == "" {
		return "", false
	}
	name, _, ok := strings.Cut(agent, "/")
	if !ok {
		return "", false
	}
	m, err := ParseManager(strings.TrimSpace(name))
	if err != nil {
		return "", false
	}
	return m, true
}

// versionProbe checks that the manager binary exists and exits zero on
// its version command.
func (d *Detector) versionProbe(ctx context.Context, m Manager) bool {
	if _, err := d.env.LookPath(m.String()); err != nil {
		return false
	}
	cmd := exec.CommandContext(ctx, m.String(), "--version")
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}
