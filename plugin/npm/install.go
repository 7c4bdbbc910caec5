package npm

import (
	"context"
	"os"
	"os/exec"
	"time"

	"github.com/pterm/pterm"
	"go.uber.org/zap"

	"github.com/gencraft/gencraft/errors"
	"github.com/gencraft/gencraft/plugin"
)

// DefaultInstallTimeout bounds a single install command when neither the
// call nor the installer config sets one.
const DefaultInstallTimeout = 5 * time.Minute

// InstallerConfig configures an Installer.
type InstallerConfig struct {
	// Root is the workspace root the install runs in
	Root string

	// Auto proceeds without prompting (the explicit auto-install flag)
	Auto bool

	// AssumeYes means the call site opted out of prompting (--yes)
	AssumeYes bool

	// Manager overrides detection when set
	Manager string

	// Registry is passed through to the package manager when set
	Registry string

	// Timeout is the default per-install timeout (zero = DefaultInstallTimeout)
	Timeout time.Duration
}

// Installer installs missing generator packages with the workspace's
// package manager. It never installs in CI; outside CI it either has
// explicit permission (Auto/AssumeYes) or asks the human attached to the
// terminal. With no human attached, it declines.
type Installer struct {
	cfg      InstallerConfig
	env      plugin.RuntimeEnvironment
	detector *Detector
	logger   *zap.SugaredLogger

	// run executes the install command. Injectable for tests.
	run func(ctx context.Context, root, name string, args []string) error

	// confirm asks the terminal user for permission. Injectable for tests.
	confirm func(pkg string) (bool, error)
}

var _ plugin.Installer = (*Installer)(nil)

// NewInstaller creates an auto-installer for the workspace in cfg.Root.
func NewInstaller(cfg InstallerConfig, env plugin.RuntimeEnvironment, logger *zap.SugaredLogger) *Installer {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	i := &Installer{
		cfg:      cfg,
		env:      env,
		detector: NewDetector(env, logger),
		logger:   logger,
	}
	i.run = runInstallCommand
	i.confirm = promptConfirm
	return i
}

// Install fetches pkg if it is not already resolvable from the
// workspace. A declined prompt, a non-zero exit, a timeout, and a
// post-install resolution failure are all errors; none of them crash the
// host.
func (i *Installer) Install(ctx context.Context, pkg string, opts plugin.InstallOptions) error {
	if i.env.IsCI() {
		return plugin.NewInstallError(pkg, "",
			errors.Wrap(errors.ErrInstallDeclined, "refusing to install packages in CI"))
	}

	if !i.cfg.Auto && !i.cfg.AssumeYes {
		if !i.env.IsInteractive() {
			return plugin.NewInstallError(pkg, "",
				errors.Wrap(errors.ErrInstallDeclined, "auto-install disabled and no interactive terminal"))
		}
		ok, err := i.confirm(pkg)
		if err != nil {
			return plugin.NewInstallError(pkg, "", errors.Wrap(err, "confirmation prompt failed"))
		}
		if !ok {
			return plugin.NewInstallError(pkg, "", errors.WithStack(errors.ErrInstallDeclined))
		}
	}

	// Idempotence: skip when the package already resolves, unless forced.
	if !opts.Force {
		if dir, err := ResolvePackageDir(i.cfg.Root, pkg); err == nil {
			i.logger.Debugw("Package already resolvable, skipping install", "package", pkg, "dir", dir)
			return nil
		}
	}

	manager, err := i.selectManager(ctx, opts)
	if err != nil {
		return plugin.NewInstallError(pkg, "", err)
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = i.cfg.Timeout
	}
	if timeout == 0 {
		timeout = DefaultInstallTimeout
	}

	args := manager.InstallArgs(pkg, opts.Dev, false, i.cfg.Registry)
	i.logger.Infow("Installing generator package",
		"package", pkg,
		"manager", manager,
		"dev", opts.Dev,
		"timeout", timeout,
	)

	installCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := i.run(installCtx, i.cfg.Root, manager.String(), args); err != nil {
		if errors.Is(installCtx.Err(), context.DeadlineExceeded) {
			return plugin.NewInstallError(pkg, manager.String(),
				errors.Wrapf(errors.ErrTimeout, "install did not finish within %s", timeout))
		}
		return plugin.NewInstallError(pkg, manager.String(), err)
	}

	// Post-install verification: an install that "succeeded" but left the
	// package unresolvable is a failure, not a partial success.
	if _, err := ResolvePackageDir(i.cfg.Root, pkg); err != nil {
		return plugin.NewInstallError(pkg, manager.String(),
			errors.New("package installed but still unresolvable"))
	}

	i.logger.Infow("Generator package installed", "package", pkg, "manager", manager)
	return nil
}

// selectManager picks the package manager: per-call override, installer
// config, then detection.
func (i *Installer) selectManager(ctx context.Context, opts plugin.InstallOptions) (Manager, error) {
	if opts.Manager != "" {
		return ParseManager(opts.Manager)
	}
	if i.cfg.Manager != "" {
		return ParseManager(i.cfg.Manager)
	}
	return i.detector.Detect(ctx, i.cfg.Root), nil
}

// runInstallCommand spawns the package manager with inherited standard
// streams. The context deadline terminates the process; a stubborn child
// is killed after a grace period.
func runInstallCommand(ctx context.Context, root, name string, args []string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = root
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = 5 * time.Second

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "%s %v failed", name, args)
	}
	return nil
}

// promptConfirm asks a yes/no question on the terminal.
func promptConfirm(pkg string) (bool, error) {
	return pterm.DefaultInteractiveConfirm.
		WithDefaultValue(false).
		Show("Generator package " + pkg + " is not installed. Install it now?")
}
