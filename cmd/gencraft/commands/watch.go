package commands

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pterm/pterm"

	"github.com/gencraft/gencraft/config"
	"github.com/gencraft/gencraft/errors"
	"github.com/gencraft/gencraft/logger"
)

// watchDebounce coalesces the burst of events editors emit on save.
const watchDebounce = 500 * time.Millisecond

// runGenerateWatch runs generation once, then re-runs it whenever the
// input spec changes. Edits to the project config file also trigger a
// re-run, so alias and install-policy changes apply without a restart.
// Blocks until interrupted.
func runGenerateWatch(ctx context.Context, root, input string, runOnce func(context.Context) error) error {
	if input == "" {
		return errors.New("watch mode requires --input")
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create file watcher")
	}
	defer watcher.Close()

	if err := watcher.Add(input); err != nil {
		return errors.Wrapf(err, "failed to watch %s", input)
	}

	configReloaded := make(chan struct{}, 1)
	if configPath := findWatchConfig(root); configPath != "" {
		cw, err := config.NewWatcher(configPath)
		if err != nil {
			logger.Warnw("Config file not watchable", "path", configPath, "error", err)
		} else {
			cw.OnReload(func(*config.Config) error {
				select {
				case configReloaded <- struct{}{}:
				default:
				}
				return nil
			})
			cw.Start()
			defer cw.Stop()
		}
	}

	runGuarded := func() {
		if err := runOnce(ctx); err != nil {
			// Keep watching; a broken spec mid-edit is normal.
			pterm.Error.Printf("Generation failed: %v\n", err)
		}
	}

	runGuarded()
	pterm.Info.Printf("Watching %s for changes (Ctrl-C to stop)\n", input)

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, runGuarded)

		case <-configReloaded:
			// Drop the memoized config so the next run's host rebuild
			// actually re-reads the file.
			config.Reset()
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, runGuarded)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnw("File watcher error", "error", err)
		}
	}
}

// findWatchConfig locates the project config file for the watch session.
func findWatchConfig(root string) string {
	if root != "" {
		return config.FindProjectConfigFrom(root)
	}
	return config.FindProjectConfig()
}
