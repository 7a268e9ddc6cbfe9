package commands

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"
)

// watchCheck checks once, then again after every burst of changes to a
// .dx file, until the context is cancelled or the process is interrupted.
func watchCheck(ctx context.Context, cc *CommandContext, args []string, opts *CheckOptions) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	roots := args
	if len(roots) == 0 {
		roots = []string{cc.Cfg.ProjectRoot}
	}
	for _, root := range roots {
		if err := watchDirRecursive(watcher, root); err != nil {
			return err
		}
	}

	changed := make(chan struct{}, 1)
	eg, egctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		return debounceEvents(egctx, watcher, cc.Cfg.Watch.Debounce, changed, cc.Logger)
	})

	eg.Go(func() error {
		for {
			runWatchedCheck(egctx, cc, args, opts)
			cc.Renderer.Muted("Watching for changes...")
			select {
			case <-egctx.Done():
				return nil
			case <-changed:
			}
		}
	})

	return eg.Wait()
}

func runWatchedCheck(ctx context.Context, cc *CommandContext, args []string, opts *CheckOptions) {
	files, err := expandInputs(args, cc.Cfg.ProjectRoot, cc.Cfg.Include)
	if err != nil {
		cc.Renderer.Error(err.Error())
		return
	}
	res, err := checkFiles(ctx, cc, files, opts)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			cc.Renderer.Error(err.Error())
		}
		return
	}
	if err := cc.Renderer.CheckResult(res); err != nil {
		cc.Logger.Error("failed to render check", slog.String("error", err.Error()))
	}
}

// debounceEvents signals changed once no relevant event has arrived for
// the debounce delay.
func debounceEvents(ctx context.Context, watcher *fsnotify.Watcher, delay time.Duration, changed chan<- struct{}, logger *slog.Logger) error {
	timer := time.NewTimer(delay)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				// new directories need their own watch
				_ = watchDirRecursive(watcher, event.Name)
			}
			if !relevantEvent(event) {
				continue
			}
			logger.Debug("file changed", slog.String("file", event.Name), slog.String("op", event.Op.String()))
			timer.Reset(delay)

		case <-timer.C:
			select {
			case changed <- struct{}{}:
			default:
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", slog.String("error", err.Error()))
		}
	}
}

func relevantEvent(event fsnotify.Event) bool {
	if filepath.Ext(event.Name) != sourceExt {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}

// watchDirRecursive adds a directory and all subdirectories to the watcher.
func watchDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDir(path, dir) {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
}
