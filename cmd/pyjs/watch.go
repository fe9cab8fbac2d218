package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// watch runs fn once, then again every time path is written. Compile and
// I/O errors are reported and watching continues; other errors stop it.
func (a *app) watch(ctx context.Context, path string, fn func() error) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return &exitError{code: ExitIOError, err: err}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return &exitError{code: ExitIOError, err: fmt.Errorf("failed to start watcher: %w", err)}
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory: editors often replace the file on save
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return &exitError{code: ExitIOError, err: fmt.Errorf("failed to watch %s: %w", path, err)}
	}

	runOnce := func() error {
		err := fn()
		if err != nil && recoverable(err) {
			a.report(err)
			return nil
		}
		return err
	}
	if err := runOnce(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			a.logger.Debug("change detected", "path", ev.Name, "op", ev.Op.String())
			if err := runOnce(); err != nil {
				return err
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn("watch error", "error", err)
		}
	}
}

// recoverable reports errors a later save can clear: bad source, or a
// file that is briefly missing while an editor replaces it.
func recoverable(err error) bool {
	if isCompileError(err) {
		return true
	}
	var ee *exitError
	return errors.As(err, &ee) && ee.code == ExitIOError
}
