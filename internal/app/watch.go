package app

import (
	"context"
	"time"

	"github.com/dshills/mattex/internal/config/watcher"
)

// RenderFunc receives the outcome of each render in watch mode.
type RenderFunc func(res *Result, err error)

// Watch renders once, then again whenever the config file or the script
// changes, until ctx is done. A failed reload keeps the previous
// configuration; a failed render is reported and watching continues.
func (app *Application) Watch(ctx context.Context, onRender RenderFunc, debounce time.Duration) error {
	if app.file == "" && app.cfg.Script == "" {
		return ErrWatchUnavailable
	}
	if onRender == nil {
		onRender = func(*Result, error) {}
	}

	w, err := watcher.New(watcher.WithLogger(app.logger), watcher.WithDebounce(debounce))
	if err != nil {
		return &InitError{Component: "watcher", Err: err}
	}
	defer w.Close()

	if err := app.watchFiles(w); err != nil {
		return &InitError{Component: "watcher", Err: err}
	}
	onRender(app.Render(ctx))

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			app.logger.Info("%s changed (%s), rendering", ev.Path, ev.Op)
			if app.file != "" {
				if err := app.Reload(); err != nil {
					app.logger.Error("reload failed, keeping previous config: %v", err)
					onRender(nil, err)
					continue
				}
				if err := app.watchFiles(w); err != nil {
					app.logger.Warn("%v", err)
				}
			}
			onRender(app.Render(ctx))

		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			app.logger.Warn("watch: %v", err)
		}
	}
}

func (app *Application) watchFiles(w *watcher.Watcher) error {
	for _, path := range []string{app.file, app.cfg.Script} {
		if path == "" {
			continue
		}
		if err := w.Add(path); err != nil {
			return err
		}
	}
	return nil
}
