package config

import (
	"context"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Holder publishes the active *File to concurrent readers. Files are never
// mutated after Store, so a Settings value taken from Current stays valid
// for the whole request that took it.
type Holder struct {
	v atomic.Pointer[File]
}

func NewHolder(f *File) *Holder {
	h := &Holder{}
	h.Store(f)
	return h
}

func (h *Holder) Current() *File { return h.v.Load() }

func (h *Holder) Store(f *File) {
	if f == nil {
		f = Default()
	}
	h.v.Store(f)
}

// Watch reloads path into h whenever it changes, until ctx is done. The
// parent directory is watched so editors that replace the file by rename
// are seen too (the new file arrives as a Create). A file that fails to
// load is logged and the previous configuration stays active.
func Watch(ctx context.Context, path string, h *Holder, logger *zap.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return err
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !isReload(ev, path) {
					continue
				}
				f, err := Load(path)
				if err != nil {
					logger.Warn("config reload failed, keeping previous", zap.String("path", path), zap.Error(err))
					continue
				}
				h.Store(f)
				logger.Info("config reloaded", zap.String("path", path))
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("config watcher error", zap.Error(err))
			}
		}
	}()

	return nil
}

// isReload reports whether ev changed the contents at path.
func isReload(ev fsnotify.Event, path string) bool {
	if filepath.Clean(ev.Name) != filepath.Clean(path) {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)
}
