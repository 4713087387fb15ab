package utility

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// ChangeDetector reports content changes of a file by comparing md5 sums, so
// editor writes that leave the content unchanged are ignored.
type ChangeDetector struct {
	Path string
	Hash string
}

func NewChangeDetector(path string) *ChangeDetector {
	return &ChangeDetector{Path: path}
}

// Changed recomputes the hash and reports whether it differs from the last
// one seen. The first successful call always reports a change.
func (cd *ChangeDetector) Changed() (bool, error) {
	hash, err := Filemd5sum(cd.Path)
	if err != nil {
		slog.Error("Failed to calculate file hash", "error", err, "path", cd.Path)
		return false, err
	}
	slog.Debug("File hash check", "previous_hash", cd.Hash, "current_hash", hash)
	if cd.Hash == hash {
		return false, nil
	}
	slog.Info("File content changed", "path", cd.Path, "old_hash", cd.Hash, "new_hash", hash)
	cd.Hash = hash
	return true, nil
}

// WatchFile calls onChange once at start and again whenever the content of
// path changes, until ctx is done. The parent directory is watched so that
// editors replacing the file atomically are still seen.
func WatchFile(ctx context.Context, path string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return err
	}

	detector := NewChangeDetector(absPath)
	if changed, _ := detector.Changed(); changed {
		onChange()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != absPath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if changed, err := detector.Changed(); err == nil && changed {
				onChange()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("File watcher error", "path", absPath, "error", err)
		}
	}
}
