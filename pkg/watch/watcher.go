package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher reports changes to rule files below a directory.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	config   *FileWatcherConfig
	debounce *Debouncer

	mu      sync.Mutex
	running bool
}

// FileWatcherConfig configures a FileWatcher.
type FileWatcherConfig struct {
	// Path is the file or directory to watch.
	Path string

	// Debounce is the quiet period before onChange runs (default: 500ms).
	Debounce time.Duration

	// Extensions selects the files whose events count (default: .drl).
	Extensions []string

	// SkipHidden ignores dot files and dot directories.
	SkipHidden bool
}

// DefaultFileWatcherConfig returns the default watcher configuration.
func DefaultFileWatcherConfig() *FileWatcherConfig {
	return &FileWatcherConfig{
		Debounce:   500 * time.Millisecond,
		Extensions: []string{".drl"},
		SkipHidden: true,
	}
}

// NewFileWatcher creates a file watcher.
func NewFileWatcher(cfg *FileWatcherConfig, logger *slog.Logger) (*FileWatcher, error) {
	if cfg == nil {
		cfg = DefaultFileWatcherConfig()
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 500 * time.Millisecond
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{".drl"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &FileWatcher{
		watcher:  w,
		logger:   logger,
		config:   cfg,
		debounce: NewDebouncer(cfg.Debounce),
	}, nil
}

// Watch blocks until ctx is cancelled, calling onChange once per burst of
// rule file events. Directories created while watching are added.
func (fw *FileWatcher) Watch(ctx context.Context, onChange func(path string)) error {
	fw.mu.Lock()
	if fw.running {
		fw.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	fw.running = true
	fw.mu.Unlock()

	defer func() {
		fw.debounce.Stop()
		fw.watcher.Close()
		fw.mu.Lock()
		fw.running = false
		fw.mu.Unlock()
	}()

	if err := fw.addPath(fw.config.Path); err != nil {
		return fmt.Errorf("failed to watch path: %w", err)
	}

	fw.logger.Info("file watcher started",
		"path", fw.config.Path,
		"debounce_ms", fw.config.Debounce.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			fw.logger.Info("file watcher stopped")
			return nil

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !fw.hidden(event.Name) {
					if err := fw.addDirectory(event.Name); err != nil {
						fw.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
					}
					continue
				}
			}

			if !fw.shouldProcess(event) {
				continue
			}

			fw.logger.Debug("rule file event", "path", event.Name, "op", event.Op.String())

			name := event.Name
			fw.debounce.Trigger(func() { onChange(name) })

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			fw.logger.Error("file watcher error", "error", err)
		}
	}
}

// WatchedDirs returns the directories currently registered with fsnotify.
func (fw *FileWatcher) WatchedDirs() []string {
	dirs := fw.watcher.WatchList()
	slices.Sort(dirs)
	return dirs
}

func (fw *FileWatcher) addPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fw.addDirectory(path)
	}
	return fw.watcher.Add(path)
}

func (fw *FileWatcher) addDirectory(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && fw.hidden(path) {
			return filepath.SkipDir
		}
		if err := fw.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %q: %w", path, err)
		}
		fw.logger.Debug("watching directory", "path", path)
		return nil
	})
}

func (fw *FileWatcher) shouldProcess(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	if fw.hidden(event.Name) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	for _, valid := range fw.config.Extensions {
		if ext == strings.ToLower(valid) {
			return true
		}
	}
	return false
}

func (fw *FileWatcher) hidden(path string) bool {
	return fw.config.SkipHidden && strings.HasPrefix(filepath.Base(path), ".")
}
