package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/bassista/go_quotes/internal/logger"
	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 200 * time.Millisecond

var validKey = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// FileStorage keeps one JSON file per key inside a directory.
// Writes go through a temp file and rename, so readers never see a partial snapshot.
type FileStorage struct {
	dir string
	mu  sync.Mutex
}

// Compile-time interface check.
var _ WatchableStorage = (*FileStorage)(nil)

// NewFileStorage creates a storage rooted at dir, creating the directory if needed.
func NewFileStorage(dir string) (*FileStorage, error) {
	if dir == "" {
		return nil, errors.New("storage dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileStorage{dir: dir}, nil
}

// Path returns the file backing key.
func (s *FileStorage) Path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get reads the file for key. A missing file is reported as absent, not as an error.
func (s *FileStorage) Get(_ context.Context, key string) ([]byte, bool, error) {
	if err := checkKey(key); err != nil {
		return nil, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	return data, true, nil
}

// Set writes the value for key atomically.
func (s *FileStorage) Set(_ context.Context, key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeUnlocked(key, value)
}

// Remove deletes the file for key.
func (s *FileStorage) Remove(_ context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// writeUnlocked writes the value without acquiring the lock (caller must hold it).
func (s *FileStorage) writeUnlocked(key string, value []byte) error {
	path := s.Path(key)
	tmpFile, err := os.CreateTemp(s.dir, filepath.Base(path)+".tmp-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
	}()

	if _, err := tmpFile.Write(value); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpFile.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", key, err)
	}
	return nil
}

// Watch calls onChange after the file for key changes on disk.
// It watches the directory (not the file) so temp+rename replacements are still
// observed, filters by basename and debounces bursts of write/chmod/rename events
// into a single callback. Cancel ctx to stop the goroutine and close the watcher.
func (s *FileStorage) Watch(ctx context.Context, key string, onChange func()) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if onChange == nil {
		return errors.New("onChange callback is required")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch dir: %w", err)
	}

	base := filepath.Base(s.Path(key))
	log := logger.WithComponent("storage").WithField("key", key)

	go func() {
		defer watcher.Close()

		var debounce *time.Timer
		defer func() {
			if debounce != nil {
				debounce.Stop()
			}
		}()
		schedule := func() {
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, onChange)
		}

		for {
			select {
			case <-ctx.Done():
				log.Debugf("watcher stopped")
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != base {
					continue
				}
				// Remove/Rename alone means the file is being replaced; the Create that follows
				// reschedules the same debounce, so one reload still happens.
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Chmod|fsnotify.Remove|fsnotify.Rename) != 0 {
					log.Tracef("fs event %s", event.Op)
					schedule()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warnf("watcher error: %v", err)
			}
		}
	}()

	return nil
}

func checkKey(key string) error {
	if !validKey.MatchString(key) {
		return fmt.Errorf("invalid storage key %q", key)
	}
	return nil
}
