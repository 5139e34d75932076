package content

import (
	"context"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Store holds the content currently served. It is safe for concurrent use.
type Store struct {
	current atomic.Pointer[Site]
	onSwap  []func(*Site)
}

// NewStore returns a Store serving site.
func NewStore(site *Site) *Store {
	s := &Store{}
	s.current.Store(site)
	return s
}

// Site returns the content currently served.
func (s *Store) Site() *Site {
	return s.current.Load()
}

// Replace swaps in a new content set.
func (s *Store) Replace(site *Site) {
	s.current.Store(site)
	for _, fn := range s.onSwap {
		fn(site)
	}
}

// OnReplace registers fn to run after every Replace. It must be called before
// the store is shared.
func (s *Store) OnReplace(fn func(*Site)) {
	s.onSwap = append(s.onSwap, fn)
}

// Watch reloads the content tables from dir whenever one of them changes. It
// runs until ctx is cancelled.
//
// A reload that fails to parse or validate is logged and the previous content
// stays in place.
func (s *Store) Watch(ctx context.Context, dir string, logger *zap.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return err
	}

	tables := make(map[string]bool, len(Files))
	for _, f := range Files {
		tables[f] = true
	}

	logger.Info("content: watching for changes", zap.String("dir", dir))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !tables[filepath.Base(event.Name)] {
				continue
			}
			// Atomic saves show up as Create or Rename rather than Write.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			site, err := LoadDir(dir)
			if err != nil {
				logger.Error("content: reload failed, keeping previous content",
					zap.String("file", event.Name), zap.Error(err))
				continue
			}
			s.Replace(site)
			logger.Info("content: reloaded", zap.String("file", event.Name),
				zap.Int("services", len(site.Services)),
				zap.Int("projects", len(site.Projects)),
				zap.Int("posts", len(site.Posts)))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("content: watcher error", zap.Error(err))
		}
	}
}
