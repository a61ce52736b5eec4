// Package docwatch reloads layout documents when their exported JSON files
// change on disk, so edits made outside the builder (another process, a text
// editor) flow back into the open session.
package docwatch

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"pagebuilder/internal/domain"
)

// DocumentChangedHandler is called with the parsed template when a watched
// file changes.
type DocumentChangedHandler func(templateID string, t *domain.LayoutTemplate)

// Watcher watches exported template files for external writes.
type Watcher struct {
	watcher  *fsnotify.Watcher
	onChange DocumentChangedHandler
	mu       sync.RWMutex
	watching map[string]string // filePath -> templateID
}

// New creates a new Watcher.
func New(onChange DocumentChangedHandler) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		watcher:  watcher,
		onChange: onChange,
		watching: make(map[string]string),
	}

	go w.watchLoop()

	return w, nil
}

// WatchFile starts watching a template's exported file for changes.
func (w *Watcher) WatchFile(templateID, filePath string) error {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.watching[absPath] = templateID
	w.mu.Unlock()

	// Watch the directory (fsnotify watches dirs for file events)
	dir := filepath.Dir(absPath)
	return w.watcher.Add(dir)
}

// StopWatching stops watching the file bound to a template.
func (w *Watcher) StopWatching(templateID string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for path, id := range w.watching {
		if id == templateID {
			delete(w.watching, path)
			break
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				absPath, _ := filepath.Abs(event.Name)
				w.mu.RLock()
				templateID, watched := w.watching[absPath]
				w.mu.RUnlock()

				if !watched {
					continue
				}
				data, err := os.ReadFile(absPath)
				if err != nil {
					log.Printf("docwatch: read file %s: %v", absPath, err)
					continue
				}
				t := &domain.LayoutTemplate{}
				if err := json.Unmarshal(data, t); err != nil {
					// Half-written or invalid JSON; skip until the next write
					log.Printf("docwatch: parse %s: %v", absPath, err)
					continue
				}
				if w.onChange != nil {
					w.onChange(templateID, t)
				}
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("docwatch: watcher error: %v", err)
		}
	}
}
