// Package watcher reports debounced changes to source files under a set of
// directories.
package watcher

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before accumulated changes are reported.
const DefaultDebounce = 500 * time.Millisecond

// SourceWatcher monitors source files for changes with debouncing.
type SourceWatcher interface {
	// Start begins watching, calling callback with each debounced batch of
	// changed files in lexical order.
	Start(ctx context.Context, callback func(files []string)) error

	// Stop stops the watcher and waits for the event loop to exit.
	Stop() error
}

type sourceWatcher struct {
	watcher  *fsnotify.Watcher
	match    func(path string) bool
	debounce time.Duration
	callback func(files []string)
	cancel   context.CancelFunc

	accumulated   map[string]bool
	accumulatedMu sync.Mutex
	debounceTimer *time.Timer
	timerMu       sync.Mutex
	stopOnce      sync.Once
	doneCh        chan struct{}
}

// New creates a watcher over dirs and their subdirectories. Only paths for
// which match returns true are reported. A non-positive debounce uses
// DefaultDebounce.
func New(dirs []string, match func(path string) bool, debounce time.Duration) (SourceWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	sw := &sourceWatcher{
		watcher:     w,
		match:       match,
		debounce:    debounce,
		accumulated: make(map[string]bool),
		doneCh:      make(chan struct{}),
	}

	for _, dir := range dirs {
		if err := sw.addRecursive(dir); err != nil {
			w.Close()
			return nil, err
		}
	}

	return sw, nil
}

func (sw *sourceWatcher) Start(ctx context.Context, callback func(files []string)) error {
	sw.callback = callback

	ctx, sw.cancel = context.WithCancel(ctx)
	go sw.loop(ctx)
	return nil
}

func (sw *sourceWatcher) Stop() error {
	var err error
	sw.stopOnce.Do(func() {
		if sw.cancel != nil {
			sw.cancel()
			<-sw.doneCh
		} else {
			close(sw.doneCh)
		}
		err = sw.watcher.Close()
	})
	return err
}

func (sw *sourceWatcher) loop(ctx context.Context) {
	defer close(sw.doneCh)

	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			sw.stopTimer()
			return

		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := sw.addRecursive(event.Name); err != nil {
						log.Printf("Warning: failed to watch new directory %s: %v", event.Name, err)
					}
					continue
				}
			}

			if !sw.relevant(event) {
				continue
			}

			sw.accumulatedMu.Lock()
			sw.accumulated[event.Name] = true
			sw.accumulatedMu.Unlock()

			sw.resetTimer(fire)

		case <-fire:
			sw.flush()

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("File watcher error: %v", err)
		}
	}
}

func (sw *sourceWatcher) flush() {
	sw.accumulatedMu.Lock()
	if len(sw.accumulated) == 0 {
		sw.accumulatedMu.Unlock()
		return
	}
	files := make([]string, 0, len(sw.accumulated))
	for file := range sw.accumulated {
		files = append(files, file)
	}
	sw.accumulated = make(map[string]bool)
	sw.accumulatedMu.Unlock()

	sort.Strings(files)
	if sw.callback != nil {
		sw.callback(files)
	}
}

// resetTimer restarts the quiet period; fire receives a signal when it ends.
func (sw *sourceWatcher) resetTimer(fire chan struct{}) {
	sw.timerMu.Lock()
	defer sw.timerMu.Unlock()

	if sw.debounceTimer != nil {
		sw.debounceTimer.Stop()
	}
	sw.debounceTimer = time.AfterFunc(sw.debounce, func() {
		select {
		case fire <- struct{}{}:
		default:
		}
	})
}

func (sw *sourceWatcher) stopTimer() {
	sw.timerMu.Lock()
	defer sw.timerMu.Unlock()

	if sw.debounceTimer != nil {
		sw.debounceTimer.Stop()
		sw.debounceTimer = nil
	}
}

func (sw *sourceWatcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return sw.match == nil || sw.match(event.Name)
}

func (sw *sourceWatcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			log.Printf("Warning: error accessing %s: %v", path, err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := sw.watcher.Add(path); err != nil {
			log.Printf("Warning: failed to watch directory %s: %v", path, err)
		}
		return nil
	})
}
