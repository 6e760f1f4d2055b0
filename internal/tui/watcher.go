package tui

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// dbWatcher reports writes to a sqlite database file, including its WAL and
// journal siblings. Bursts of events are collapsed into one notification.
type dbWatcher struct {
	path    string
	Changes <-chan struct{}

	changes chan struct{}
	done    chan struct{}
	watcher *fsnotify.Watcher
}

func newDBWatcher(dbPath string) (*dbWatcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(dbPath)); err != nil {
		fw.Close()
		return nil, err
	}

	ch := make(chan struct{}, 1)
	w := &dbWatcher{
		path:    filepath.Clean(dbPath),
		Changes: ch,
		changes: ch,
		done:    make(chan struct{}),
		watcher: fw,
	}
	go w.loop()
	return w, nil
}

func (w *dbWatcher) Stop() {
	w.watcher.Close()
	<-w.done
}

func (w *dbWatcher) loop() {
	defer close(w.done)

	const debounce = 250 * time.Millisecond
	var pending time.Time
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.isDBFile(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				pending = time.Now()
			}

		case <-ticker.C:
			if pending.IsZero() || time.Since(pending) < debounce {
				continue
			}
			pending = time.Time{}
			select {
			case w.changes <- struct{}{}:
			default:
				// A notification is already queued.
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *dbWatcher) isDBFile(name string) bool {
	name = filepath.Clean(name)
	if name == w.path {
		return true
	}
	return strings.HasPrefix(name, w.path+"-") // -wal, -shm, -journal
}
