package watch

import (
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports debounced changes to a schema file and to the *.json
// files of a content directory. A nil value on Update means "rerun";
// Update is closed once the watcher stops.
type Watcher struct {
	watcher      *fsnotify.Watcher
	schema       string
	content      string
	timer        *time.Timer
	debounceTime time.Duration

	mu       sync.Mutex
	closed   bool
	onUpdate chan<- error
	Update   <-chan error
}

const relevantOps = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

// Watch starts watching. The schema's parent directory is watched instead
// of the file itself so editors that replace the file are still seen.
func Watch(schemaPath, contentDir string, debounceTime time.Duration) (*Watcher, error) {
	schema, err := filepath.Abs(schemaPath)
	if err != nil {
		return nil, err
	}

	content, err := filepath.Abs(contentDir)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dirs := []string{filepath.Dir(schema)}
	if !slices.Contains(dirs, content) {
		dirs = append(dirs, content)
	}

	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, err
		}
	}

	updateCh := make(chan error, 1)

	out := &Watcher{
		watcher:      watcher,
		schema:       schema,
		content:      content,
		debounceTime: debounceTime,
		onUpdate:     updateCh,
		Update:       updateCh,
	}

	go out.process()

	return out, nil
}

// Close stops watching; Update is closed shortly after.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(relevantOps) {
		return false
	}

	name, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}

	if name == w.schema {
		return true
	}

	return filepath.Dir(name) == w.content && filepath.Ext(name) == ".json"
}

func (w *Watcher) notify(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}

	select {
	case w.onUpdate <- err:
	default:
		// a pending update already covers this one
	}
}

func (w *Watcher) debounceUpdate() {
	if w.timer != nil {
		w.timer.Stop()
	}

	w.timer = time.AfterFunc(w.debounceTime, func() {
		w.notify(nil)
	})
}

// shutdown closes Update; a debounce timer firing later is dropped.
func (w *Watcher) shutdown() {
	if w.timer != nil {
		w.timer.Stop()
	}

	w.mu.Lock()
	w.closed = true
	close(w.onUpdate)
	w.mu.Unlock()
}

func (w *Watcher) process() {
	defer w.shutdown()

	for {
		select {
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.notify(err)
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if w.relevant(ev) {
				w.debounceUpdate()
			}
		}
	}
}
