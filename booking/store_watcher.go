package booking

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// watchStoreFile watches the record store file for rewrites by another process
// sharing it, for example a second instance of the app resolving a
// reservation. Watches whose records disappeared externally are resolved so
// both instances converge.
func (m *Monitor) watchStoreFile() {
	defer m.wg.Done()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		m.pushError(fmt.Errorf("error creating record store watcher: %w", err))
		return
	}
	defer func() {
		_ = w.Close()
	}()

	// Watch the directory: the store file may not exist until the first Put.
	if err = w.Add(filepath.Dir(m.storeFile)); err != nil {
		m.pushError(fmt.Errorf("error watching record store: %w", err))
		return
	}

	for {
		select {
		case evt, ok := <-w.Events:
			if !ok {
				return
			}

			// Ignore events for other files.
			if evt.Name != m.storeFile {
				continue
			}

			if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove) == 0 {
				continue
			}

			m.reconcileStore()

		case err, ok := <-w.Errors:
			if !ok {
				return
			}

			m.pushError(fmt.Errorf("error watching record store: %w", err))

		case <-m.done:
			return
		}
	}
}

// reconcileStore resolves running watches whose records no longer exist in the
// store. Records the monitor deleted itself belong to watches already in a
// terminal state, so they are skipped here.
func (m *Monitor) reconcileStore() {
	records, err := m.store.All()
	if err != nil {
		m.pushError(fmt.Errorf("error reloading record store: %w", err))
		return
	}

	m.mu.Lock()
	var resolved []int64
	for id, w := range m.watches {
		if w.state != WatchRunning {
			continue
		}
		if _, ok := records[id]; !ok {
			w.state = WatchResolved
			resolved = append(resolved, id)
		}
	}
	m.mu.Unlock()

	for _, id := range resolved {
		m.notify(m.chanResolved, id)
	}
}
