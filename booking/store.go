package booking

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

type (
	// RecordStore persists countdown anchors: one hold-start timestamp per
	// pending reservation id. Once written, a start timestamp is stable until
	// the reservation leaves the pending state; in particular it must survive
	// process restarts so a countdown cannot be extended by relaunching the
	// app. Only the Monitor writes to the store.
	RecordStore interface {
		Get(reservationID int64) (time.Time, bool, error)
		Put(reservationID int64, start time.Time) error
		Delete(reservationID int64) error
		All() (map[int64]time.Time, error)
	}

	// MemoryStore is an in-memory RecordStore, used in tests and for callers
	// that do not want countdowns to survive restarts.
	MemoryStore struct {
		mu      sync.Mutex
		records map[int64]time.Time
	}

	// FileStore is a RecordStore backed by a JSON file, the durable local
	// storage equivalent for a headless client.
	FileStore struct {
		mu   sync.Mutex
		path string
	}
)

// NewMemoryStore creates an empty in-memory record store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[int64]time.Time{}}
}

// Get returns the hold-start timestamp for the reservation, if recorded.
func (s *MemoryStore) Get(reservationID int64) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start, ok := s.records[reservationID]
	return start, ok, nil
}

// Put records the hold-start timestamp for the reservation.
func (s *MemoryStore) Put(reservationID int64, start time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[reservationID] = start
	return nil
}

// Delete removes the record for the reservation. Deleting a missing record is
// not an error.
func (s *MemoryStore) Delete(reservationID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, reservationID)
	return nil
}

// All returns a copy of every record in the store.
func (s *MemoryStore) All() (map[int64]time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int64]time.Time, len(s.records))
	for id, start := range s.records {
		out[id] = start
	}
	return out, nil
}

// NewFileStore creates a record store persisted at path. The file is created
// lazily on the first Put.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file the store persists to.
func (s *FileStore) Path() string {
	return s.path
}

// Get returns the hold-start timestamp for the reservation, if recorded.
func (s *FileStore) Get(reservationID int64) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return time.Time{}, false, err
	}

	start, ok := records[reservationID]
	return start, ok, nil
}

// Put records the hold-start timestamp for the reservation.
func (s *FileStore) Put(reservationID int64, start time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	records[reservationID] = start
	return s.save(records)
}

// Delete removes the record for the reservation. Deleting a missing record is
// not an error.
func (s *FileStore) Delete(reservationID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	if _, ok := records[reservationID]; !ok {
		return nil
	}

	delete(records, reservationID)
	return s.save(records)
}

// All returns every record in the store.
func (s *FileStore) All() (map[int64]time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// load reads the record file. A missing file is an empty store.
func (s *FileStore) load() (map[int64]time.Time, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[int64]time.Time{}, nil
		}
		return nil, fmt.Errorf("error reading record store: %w", err)
	}

	records := map[int64]time.Time{}
	if len(data) == 0 {
		return records, nil
	}

	if err = json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("error decoding record store: %w", err)
	}

	return records, nil
}

// save rewrites the record file.
func (s *FileStore) save(records map[int64]time.Time) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("error encoding record store: %w", err)
	}

	if err = os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("error writing record store: %w", err)
	}

	return nil
}
