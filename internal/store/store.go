package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/crucial707/habitguard/internal/blob"
	"github.com/crucial707/habitguard/internal/models"
)

// Logical keys in the blob store.
const (
	KeySchedule   = "schedule"
	KeyMonitoring = "monitoring"
	KeyLastReset  = "last_reset"
)

// PersistError wraps an I/O failure from the blob store. The in-memory and
// on-disk state are untouched when one is returned.
type PersistError struct {
	Op  string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Op, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// Store owns the weekly schedule and the monitoring flag. It is the only
// component that touches the blob store for those keys, and it serializes
// every read-modify-write cycle behind one mutex so the reset scheduler's
// bulk clear and the recorder's single-flag set can never interleave.
type Store struct {
	mu    sync.Mutex
	blobs blob.Store
}

// New returns a Store over the given persistence collaborator.
func New(b blob.Store) *Store {
	return &Store{blobs: b}
}

// Get returns a copy of the persisted schedule. A missing blob reads as an
// empty schedule; a malformed blob is logged and also reads as empty rather
// than failing the caller (the stored bytes are left alone until the next Put).
func (s *Store) Get() (models.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readSchedule()
}

// Put serializes and writes the entire schedule.
func (s *Store) Put(sched models.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeSchedule(sched)
}

// Mutate runs fn over the current schedule and writes the result back, all
// inside the store's critical section. fn receives its own copy; returning an
// error aborts without writing.
func (s *Store) Mutate(fn func(models.Schedule) (models.Schedule, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sched, err := s.readSchedule()
	if err != nil {
		return err
	}
	next, err := fn(sched)
	if err != nil {
		return err
	}
	return s.writeSchedule(next)
}

// IsMonitoringEnabled reports the persisted monitoring flag (default false).
func (s *Store) IsMonitoringEnabled() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readMonitoring()
}

// SetMonitoringEnabled stores the flag and returns the new value.
func (s *Store) SetMonitoringEnabled(enabled bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.blobs.Write(KeyMonitoring, strconv.FormatBool(enabled)); err != nil {
		return false, &PersistError{Op: "write monitoring", Err: err}
	}
	return enabled, nil
}

// ToggleMonitoringEnabled flips the flag and returns the new value.
func (s *Store) ToggleMonitoringEnabled() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, err := s.readMonitoring()
	if err != nil {
		return false, err
	}
	next := !cur
	if err := s.blobs.Write(KeyMonitoring, strconv.FormatBool(next)); err != nil {
		return false, &PersistError{Op: "write monitoring", Err: err}
	}
	return next, nil
}

// LastResetDay returns the calendar day ("2006-01-02") of the last completed
// daily reset, or "" when none has run yet.
func (s *Store) LastResetDay() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok, err := s.blobs.Read(KeyLastReset)
	if err != nil {
		return "", &PersistError{Op: "read last reset", Err: err}
	}
	if !ok {
		return "", nil
	}
	return v, nil
}

// SetLastResetDay records the calendar day of a completed reset.
func (s *Store) SetLastResetDay(day string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.blobs.Write(KeyLastReset, day); err != nil {
		return &PersistError{Op: "write last reset", Err: err}
	}
	return nil
}

// readSchedule must be called with s.mu held.
func (s *Store) readSchedule() (models.Schedule, error) {
	raw, ok, err := s.blobs.Read(KeySchedule)
	if err != nil {
		return nil, &PersistError{Op: "read schedule", Err: err}
	}
	if !ok || raw == "" {
		return models.Schedule{}, nil
	}
	var sched models.Schedule
	if err := json.Unmarshal([]byte(raw), &sched); err != nil {
		slog.Warn("store: malformed schedule blob, treating as empty", "error", err)
		return models.Schedule{}, nil
	}
	if sched == nil {
		sched = models.Schedule{}
	}
	return sched, nil
}

// writeSchedule must be called with s.mu held.
func (s *Store) writeSchedule(sched models.Schedule) error {
	data, err := json.Marshal(sched)
	if err != nil {
		return &PersistError{Op: "encode schedule", Err: err}
	}
	if err := s.blobs.Write(KeySchedule, string(data)); err != nil {
		return &PersistError{Op: "write schedule", Err: err}
	}
	return nil
}

// readMonitoring must be called with s.mu held.
func (s *Store) readMonitoring() (bool, error) {
	v, ok, err := s.blobs.Read(KeyMonitoring)
	if err != nil {
		return false, &PersistError{Op: "read monitoring", Err: err}
	}
	if !ok {
		return false, nil
	}
	enabled, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("store: malformed monitoring blob, treating as disabled", "value", v)
		return false, nil
	}
	return enabled, nil
}
