package blob

import (
	"errors"
	"sync"
)

// Memory is an in-process Store. Used by tests and for ephemeral runs.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string

	// FailWrites makes every Write return FailErr, for error-path tests.
	FailWrites bool
	FailErr    error
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (s *Memory) Read(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *Memory) Write(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		if s.FailErr != nil {
			return s.FailErr
		}
		return errors.New("write failed")
	}
	s.data[key] = value
	return nil
}
