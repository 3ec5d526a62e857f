package blob

import (
	"errors"
	"os"

	"github.com/peterbourgon/diskv/v3"
)

// Diskv is a file-backed Store rooted at a base directory. Each key becomes
// one file; diskv writes via a temp file and rename, so individual writes
// are atomic.
type Diskv struct {
	d *diskv.Diskv
}

// NewDiskv opens (creating if needed) a file-backed store under basePath.
func NewDiskv(basePath string) (*Diskv, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, err
	}
	return &Diskv{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		CacheSizeMax: 1024 * 1024, // 1MB
	})}, nil
}

func (s *Diskv) Read(key string) (string, bool, error) {
	val, err := s.d.Read(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(val), true, nil
}

func (s *Diskv) Write(key, value string) error {
	return s.d.Write(key, []byte(value))
}
