package localcart

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"greenville/internal/domain"
)

// Snapshot is the durably persisted slice of store state. Shipping info is
// intentionally absent: only items, the derived count and the coupon
// survive a restart.
type Snapshot struct {
	Items  []domain.LineItem `json:"items"`
	Count  int               `json:"count"`
	Coupon string            `json:"coupon,omitempty"`
}

// Persister stores and restores cart snapshots across restarts.
type Persister interface {
	// Load returns the stored snapshot, or nil when none exists yet.
	Load() (*Snapshot, error)
	Save(Snapshot) error
}

// FilePersister keeps the snapshot as a JSON file on disk.
type FilePersister struct {
	path string
}

func NewFilePersister(path string) *FilePersister {
	return &FilePersister{path: path}
}

func (f *FilePersister) Load() (*Snapshot, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (f *FilePersister) Save(snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(f.path, data, 0o600)
}
