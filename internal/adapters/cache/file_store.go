// Package cache persists the last known good trading snapshot on disk.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/andrescamacho/uexcorp-go/internal/domain/market"
)

// Format selects the on-disk encoding
type Format string

const (
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat converts a config value into a Format. Empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatMsgpack:
		return FormatMsgpack, nil
	}
	return "", fmt.Errorf("unknown cache format %q (expected json or msgpack)", s)
}

const fileBaseName = "uexcorp_snapshot"

// FileStore keeps one snapshot file per format inside a directory.
// Writes go to a temporary file that is renamed into place, so a crash never
// leaves a half written snapshot behind.
type FileStore struct {
	path   string
	format Format
}

// NewFileStore creates a store writing below dir
func NewFileStore(dir string, format Format) (*FileStore, error) {
	if format == "" {
		format = FormatJSON
	}
	if format != FormatJSON && format != FormatMsgpack {
		return nil, fmt.Errorf("unknown cache format %q", format)
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &FileStore{
		path:   filepath.Join(dir, fileBaseName+"."+string(format)),
		format: format,
	}, nil
}

// Path returns the snapshot file location
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the persisted snapshot. A missing file or a snapshot written by
// another format version yields market.ErrCacheMiss.
func (s *FileStore) Load(ctx context.Context) (market.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return market.Snapshot{}, err
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return market.Snapshot{}, market.ErrCacheMiss
	}
	if err != nil {
		return market.Snapshot{}, fmt.Errorf("failed to read snapshot cache: %w", err)
	}

	var snapshot market.Snapshot
	if err := s.unmarshal(data, &snapshot); err != nil {
		return market.Snapshot{}, fmt.Errorf("failed to parse snapshot cache: %w", err)
	}
	if snapshot.Version != market.SnapshotVersion {
		return market.Snapshot{}, fmt.Errorf("%w: %w (found %d, want %d)",
			market.ErrCacheMiss, market.ErrSnapshotVersion, snapshot.Version, market.SnapshotVersion)
	}
	return snapshot, nil
}

// Save atomically replaces the persisted snapshot
func (s *FileStore) Save(ctx context.Context, snapshot market.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if snapshot.Version == 0 {
		snapshot.Version = market.SnapshotVersion
	}
	data, err := s.marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot cache: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), fileBaseName+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create snapshot cache: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot cache: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync snapshot cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot cache: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace snapshot cache: %w", err)
	}
	return nil
}

// Clear removes the persisted snapshot
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove snapshot cache: %w", err)
	}
	return nil
}

func (s *FileStore) marshal(snapshot market.Snapshot) ([]byte, error) {
	if s.format == FormatMsgpack {
		return msgpack.Marshal(snapshot)
	}
	return json.Marshal(snapshot)
}

func (s *FileStore) unmarshal(data []byte, snapshot *market.Snapshot) error {
	if s.format == FormatMsgpack {
		return msgpack.Unmarshal(data, snapshot)
	}
	return json.Unmarshal(data, snapshot)
}
