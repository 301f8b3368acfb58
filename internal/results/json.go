package results

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// JSONStore keeps every record in a single JSON array file. Each call reads
// the whole file and Append rewrites it, so the file on disk is complete
// after every trial.
type JSONStore struct {
	path string
}

// NewJSON returns a JSONStore for path. The file need not exist yet.
func NewJSON(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Path returns the backing file path.
func (s *JSONStore) Path() string { return s.path }

// List reads all records. A missing file is an empty collection.
func (s *JSONStore) List(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "json store: list")
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "json store: read %s", s.path)
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, eris.Wrapf(err, "json store: decode %s", s.path)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// Exists reports whether a record with key k is stored.
func (s *JSONStore) Exists(ctx context.Context, k Key) (bool, error) {
	records, err := s.List(ctx)
	if err != nil {
		return false, err
	}
	return Find(records, k), nil
}

// Append adds r and rewrites the file.
func (s *JSONStore) Append(ctx context.Context, r Record) error {
	records, err := s.List(ctx)
	if err != nil {
		return err
	}
	if Find(records, r.Key()) {
		return eris.Wrapf(ErrDuplicate, "%s length=%d depth=%d version=%d", r.Model, r.ContextLength, r.DepthPercent, r.Version)
	}

	data, err := json.Marshal(append(records, r))
	if err != nil {
		return eris.Wrap(err, "json store: encode")
	}
	if err := writeFileAtomic(s.path, data, 0o644); err != nil {
		return eris.Wrapf(err, "json store: write %s", s.path)
	}
	return nil
}

// Close is a no-op.
func (s *JSONStore) Close() error { return nil }

// writeFileAtomic replaces path with content via a synced temp file and rename.
func writeFileAtomic(path string, content []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return eris.Wrap(err, "json store: create directory")
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return eris.Wrap(err, "json store: create temp file")
	}
	renamed := false
	defer func() {
		if !renamed {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return eris.Wrap(err, "json store: write temp file")
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return eris.Wrap(err, "json store: chmod temp file")
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return eris.Wrap(err, "json store: sync temp file")
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "json store: close temp file")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return eris.Wrap(err, "json store: rename temp file")
	}
	renamed = true
	return nil
}
