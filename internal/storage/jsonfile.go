package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotFound is returned by Read when the file does not exist.
var ErrNotFound = errors.New("storage: file not found")

const (
	dirPerm  = 0750
	filePerm = 0600
)

// JSONFile persists one JSON document at a fixed path.
//
// Writes go to a temporary file in the same directory, are fsynced, then
// renamed over the target, so readers see either the old or the new document.
// Concurrent Write calls on the same JSONFile are serialized.
type JSONFile struct {
	path string
	mu   sync.Mutex
}

// NewJSONFile returns a JSONFile for path. Nothing is touched on disk.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

// Path returns the target path.
func (f *JSONFile) Path() string {
	return f.path
}

// Read decodes the file into v.
func (f *JSONFile) Read(v any) error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("storage: read %s: %w", f.path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("storage: decode %s: %w", f.path, err)
	}
	return nil
}

// Write encodes v with two-space indentation and replaces the file.
func (f *JSONFile) Write(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", f.path, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("storage: create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tempPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tempPath) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("storage: write: %w", err)
	}
	if err := tmp.Chmod(filePerm); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("storage: chmod: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("storage: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("storage: close: %w", err)
	}
	if err := os.Rename(tempPath, f.path); err != nil {
		cleanup()
		return fmt.Errorf("storage: rename: %w", err)
	}
	return nil
}

// Equal reports whether the file currently holds the encoding of v. It is used to
// recognise change notifications caused by our own writes.
func (f *JSONFile) Equal(v any) bool {
	want, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return false
	}
	got, err := os.ReadFile(f.path)
	if err != nil {
		return false
	}
	return bytes.Equal(got, want)
}
