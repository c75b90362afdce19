package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestJSONFile_ReadMissing(t *testing.T) {
	f := NewJSONFile(filepath.Join(t.TempDir(), "missing.json"))

	var r record
	if err := f.Read(&r); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Read() error = %v, want ErrNotFound", err)
	}
}

func TestJSONFile_WriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "record.json")
	f := NewJSONFile(path)

	if err := f.Write(record{Name: "a", Count: 2}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	want := "{\n  \"name\": \"a\",\n  \"count\": 2\n}"
	if string(data) != want {
		t.Errorf("file content = %q, want %q", data, want)
	}

	var r record
	if err := f.Read(&r); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if r.Name != "a" || r.Count != 2 {
		t.Errorf("Read() = %+v", r)
	}
	if !f.Equal(record{Name: "a", Count: 2}) {
		t.Error("Equal() = false for identical content")
	}
	if f.Equal(record{Name: "b"}) {
		t.Error("Equal() = true for different content")
	}
}

func TestJSONFile_ReadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	var r record
	err := NewJSONFile(path).Read(&r)
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("Read() error = %v, want decode error", err)
	}
}

func TestJSONFile_ConcurrentWritesLeaveNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	f := NewJSONFile(filepath.Join(dir, "stats.json"))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if err := f.Write(record{Name: "w", Count: n}); err != nil {
				t.Errorf("Write() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}

	var r record
	if err := f.Read(&r); err != nil {
		t.Fatalf("Read() after concurrent writes error = %v", err)
	}
}

func TestJSONFile_WriteIntoFileAsDir(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	f := NewJSONFile(filepath.Join(blocker, "config.json"))
	if err := f.Write(record{}); err == nil {
		t.Error("Write() should fail when the parent is a regular file")
	}
}
