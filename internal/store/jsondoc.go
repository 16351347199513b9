package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// PersistenceError wraps an I/O or decoding failure on a JSON document.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Doc is a JSON object on disk mapping YYYY-MM-DD keys to values of T.
// Every write rewrites the whole file. A single process is assumed; there
// is no file locking.
type Doc[T any] struct {
	path string
}

func NewDoc[T any](path string) *Doc[T] {
	return &Doc[T]{path: path}
}

func (d *Doc[T]) Path() string { return d.path }

// Load reads the whole document. A missing file is an empty mapping.
func (d *Doc[T]) Load() (map[string]T, error) {
	data, err := os.ReadFile(d.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]T{}, nil
	}
	if err != nil {
		return nil, &PersistenceError{Op: "read", Path: d.path, Err: err}
	}
	m := map[string]T{}
	if len(data) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, &PersistenceError{Op: "decode", Path: d.path, Err: err}
	}
	return m, nil
}

// Get returns the value at key, or T's zero value and false when absent.
func (d *Doc[T]) Get(key string) (T, bool, error) {
	var zero T
	m, err := d.Load()
	if err != nil {
		return zero, false, err
	}
	v, ok := m[key]
	return v, ok, nil
}

// Put stores v at key, keeping every other key as read from disk.
func (d *Doc[T]) Put(key string, v T) error {
	m, err := d.Load()
	if err != nil {
		return err
	}
	m[key] = v
	return d.write(m)
}

// Keys returns all keys in ascending order.
func (d *Doc[T]) Keys() ([]string, error) {
	m, err := d.Load()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (d *Doc[T]) write(m map[string]T) error {
	data, err := json.MarshalIndent(m, "", "    ")
	if err != nil {
		return &PersistenceError{Op: "encode", Path: d.path, Err: err}
	}
	if err := os.MkdirAll(filepath.Dir(d.path), 0o755); err != nil {
		return &PersistenceError{Op: "mkdir", Path: d.path, Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(d.path), filepath.Base(d.path)+".*.tmp")
	if err != nil {
		return &PersistenceError{Op: "write", Path: d.path, Err: err}
	}
	defer os.Remove(tmp.Name())

	// CreateTemp opens 0600; keep the mode the user's file already had.
	mode := os.FileMode(0o644)
	if fi, err := os.Stat(d.path); err == nil {
		mode = fi.Mode().Perm()
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return &PersistenceError{Op: "chmod", Path: d.path, Err: err}
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &PersistenceError{Op: "write", Path: d.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &PersistenceError{Op: "write", Path: d.path, Err: err}
	}
	if err := os.Rename(tmp.Name(), d.path); err != nil {
		return &PersistenceError{Op: "rename", Path: d.path, Err: err}
	}
	return nil
}
