// Package store persists per-package update-check state as one JSON document
// per package under the user's config directory.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Store is a small key-value store backed by a single JSON file. Keys are
// gjson/sjson paths ("update.latest").
type Store struct {
	path    string
	lock    *FileLock
	created bool
}

// FilePath returns where the document for packageName lives inside configDir.
func FilePath(configDir, packageName string) string {
	return filepath.Join(configDir, "configstore", "update-notifier-"+packageName+".json")
}

// Open opens (creating if needed) the document for packageName. Missing
// defaults are filled in: optOut=false and lastUpdateCheck=now, so the check
// interval starts counting from the first run.
func Open(configDir, packageName string, now time.Time) (*Store, error) {
	s := &Store{path: FilePath(configDir, packageName)}
	s.lock = NewFileLock(s.path + ".lock")

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return nil, &AccessError{Op: "mkdir", Path: filepath.Dir(s.path), Err: err}
	}

	err := s.modify(func(doc []byte) ([]byte, error) {
		var err error
		if !gjson.GetBytes(doc, KeyOptOut).Exists() {
			if doc, err = sjson.SetBytes(doc, KeyOptOut, false); err != nil {
				return nil, err
			}
		}
		if !gjson.GetBytes(doc, KeyLastUpdateCheck).Exists() {
			s.created = true
			if doc, err = sjson.SetBytes(doc, KeyLastUpdateCheck, now.UnixMilli()); err != nil {
				return nil, err
			}
		}
		return doc, nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Created reports whether Open had to seed the check timestamp, i.e. this is
// the first run that has seen the package.
func (s *Store) Created() bool { return s.created }

// Path returns the document's file path.
func (s *Store) Path() string { return s.path }

// Get returns the value at key. The result's Exists reports presence.
func (s *Store) Get(key string) (gjson.Result, error) {
	doc, err := s.read()
	if err != nil {
		return gjson.Result{}, err
	}
	return gjson.GetBytes(doc, key), nil
}

// Set stores value at key.
func (s *Store) Set(key string, value any) error {
	return s.modify(func(doc []byte) ([]byte, error) {
		return sjson.SetBytes(doc, key, value)
	})
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	return s.modify(func(doc []byte) ([]byte, error) {
		return sjson.DeleteBytes(doc, key)
	})
}

// Peek reads the document for packageName without creating or seeding it.
// exists is false when no run has written the file yet.
func Peek(configDir, packageName string) (st CheckState, exists bool, err error) {
	s := &Store{path: FilePath(configDir, packageName)}
	if _, err := os.Stat(s.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return CheckState{}, false, nil
		}
		return CheckState{}, false, &AccessError{Op: "stat", Path: s.path, Err: err}
	}
	st, err = s.State()
	return st, true, err
}

// State returns the typed document.
func (s *Store) State() (CheckState, error) {
	var st CheckState
	doc, err := s.read()
	if err != nil {
		return st, err
	}
	if err := json.Unmarshal(doc, &st); err != nil {
		return CheckState{}, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return st, nil
}

// TakeUpdate returns the pending result, if any, and removes it in the same
// write. A result is therefore handed out at most once.
func (s *Store) TakeUpdate() (*UpdateResult, error) {
	var taken *UpdateResult
	err := s.modify(func(doc []byte) ([]byte, error) {
		raw := gjson.GetBytes(doc, KeyUpdate)
		if !raw.Exists() || !raw.IsObject() {
			if raw.Exists() {
				return sjson.DeleteBytes(doc, KeyUpdate)
			}
			return doc, nil
		}
		var res UpdateResult
		if err := json.Unmarshal([]byte(raw.Raw), &res); err != nil {
			return nil, fmt.Errorf("decode update: %w", err)
		}
		taken = &res
		return sjson.DeleteBytes(doc, KeyUpdate)
	})
	if err != nil {
		return nil, err
	}
	return taken, nil
}

// RecordCheck writes the check timestamp and, when res is non-nil, the
// pending result as one atomic replacement of the file.
func (s *Store) RecordCheck(at time.Time, res *UpdateResult) error {
	return s.modify(func(doc []byte) ([]byte, error) {
		doc, err := sjson.SetBytes(doc, KeyLastUpdateCheck, at.UnixMilli())
		if err != nil {
			return nil, err
		}
		if res == nil {
			return doc, nil
		}
		return sjson.SetBytes(doc, KeyUpdate, res)
	})
}

// SetOptOut toggles the permanent per-package opt-out.
func (s *Store) SetOptOut(optOut bool) error {
	return s.Set(KeyOptOut, optOut)
}

// Reset replaces the document with fresh defaults.
func (s *Store) Reset(now time.Time) error {
	return s.modify(func([]byte) ([]byte, error) {
		return json.Marshal(CheckState{LastUpdateCheck: now.UnixMilli()})
	})
}

// read returns the current document. A missing or corrupt file reads as an
// empty object.
func (s *Store) read() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []byte("{}"), nil
		}
		return nil, &AccessError{Op: "read", Path: s.path, Err: err}
	}
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		return []byte("{}"), nil
	}
	return data, nil
}

// modify runs a locked read-modify-write cycle.
func (s *Store) modify(fn func(doc []byte) ([]byte, error)) error {
	if err := s.lock.Lock(); err != nil {
		return &AccessError{Op: "lock", Path: s.lock.path, Err: err}
	}
	defer s.lock.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	out, err := fn(doc)
	if err != nil {
		return err
	}
	return writeAtomic(s.path, out)
}

// writeAtomic writes data to a temp file in the same directory and renames
// it over path, so readers never observe a torn document.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return &AccessError{Op: "write", Path: path, Err: err}
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return &AccessError{Op: "write", Path: path, Err: err}
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return &AccessError{Op: "sync", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return &AccessError{Op: "write", Path: path, Err: err}
	}
	if err := os.Chmod(tmp, 0600); err != nil {
		os.Remove(tmp)
		return &AccessError{Op: "chmod", Path: path, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return &AccessError{Op: "rename", Path: path, Err: err}
	}
	return nil
}
