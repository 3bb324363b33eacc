// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backends returns a fresh instance of every Store implementation.
func backends(t *testing.T) map[string]func() Store {
	dir := t.TempDir()
	return map[string]func() Store{
		"memory": func() Store { return NewMemoryStore() },
		"file": func() Store {
			s, err := NewFileStore(filepath.Join(dir, "file", "kv.json"))
			require.NoError(t, err)
			return s
		},
		"sqlite": func() Store {
			s, err := NewSQLiteStore(filepath.Join(dir, "sqlite", "kv.db"))
			require.NoError(t, err)
			return s
		},
	}
}

func TestStore_Contract(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open()
			defer s.Close()

			_, err := s.Get("auth_token")
			assert.True(t, errors.Is(err, ErrNotFound), "missing key should be ErrNotFound, got %v", err)

			require.NoError(t, s.Set("auth_token", "abc"))
			v, err := s.Get("auth_token")
			require.NoError(t, err)
			assert.Equal(t, "abc", v)

			require.NoError(t, s.Set("auth_token", "def"))
			v, _ = s.Get("auth_token")
			assert.Equal(t, "def", v, "Set overwrites")

			require.NoError(t, s.Delete("auth_token"))
			_, err = s.Get("auth_token")
			assert.ErrorIs(t, err, ErrNotFound)

			assert.NoError(t, s.Delete("never-set"), "deleting a missing key is not an error")
		})
	}
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.json")

	s1, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s1.Set("user", `{"id":"1"}`))
	require.NoError(t, s1.Close())

	s2, err := NewFileStore(path)
	require.NoError(t, err)
	v, err := s2.Get("user")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"1"}`, v)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := NewFileStore(path)
	assert.Error(t, err)
}

func TestFileStore_NullFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.json")
	require.NoError(t, os.WriteFile(path, []byte("null"), 0600))

	s, err := NewFileStore(path)
	require.NoError(t, err)

	_, err = s.Get("auth_token")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, s.Set("auth_token", "x"))

	v, err := s.Get("auth_token")
	require.NoError(t, err)
	assert.Equal(t, "x", v)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "perfburger.db")

	s1, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s1.Set("auth_token", "tok"))
	require.NoError(t, s1.Close())

	s2, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer s2.Close()
	v, err := s2.Get("auth_token")
	require.NoError(t, err)
	assert.Equal(t, "tok", v)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open("memory", "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open("file", filepath.Join(dir, "a.json"))
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	s, err = Open("sqlite", filepath.Join(dir, "a.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	s.Close()

	_, err = Open("redis", "")
	assert.Error(t, err)
}
