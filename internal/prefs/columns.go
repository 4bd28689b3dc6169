// Package prefs persists per-table user preferences, currently the set
// of hidden columns, as JSON under the user config directory.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const columnsFile = "columns.json"

// Store reads and writes preferences under Dir. An empty Dir resolves
// to the user config directory at first use.
type Store struct {
	Dir string
}

func (s *Store) path() (string, error) {
	dir := s.Dir
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(base, "stockgrid")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, columnsFile), nil
}

// SaveHiddenColumns records the hidden column accessors for one table.
func (s *Store) SaveHiddenColumns(table string, hidden []string) error {
	path, err := s.path()
	if err != nil {
		return err
	}
	all, err := s.load()
	if err != nil {
		return err
	}
	if all == nil {
		all = map[string][]string{}
	}
	all[table] = hidden
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// HiddenColumns returns the saved hidden accessors for one table, nil
// when nothing was saved yet.
func (s *Store) HiddenColumns(table string) ([]string, error) {
	all, err := s.load()
	if err != nil {
		return nil, err
	}
	return all[table], nil
}

func (s *Store) load() (map[string][]string, error) {
	path, err := s.path()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var all map[string][]string
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	return all, nil
}
