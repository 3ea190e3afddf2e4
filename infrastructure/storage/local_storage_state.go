package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"web_navigator/domain/interfaces"
)

const localStorageFile = "local_storage.json"

type localStorageState struct {
	mu        sync.Mutex
	statePath string
}

// NewLocalStorageState - creates file-backed localStorage snapshot storage
// inside stateDir
func NewLocalStorageState(stateDir string) (interfaces.LocalStorageStore, error) {
	if stateDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = "."
		}
		stateDir = filepath.Join(homeDir, ".web_navigator")
	}
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	return &localStorageState{
		statePath: filepath.Join(stateDir, localStorageFile),
	}, nil
}

func (s *localStorageState) read() (map[string]map[string]string, error) {
	data, err := os.ReadFile(s.statePath)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]map[string]string), nil
		}
		return nil, err
	}

	state := make(map[string]map[string]string)
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.statePath, err)
	}
	return state, nil
}

// Save - replaces the snapshot of origin
func (s *localStorageState) Save(origin string, items map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.read()
	if err != nil {
		return err
	}
	state[origin] = items

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.statePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, s.statePath)
}

// Load - returns the snapshot of origin, empty when none was saved
func (s *localStorageState) Load(origin string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.read()
	if err != nil {
		return nil, err
	}
	items, ok := state[origin]
	if !ok {
		return map[string]string{}, nil
	}
	return items, nil
}

// Origins - lists saved origins in sorted order
func (s *localStorageState) Origins() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.read()
	if err != nil {
		return nil, err
	}
	origins := make([]string, 0, len(state))
	for o := range state {
		origins = append(origins, o)
	}
	sort.Strings(origins)
	return origins, nil
}
