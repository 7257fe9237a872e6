package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Selection and recency live in two independent JSON files under the state
// directory. Both are disposable caches of user context: deleting them
// loses nothing but convenience. Writes go through a temp file and rename
// so a crash never leaves a half-written state file.
const (
	selectionFile = "selection.json"
	recencyFile   = "recency.json"
)

// selectionState is the persisted subset of the selection store: ids only.
type selectionState struct {
	ByKind map[string][]uuid.UUID `json:"by_kind"`
}

// LoadSelection reads the selection state file, returning an empty store
// when the file does not exist or stateDir is "".
func LoadSelection(stateDir string) (*SelectionStore, error) {
	s := NewSelectionStore()
	s.stateDir = stateDir
	if stateDir == "" {
		return s, nil
	}

	data, err := os.ReadFile(filepath.Join(stateDir, selectionFile))
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}

	var state selectionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("corrupt selection state: %w", err)
	}
	if state.ByKind != nil {
		s.byKind = state.ByKind
	}
	return s, nil
}

// saveLocked writes the selection state. Callers hold s.mu.
func (s *SelectionStore) saveLocked() {
	if s.stateDir == "" {
		return
	}
	// Persistence is best effort: a failed write never breaks the
	// in-memory state
	_ = writeStateFile(s.stateDir, selectionFile, selectionState{ByKind: s.byKind})
}

// recencyState persists every field of every entry.
type recencyState struct {
	Items []RecentItem `json:"items"`
}

// LoadRecency reads the recency state file, returning an empty store when
// the file does not exist or stateDir is "".
func LoadRecency(stateDir string) (*RecencyStore, error) {
	r := NewRecencyStore()
	r.stateDir = stateDir
	if stateDir == "" {
		return r, nil
	}

	data, err := os.ReadFile(filepath.Join(stateDir, recencyFile))
	if errors.Is(err, fs.ErrNotExist) {
		return r, nil
	}
	if err != nil {
		return nil, err
	}

	var state recencyState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("corrupt recency state: %w", err)
	}
	r.items = state.Items
	if len(r.items) > RecencyCap {
		r.items = r.items[:RecencyCap]
	}
	return r, nil
}

// saveLocked writes the recency state. Callers hold r.mu.
func (r *RecencyStore) saveLocked() {
	if r.stateDir == "" {
		return
	}
	_ = writeStateFile(r.stateDir, recencyFile, recencyState{Items: r.items})
}

// writeStateFile atomically replaces one state file.
func writeStateFile(dir, name string, state interface{}) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	tmp := filepath.Join(dir, name+".tmp")
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, filepath.Join(dir, name))
}

// DefaultStateDir returns the per-user state directory following the XDG
// convention, e.g. ~/.local/state/reqwire.
func DefaultStateDir() (string, error) {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "reqwire"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", "reqwire"), nil
}
