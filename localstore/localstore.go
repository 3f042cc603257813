// Package localstore persists a per-user JSON blob on local disk. The blob
// carries the timer singleton in the remote-backed variant and the whole
// entity state in the local-only variant. A missing or structurally
// incompatible blob is treated as empty state, never as an error.
package localstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/kriswind/everything-app/model"
)

// State is the serialized snapshot held in the blob.
type State struct {
	Todos  []*model.Todo          `json:"todos,omitempty"`
	Events []*model.CalendarEvent `json:"events,omitempty"`
	Notes  []*model.Note          `json:"notes,omitempty"`
	Timer  *model.TimerState      `json:"timer,omitempty"`
}

type Store struct {
	dir string
	mu  sync.Mutex
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create local state directory: %v", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(userID string) string {
	return filepath.Join(s.dir, userID+".json")
}

// Load restores the user's blob. Corrupt or absent blobs come back empty.
func (s *Store) Load(userID string) *State {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(userID))
	if err != nil {
		return &State{}
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return &State{}
	}
	return &state
}

// Save rewrites the whole blob.
func (s *Store) Save(userID string, state *State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(userID, state)
}

func (s *Store) write(userID string, state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal local state: %v", err)
	}
	if err := os.WriteFile(s.path(userID), data, 0o644); err != nil {
		return fmt.Errorf("failed to write local state: %v", err)
	}
	return nil
}

// SaveTimer rewrites only the timer portion of the blob, keeping the rest.
func (s *Store) SaveTimer(userID string, timer model.TimerState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := &State{}
	if data, err := os.ReadFile(s.path(userID)); err == nil {
		// A corrupt blob is discarded rather than repaired.
		if err := json.Unmarshal(data, state); err != nil {
			state = &State{}
		}
	}
	state.Timer = &timer
	return s.write(userID, state)
}

// LoadTimer restores the persisted timer, zero-valued when absent.
func (s *Store) LoadTimer(userID string) model.TimerState {
	state := s.Load(userID)
	if state.Timer == nil {
		return model.TimerState{}
	}
	return *state.Timer
}

// Reset wipes the user's blob. Removing an absent blob is not an error.
func (s *Store) Reset(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(userID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove local state: %v", err)
	}
	return nil
}
