package localstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kriswind/everything-app/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return store
}

func TestLoadMissingBlobIsEmpty(t *testing.T) {
	store := newTestStore(t)

	state := store.Load("nobody")
	if state == nil {
		t.Fatal("Load must never return nil")
	}
	if state.Todos != nil || state.Timer != nil {
		t.Errorf("Missing blob should load empty, got %+v", state)
	}
}

func TestLoadCorruptBlobIsEmpty(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "user-1.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("Failed to write corrupt blob: %v", err)
	}

	state := store.Load("user-1")
	if state.Todos != nil || state.Timer != nil {
		t.Errorf("Corrupt blob should load empty, got %+v", state)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)

	saved := &State{
		Todos: []*model.Todo{{
			TodoID:    "t1",
			UserID:    "user-1",
			Text:      "Buy milk",
			CreatedAt: time.Now().Truncate(time.Second),
		}},
		Timer: &model.TimerState{TimeLeft: 60, Duration: 120},
	}
	if err := store.Save("user-1", saved); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded := store.Load("user-1")
	if len(loaded.Todos) != 1 || loaded.Todos[0].Text != "Buy milk" {
		t.Errorf("Todos not restored: %+v", loaded.Todos)
	}
	if loaded.Timer == nil || loaded.Timer.TimeLeft != 60 {
		t.Errorf("Timer not restored: %+v", loaded.Timer)
	}
}

func TestSaveTimerKeepsRestOfBlob(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save("user-1", &State{
		Notes: []*model.Note{{NoteID: "n1", UserID: "user-1", Title: "Ideas"}},
	}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := store.SaveTimer("user-1", model.TimerState{TimeLeft: 30, Duration: 60, IsActive: true}); err != nil {
		t.Fatalf("SaveTimer failed: %v", err)
	}

	loaded := store.Load("user-1")
	if loaded.Timer == nil || loaded.Timer.TimeLeft != 30 || !loaded.Timer.IsActive {
		t.Errorf("Timer not saved: %+v", loaded.Timer)
	}
	if len(loaded.Notes) != 1 {
		t.Error("SaveTimer must not drop the rest of the blob")
	}
}

func TestLoadTimerAbsentIsZero(t *testing.T) {
	store := newTestStore(t)

	timer := store.LoadTimer("nobody")
	if timer.TimeLeft != 0 || timer.Duration != 0 || timer.IsActive {
		t.Errorf("Absent timer should be zero-valued, got %+v", timer)
	}
}

func TestResetRemovesBlob(t *testing.T) {
	store := newTestStore(t)

	if err := store.SaveTimer("user-1", model.TimerState{TimeLeft: 10}); err != nil {
		t.Fatalf("SaveTimer failed: %v", err)
	}
	if err := store.Reset("user-1"); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if timer := store.LoadTimer("user-1"); timer.TimeLeft != 0 {
		t.Errorf("Reset should wipe the blob, got %+v", timer)
	}

	// Resetting an absent blob is not an error.
	if err := store.Reset("user-1"); err != nil {
		t.Fatalf("Second reset should be a no-op, got %v", err)
	}
}
