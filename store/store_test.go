package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kriswind/everything-app/dto"
	"github.com/kriswind/everything-app/localstore"
	"github.com/kriswind/everything-app/model"
	"github.com/kriswind/everything-app/store"
	"github.com/kriswind/everything-app/store/storetest"
)

func setupStore(t *testing.T) (*storetest.Fixture, *store.Gate, *store.Store) {
	t.Helper()

	fixture := storetest.NewFixture()
	local, err := localstore.New(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create local store: %v", err)
	}

	gate := store.NewGate(context.Background(), fixture.Collections(), local)
	gate.SetTickInterval(5 * time.Millisecond)

	st, err := gate.SignIn(context.Background(), store.Identity{
		UserID:      "user-1",
		DisplayName: "Ada",
	})
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	t.Cleanup(func() { gate.SignOut("user-1") })
	return fixture, gate, st
}

func TestAddTodoAppearsViaSnapshot(t *testing.T) {
	_, _, st := setupStore(t)

	if err := st.AddTodo(context.Background(), "Buy milk"); err != nil {
		t.Fatalf("AddTodo failed: %v", err)
	}

	todos := st.Todos()
	if len(todos) != 1 {
		t.Fatalf("Expected 1 todo, got %d", len(todos))
	}
	if todos[0].Text != "Buy milk" {
		t.Errorf("Expected text %q, got %q", "Buy milk", todos[0].Text)
	}
	if todos[0].Completed {
		t.Error("New todo should not be completed")
	}
	if todos[0].TodoID == "" {
		t.Error("New todo should have an id")
	}
}

func TestToggleTodo(t *testing.T) {
	_, _, st := setupStore(t)

	if err := st.AddTodo(context.Background(), "Buy milk"); err != nil {
		t.Fatalf("AddTodo failed: %v", err)
	}
	id := st.Todos()[0].TodoID

	if err := st.ToggleTodo(context.Background(), id); err != nil {
		t.Fatalf("ToggleTodo failed: %v", err)
	}
	if !st.Todos()[0].Completed {
		t.Error("Todo should be completed after toggle")
	}

	if err := st.ToggleTodo(context.Background(), id); err != nil {
		t.Fatalf("ToggleTodo failed: %v", err)
	}
	if st.Todos()[0].Completed {
		t.Error("Todo should be uncompleted after second toggle")
	}
}

func TestToggleUnknownTodoIsNoOp(t *testing.T) {
	_, _, st := setupStore(t)

	if err := st.AddTodo(context.Background(), "Buy milk"); err != nil {
		t.Fatalf("AddTodo failed: %v", err)
	}

	if err := st.ToggleTodo(context.Background(), "no-such-id"); err != nil {
		t.Fatalf("Toggling an unknown id should not error, got %v", err)
	}
	if st.Todos()[0].Completed {
		t.Error("Unknown-id toggle must not touch existing todos")
	}
}

func TestDeleteTodoIsIdempotent(t *testing.T) {
	_, _, st := setupStore(t)

	if err := st.AddTodo(context.Background(), "Buy milk"); err != nil {
		t.Fatalf("AddTodo failed: %v", err)
	}
	id := st.Todos()[0].TodoID

	if err := st.DeleteTodo(context.Background(), id); err != nil {
		t.Fatalf("DeleteTodo failed: %v", err)
	}
	if len(st.Todos()) != 0 {
		t.Fatalf("Expected empty list after delete, got %d todos", len(st.Todos()))
	}

	// Deleting again must not error or change anything.
	if err := st.DeleteTodo(context.Background(), id); err != nil {
		t.Fatalf("Second delete should be a no-op, got %v", err)
	}
}

func TestMutationErrorPropagates(t *testing.T) {
	fixture, _, st := setupStore(t)

	fixture.Todos.Err = errors.New("write failed")
	if err := st.AddTodo(context.Background(), "Buy milk"); err == nil {
		t.Fatal("Expected write error to propagate")
	}
	if len(st.Todos()) != 0 {
		t.Error("Failed write must not change the visible list")
	}
}

func TestEventPartialUpdate(t *testing.T) {
	_, _, st := setupStore(t)

	req := &dto.CreateEventRequest{Title: "Dentist", Date: "2026-09-01", Time: "14:30"}
	if err := st.AddEvent(context.Background(), req); err != nil {
		t.Fatalf("AddEvent failed: %v", err)
	}
	id := st.Events()[0].EventID

	title := "Dentist (moved)"
	if err := st.UpdateEvent(context.Background(), id, &dto.EventUpdate{Title: &title}); err != nil {
		t.Fatalf("UpdateEvent failed: %v", err)
	}

	event := st.Events()[0]
	if event.Title != title {
		t.Errorf("Expected title %q, got %q", title, event.Title)
	}
	if event.Time != "14:30" {
		t.Errorf("Untouched field changed: time is %q", event.Time)
	}
}

func TestUpdateUnknownEventIsNoOp(t *testing.T) {
	_, _, st := setupStore(t)

	title := "ghost"
	if err := st.UpdateEvent(context.Background(), "missing", &dto.EventUpdate{Title: &title}); err != nil {
		t.Fatalf("Updating an unknown event should not error, got %v", err)
	}
	if len(st.Events()) != 0 {
		t.Error("Unknown-id update must not create anything")
	}
}

func TestNoteLifecycle(t *testing.T) {
	_, _, st := setupStore(t)

	if err := st.AddNote(context.Background(), &dto.CreateNoteRequest{Title: "Ideas", Content: "none yet"}); err != nil {
		t.Fatalf("AddNote failed: %v", err)
	}
	id := st.Notes()[0].NoteID

	content := "one, actually"
	if err := st.UpdateNote(context.Background(), id, &dto.NoteUpdate{Content: &content}); err != nil {
		t.Fatalf("UpdateNote failed: %v", err)
	}
	note := st.Notes()[0]
	if note.Content != content {
		t.Errorf("Expected content %q, got %q", content, note.Content)
	}
	if note.Title != "Ideas" {
		t.Errorf("Untouched field changed: title is %q", note.Title)
	}

	if err := st.DeleteNote(context.Background(), id); err != nil {
		t.Fatalf("DeleteNote failed: %v", err)
	}
	if len(st.Notes()) != 0 {
		t.Errorf("Expected empty list after delete, got %d notes", len(st.Notes()))
	}
}

func TestAlarmDefaults(t *testing.T) {
	_, _, st := setupStore(t)

	if err := st.AddAlarm(context.Background(), &dto.CreateAlarmRequest{Time: "07:00", Label: "Wake up"}); err != nil {
		t.Fatalf("AddAlarm failed: %v", err)
	}

	alarm := st.Alarms()[0]
	if !alarm.Enabled {
		t.Error("New alarm should default to enabled")
	}
	if alarm.Days == nil || len(alarm.Days) != 0 {
		t.Errorf("New alarm days should default to an empty slice, got %v", alarm.Days)
	}

	if err := st.ToggleAlarm(context.Background(), alarm.AlarmID); err != nil {
		t.Fatalf("ToggleAlarm failed: %v", err)
	}
	if st.Alarms()[0].Enabled {
		t.Error("Alarm should be disabled after toggle")
	}
}

func TestUpdateProfileVisibleImmediately(t *testing.T) {
	fixture, _, st := setupStore(t)

	name := "Ada Lovelace"
	about := "First programmer"
	if err := st.UpdateProfile(context.Background(), &dto.ProfileUpdate{Name: &name, About: &about}); err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}

	profile := st.Profile()
	if profile.Name != name || profile.About != about {
		t.Errorf("Expected merged profile, got %+v", profile)
	}

	persisted, err := fixture.Profiles.GetProfile(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if persisted.Name != name {
		t.Errorf("Profile update not persisted, got %+v", persisted)
	}
}

func TestSetDashboardConfig(t *testing.T) {
	_, _, st := setupStore(t)

	config := model.DashboardConfig{Widgets: []string{"tasks", "greeting"}}
	if err := st.SetDashboardConfig(context.Background(), config); err != nil {
		t.Fatalf("SetDashboardConfig failed: %v", err)
	}

	got := st.DashboardConfig()
	if len(got.Widgets) != 2 || got.Widgets[0] != "tasks" {
		t.Errorf("Expected replaced widget list, got %v", got.Widgets)
	}
}

func TestExport(t *testing.T) {
	_, _, st := setupStore(t)

	if err := st.AddTodo(context.Background(), "Buy milk"); err != nil {
		t.Fatalf("AddTodo failed: %v", err)
	}
	if err := st.AddNote(context.Background(), &dto.CreateNoteRequest{Title: "Ideas"}); err != nil {
		t.Fatalf("AddNote failed: %v", err)
	}

	export := st.Export()
	if len(export.Todos) != 1 || export.Todos[0].Text != "Buy milk" {
		t.Errorf("Export todos wrong: %+v", export.Todos)
	}
	if len(export.Notes) != 1 || export.Notes[0].Title != "Ideas" {
		t.Errorf("Export notes wrong: %+v", export.Notes)
	}
	if export.Events == nil {
		t.Error("Export events should be an empty slice, not nil")
	}
}
