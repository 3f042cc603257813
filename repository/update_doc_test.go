package repository

import (
	"testing"
	"time"

	"github.com/kriswind/everything-app/dto"
)

func strPtr(s string) *string { return &s }

func TestEventUpdateDocSkipsUnsetFields(t *testing.T) {
	set := eventUpdateDoc(&dto.EventUpdate{
		Title: strPtr("Dentist"),
		Time:  strPtr("14:30"),
	})

	if len(set) != 2 {
		t.Fatalf("Expected 2 fields, got %d: %v", len(set), set)
	}
	if set["title"] != "Dentist" || set["time"] != "14:30" {
		t.Errorf("Unexpected set document: %v", set)
	}
	if _, ok := set["date"]; ok {
		t.Error("Unset date must not reach the document")
	}
	if _, ok := set["description"]; ok {
		t.Error("Unset description must not reach the document")
	}
}

func TestEventUpdateDocEmptyUpdate(t *testing.T) {
	if set := eventUpdateDoc(&dto.EventUpdate{}); len(set) != 0 {
		t.Errorf("Empty update should build an empty document, got %v", set)
	}
}

func TestEventUpdateDocKeepsExplicitEmptyString(t *testing.T) {
	// Clearing a field with "" is a real update, distinct from leaving it nil.
	set := eventUpdateDoc(&dto.EventUpdate{Description: strPtr("")})
	if v, ok := set["description"]; !ok || v != "" {
		t.Errorf("Explicit empty string should be set, got %v", set)
	}
}

func TestNoteUpdateDocAlwaysTouchesUpdatedAt(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	set := noteUpdateDoc(&dto.NoteUpdate{Content: strPtr("new content")}, now)
	if set["updated_at"] != now {
		t.Errorf("updated_at should always be set, got %v", set["updated_at"])
	}
	if set["content"] != "new content" {
		t.Errorf("Unexpected set document: %v", set)
	}
	if _, ok := set["title"]; ok {
		t.Error("Unset title must not reach the document")
	}
}

func TestAlarmUpdateDocReplacesDays(t *testing.T) {
	days := []int{1, 2, 3}
	set := alarmUpdateDoc(&dto.AlarmUpdate{Days: &days})

	got, ok := set["days"].([]int)
	if !ok || len(got) != 3 {
		t.Fatalf("Expected days replaced wholesale, got %v", set)
	}
	if _, ok := set["time"]; ok {
		t.Error("Unset time must not reach the document")
	}
}

func TestProfileUpdateDocUsesNestedPaths(t *testing.T) {
	set := profileUpdateDoc(&dto.ProfileUpdate{
		Name:  strPtr("Ada"),
		About: strPtr("Analytical engines"),
	})

	if set["profile.name"] != "Ada" {
		t.Errorf("Expected nested profile.name path, got %v", set)
	}
	if set["profile.about"] != "Analytical engines" {
		t.Errorf("Expected nested profile.about path, got %v", set)
	}
	if _, ok := set["profile.photo_url"]; ok {
		t.Error("Unset photo_url must not reach the document")
	}
}
