package dto

import (
	"time"

	"github.com/kriswind/everything-app/model"
)

type CreateNoteRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
}

// NoteUpdate carries a partial note mutation; nil fields are untouched.
type NoteUpdate struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

type NoteResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToNoteResponse(note *model.Note) NoteResponse {
	return NoteResponse{
		ID:        note.NoteID,
		Title:     note.Title,
		Content:   note.Content,
		UpdatedAt: note.UpdatedAt,
	}
}

func ToNoteResponses(notes []*model.Note) []NoteResponse {
	responses := make([]NoteResponse, len(notes))
	for i, note := range notes {
		responses[i] = ToNoteResponse(note)
	}
	return responses
}
