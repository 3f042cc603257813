package dto

import "github.com/kriswind/everything-app/model"

type CreateEventRequest struct {
	Title       string `json:"title" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Time        string `json:"time"`
	Description string `json:"description"`
}

// EventUpdate carries a partial event mutation. Nil fields are left
// untouched; they must never reach the store as explicit empty values.
type EventUpdate struct {
	Title       *string `json:"title"`
	Date        *string `json:"date"`
	Time        *string `json:"time"`
	Description *string `json:"description"`
}

type EventResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Time        string `json:"time,omitempty"`
	Description string `json:"description,omitempty"`
}

func ToEventResponse(event *model.CalendarEvent) EventResponse {
	return EventResponse{
		ID:          event.EventID,
		Title:       event.Title,
		Date:        event.Date,
		Time:        event.Time,
		Description: event.Description,
	}
}

func ToEventResponses(events []*model.CalendarEvent) []EventResponse {
	responses := make([]EventResponse, len(events))
	for i, event := range events {
		responses[i] = ToEventResponse(event)
	}
	return responses
}
