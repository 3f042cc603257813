package dto

import (
	"time"

	"github.com/kriswind/everything-app/model"
)

type CreateTodoRequest struct {
	Text string `json:"text" binding:"required"`
}

type TodoResponse struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

func ToTodoResponse(todo *model.Todo) TodoResponse {
	return TodoResponse{
		ID:        todo.TodoID,
		Text:      todo.Text,
		Completed: todo.Completed,
		CreatedAt: todo.CreatedAt,
	}
}

func ToTodoResponses(todos []*model.Todo) []TodoResponse {
	responses := make([]TodoResponse, len(todos))
	for i, todo := range todos {
		responses[i] = ToTodoResponse(todo)
	}
	return responses
}
