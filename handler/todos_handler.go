package handler

import (
	"github.com/kriswind/everything-app/dto"
	"github.com/kriswind/everything-app/store"
	"github.com/kriswind/everything-app/utils"

	"github.com/gin-gonic/gin"
)

// GetTodosHandler serves the current todo list from the state container.
func GetTodosHandler(c *gin.Context, gate *store.Gate) {
	st, ok := activeStore(c, gate)
	if !ok {
		return
	}
	utils.Success(c, gin.H{"todos": dto.ToTodoResponses(st.Todos())})
}

func CreateTodoHandler(c *gin.Context, gate *store.Gate) {
	st, ok := activeStore(c, gate)
	if !ok {
		return
	}

	var req dto.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid Request")
		return
	}

	if err := st.AddTodo(c.Request.Context(), req.Text); err != nil {
		utils.TrackError("store", "todo_create")
		utils.InternalError(c, "Failed to create todo")
		return
	}
	utils.Created(c, gin.H{"message": "Todo created"})
}

// ToggleTodoHandler flips the completed flag. Unknown ids succeed without
// changing anything.
func ToggleTodoHandler(c *gin.Context, gate *store.Gate) {
	st, ok := activeStore(c, gate)
	if !ok {
		return
	}

	if err := st.ToggleTodo(c.Request.Context(), c.Param("id")); err != nil {
		utils.TrackError("store", "todo_toggle")
		utils.InternalError(c, "Failed to toggle todo")
		return
	}
	utils.Success(c, gin.H{"message": "Todo toggled"})
}

func DeleteTodoHandler(c *gin.Context, gate *store.Gate) {
	st, ok := activeStore(c, gate)
	if !ok {
		return
	}

	if err := st.DeleteTodo(c.Request.Context(), c.Param("id")); err != nil {
		utils.TrackError("store", "todo_delete")
		utils.InternalError(c, "Failed to delete todo")
		return
	}
	utils.Success(c, gin.H{"message": "Todo deleted"})
}
