package handler

import (
	"github.com/kriswind/everything-app/dto"
	"github.com/kriswind/everything-app/store"
	"github.com/kriswind/everything-app/utils"

	"github.com/gin-gonic/gin"
)

func GetNotesHandler(c *gin.Context, gate *store.Gate) {
	st, ok := activeStore(c, gate)
	if !ok {
		return
	}
	utils.Success(c, gin.H{"notes": dto.ToNoteResponses(st.Notes())})
}

func CreateNoteHandler(c *gin.Context, gate *store.Gate) {
	st, ok := activeStore(c, gate)
	if !ok {
		return
	}

	var req dto.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid Request")
		return
	}

	if err := st.AddNote(c.Request.Context(), &req); err != nil {
		utils.TrackError("store", "note_create")
		utils.InternalError(c, "Failed to create note")
		return
	}
	utils.Created(c, gin.H{"message": "Note created"})
}

func UpdateNoteHandler(c *gin.Context, gate *store.Gate) {
	st, ok := activeStore(c, gate)
	if !ok {
		return
	}

	var update dto.NoteUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		utils.BadRequest(c, "Invalid Request")
		return
	}

	if err := st.UpdateNote(c.Request.Context(), c.Param("id"), &update); err != nil {
		utils.TrackError("store", "note_update")
		utils.InternalError(c, "Failed to update note")
		return
	}
	utils.Success(c, gin.H{"message": "Note updated"})
}

func DeleteNoteHandler(c *gin.Context, gate *store.Gate) {
	st, ok := activeStore(c, gate)
	if !ok {
		return
	}

	if err := st.DeleteNote(c.Request.Context(), c.Param("id")); err != nil {
		utils.TrackError("store", "note_delete")
		utils.InternalError(c, "Failed to delete note")
		return
	}
	utils.Success(c, gin.H{"message": "Note deleted"})
}
