package handler

import (
	"github.com/kriswind/everything-app/dto"
	"github.com/kriswind/everything-app/store"
	"github.com/kriswind/everything-app/utils"

	"github.com/gin-gonic/gin"
)

func GetEventsHandler(c *gin.Context, gate *store.Gate) {
	st, ok := activeStore(c, gate)
	if !ok {
		return
	}
	utils.Success(c, gin.H{"events": dto.ToEventResponses(st.Events())})
}

func CreateEventHandler(c *gin.Context, gate *store.Gate) {
	st, ok := activeStore(c, gate)
	if !ok {
		return
	}

	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid Request")
		return
	}

	if err := st.AddEvent(c.Request.Context(), &req); err != nil {
		utils.TrackError("store", "event_create")
		utils.InternalError(c, "Failed to create event")
		return
	}
	utils.Created(c, gin.H{"message": "Event created"})
}

// UpdateEventHandler applies a partial update; absent fields stay untouched.
func UpdateEventHandler(c *gin.Context, gate *store.Gate) {
	st, ok := activeStore(c, gate)
	if !ok {
		return
	}

	var update dto.EventUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		utils.BadRequest(c, "Invalid Request")
		return
	}

	if err := st.UpdateEvent(c.Request.Context(), c.Param("id"), &update); err != nil {
		utils.TrackError("store", "event_update")
		utils.InternalError(c, "Failed to update event")
		return
	}
	utils.Success(c, gin.H{"message": "Event updated"})
}

func DeleteEventHandler(c *gin.Context, gate *store.Gate) {
	st, ok := activeStore(c, gate)
	if !ok {
		return
	}

	if err := st.DeleteEvent(c.Request.Context(), c.Param("id")); err != nil {
		utils.TrackError("store", "event_delete")
		utils.InternalError(c, "Failed to delete event")
		return
	}
	utils.Success(c, gin.H{"message": "Event deleted"})
}
