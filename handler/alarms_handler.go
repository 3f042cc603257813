package handler

import (
	"github.com/kriswind/everything-app/dto"
	"github.com/kriswind/everything-app/store"
	"github.com/kriswind/everything-app/utils"

	"github.com/gin-gonic/gin"
)

func GetAlarmsHandler(c *gin.Context, gate *store.Gate) {
	st, ok := activeStore(c, gate)
	if !ok {
		return
	}
	utils.Success(c, gin.H{"alarms": dto.ToAlarmResponses(st.Alarms())})
}

func CreateAlarmHandler(c *gin.Context, gate *store.Gate) {
	st, ok := activeStore(c, gate)
	if !ok {
		return
	}

	var req dto.CreateAlarmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid Request")
		return
	}

	if err := st.AddAlarm(c.Request.Context(), &req); err != nil {
		utils.TrackError("store", "alarm_create")
		utils.InternalError(c, "Failed to create alarm")
		return
	}
	utils.Created(c, gin.H{"message": "Alarm created"})
}

// ToggleAlarmHandler flips the enabled flag. Unknown ids succeed without
// changing anything.
func ToggleAlarmHandler(c *gin.Context, gate *store.Gate) {
	st, ok := activeStore(c, gate)
	if !ok {
		return
	}

	if err := st.ToggleAlarm(c.Request.Context(), c.Param("id")); err != nil {
		utils.TrackError("store", "alarm_toggle")
		utils.InternalError(c, "Failed to toggle alarm")
		return
	}
	utils.Success(c, gin.H{"message": "Alarm toggled"})
}

func UpdateAlarmHandler(c *gin.Context, gate *store.Gate) {
	st, ok := activeStore(c, gate)
	if !ok {
		return
	}

	var update dto.AlarmUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		utils.BadRequest(c, "Invalid Request")
		return
	}

	if err := st.UpdateAlarm(c.Request.Context(), c.Param("id"), &update); err != nil {
		utils.TrackError("store", "alarm_update")
		utils.InternalError(c, "Failed to update alarm")
		return
	}
	utils.Success(c, gin.H{"message": "Alarm updated"})
}

func DeleteAlarmHandler(c *gin.Context, gate *store.Gate) {
	st, ok := activeStore(c, gate)
	if !ok {
		return
	}

	if err := st.DeleteAlarm(c.Request.Context(), c.Param("id")); err != nil {
		utils.TrackError("store", "alarm_delete")
		utils.InternalError(c, "Failed to delete alarm")
		return
	}
	utils.Success(c, gin.H{"message": "Alarm deleted"})
}
