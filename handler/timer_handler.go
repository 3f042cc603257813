package handler

import (
	"github.com/kriswind/everything-app/dto"
	"github.com/kriswind/everything-app/store"
	"github.com/kriswind/everything-app/utils"

	"github.com/gin-gonic/gin"
)

type startTimerRequest struct {
	Duration int `json:"duration" binding:"required,min=1"`
}

func GetTimerHandler(c *gin.Context, gate *store.Gate) {
	st, ok := activeStore(c, gate)
	if !ok {
		return
	}
	utils.Success(c, gin.H{"timer": st.Timer()})
}

// SetTimerHandler shallow-merges into the timer singleton.
func SetTimerHandler(c *gin.Context, gate *store.Gate) {
	st, ok := activeStore(c, gate)
	if !ok {
		return
	}

	var update dto.TimerUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		utils.BadRequest(c, "Invalid Request")
		return
	}

	utils.Success(c, gin.H{"timer": st.SetTimer(update)})
}

func StartTimerHandler(c *gin.Context, gate *store.Gate) {
	st, ok := activeStore(c, gate)
	if !ok {
		return
	}

	var req startTimerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid Request")
		return
	}

	utils.Success(c, gin.H{"timer": st.StartTimer(req.Duration)})
}

func StopTimerHandler(c *gin.Context, gate *store.Gate) {
	st, ok := activeStore(c, gate)
	if !ok {
		return
	}
	utils.Success(c, gin.H{"timer": st.StopTimer()})
}

func ResetTimerHandler(c *gin.Context, gate *store.Gate) {
	st, ok := activeStore(c, gate)
	if !ok {
		return
	}
	utils.Success(c, gin.H{"timer": st.ResetTimer()})
}
