package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/kriswind/everything-app/dto"
	"github.com/kriswind/everything-app/localstore"
	"github.com/kriswind/everything-app/store"
	"github.com/kriswind/everything-app/utils"

	"github.com/gin-gonic/gin"
)

// ExportDataHandler serves a point-in-time JSON dump of the caller's todos,
// events and notes as a file download.
func ExportDataHandler(c *gin.Context, gate *store.Gate) {
	st, ok := activeStore(c, gate)
	if !ok {
		return
	}

	filename := fmt.Sprintf("everything-app-%s.json", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.JSON(http.StatusOK, st.Export())
}

// ResetDataHandler wipes the caller's locally persisted blob and zeroes the
// timer. Remote collections are untouched.
func ResetDataHandler(c *gin.Context, gate *store.Gate, local *localstore.Store) {
	st, ok := activeStore(c, gate)
	if !ok {
		return
	}

	zero := 0
	inactive := false
	st.SetTimer(dto.TimerUpdate{TimeLeft: &zero, Duration: &zero, IsActive: &inactive})

	if err := local.Reset(st.UserID()); err != nil {
		utils.TrackError("store", "reset_failed")
		utils.InternalError(c, "Failed to reset local data")
		return
	}

	utils.Success(c, gin.H{"message": "Local data cleared"})
}
