package handler

import (
	"github.com/kriswind/everything-app/store"
	"github.com/kriswind/everything-app/utils"

	"github.com/gin-gonic/gin"
)

// activeStore resolves the caller's state container. A valid token whose
// container is gone (process restart) is transparently reactivated through
// the gate's identity lookup.
func activeStore(c *gin.Context, gate *store.Gate) (*store.Store, bool) {
	userID := c.GetString("user_id")
	if userID == "" {
		utils.Unauthorized(c, "Not signed in")
		return nil, false
	}

	st, err := gate.Restore(c.Request.Context(), userID)
	if err != nil {
		utils.TrackError("store", "restore_failed")
		utils.Unauthorized(c, "No active session")
		return nil, false
	}
	return st, true
}
