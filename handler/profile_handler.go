package handler

import (
	"github.com/kriswind/everything-app/dto"
	"github.com/kriswind/everything-app/model"
	"github.com/kriswind/everything-app/store"
	"github.com/kriswind/everything-app/utils"

	"github.com/gin-gonic/gin"
)

func GetProfileHandler(c *gin.Context, gate *store.Gate) {
	st, ok := activeStore(c, gate)
	if !ok {
		return
	}
	utils.Success(c, gin.H{"profile": st.Profile()})
}

// UpdateProfileHandler shallow-merges into the profile singleton; the
// merged value is readable immediately.
func UpdateProfileHandler(c *gin.Context, gate *store.Gate) {
	st, ok := activeStore(c, gate)
	if !ok {
		return
	}

	var update dto.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		utils.BadRequest(c, "Invalid Request")
		return
	}

	if err := st.UpdateProfile(c.Request.Context(), &update); err != nil {
		utils.TrackError("store", "profile_update")
		utils.InternalError(c, "Failed to update profile")
		return
	}
	utils.Success(c, gin.H{"profile": st.Profile()})
}

func GetDashboardHandler(c *gin.Context, gate *store.Gate) {
	st, ok := activeStore(c, gate)
	if !ok {
		return
	}
	utils.Success(c, gin.H{"dashboard": st.DashboardConfig()})
}

// SetDashboardHandler replaces the widget layout wholesale.
func SetDashboardHandler(c *gin.Context, gate *store.Gate) {
	st, ok := activeStore(c, gate)
	if !ok {
		return
	}

	var config model.DashboardConfig
	if err := c.ShouldBindJSON(&config); err != nil {
		utils.BadRequest(c, "Invalid Request")
		return
	}

	if err := st.SetDashboardConfig(c.Request.Context(), config); err != nil {
		utils.TrackError("store", "dashboard_set")
		utils.InternalError(c, "Failed to update dashboard")
		return
	}
	utils.Success(c, gin.H{"dashboard": st.DashboardConfig()})
}
