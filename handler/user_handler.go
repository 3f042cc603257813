package handler

import (
	"github.com/kriswind/everything-app/localstore"
	"github.com/kriswind/everything-app/store"
	"github.com/kriswind/everything-app/usecase"
	"github.com/kriswind/everything-app/utils"

	"github.com/gin-gonic/gin"
)

type deleteAccountRequest struct {
	Password string `json:"password" binding:"required"`
}

// DeleteAccountHandler removes the account after re-verifying the password,
// signs the identity out and wipes its local blob. Remote entity documents
// are left in place.
func DeleteAccountHandler(c *gin.Context, userService *usecase.UserService, gate *store.Gate, local *localstore.Store) {
	userID := c.GetString("user_id")

	var req deleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid Request")
		return
	}

	if err := userService.DeleteAccount(c.Request.Context(), userID, req.Password); err != nil {
		switch err {
		case usecase.ErrIncorrectPassword:
			utils.Unauthorized(c, "Incorrect Password")
		case usecase.ErrUserNotFound:
			utils.NotFound(c, "User not found")
		default:
			utils.TrackError("auth", "account_deletion")
			utils.InternalError(c, "Failed to delete account")
		}
		return
	}

	gate.SignOut(userID)
	if err := local.Reset(userID); err != nil {
		utils.TrackError("store", "reset_failed")
	}

	utils.Success(c, gin.H{"message": "Account deleted"})
}
