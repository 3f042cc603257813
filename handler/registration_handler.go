package handler

import (
	"github.com/kriswind/everything-app/dto"
	"github.com/kriswind/everything-app/usecase"
	"github.com/kriswind/everything-app/utils"

	"github.com/gin-gonic/gin"
)

func RegistrationHandler(c *gin.Context, userService *usecase.UserService) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.TrackError("auth", "invalid_registration")
		utils.BadRequest(c, "Invalid Request")
		return
	}

	user, err := userService.CreateUser(c.Request.Context(), &req)
	if err != nil {
		if err == usecase.ErrUsernameTaken {
			utils.TrackError("auth", "duplicate_username")
			utils.Conflict(c, "Username already exists")
			return
		}
		utils.TrackError("auth", "registration_failed")
		utils.InternalError(c, "Failed to create user")
		return
	}

	utils.TrackAuthAttempt("success", "registration")
	utils.Created(c, gin.H{
		"message": "User registered successfully",
		"user": gin.H{
			"id":       user.UserID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}
