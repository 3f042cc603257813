package handler

import (
	"log"

	"github.com/kriswind/everything-app/dto"
	"github.com/kriswind/everything-app/middleware"
	"github.com/kriswind/everything-app/services"
	"github.com/kriswind/everything-app/store"
	"github.com/kriswind/everything-app/usecase"
	"github.com/kriswind/everything-app/utils"

	"github.com/gin-gonic/gin"
)

const MaxActiveSessions = 5

// LoginHandler authenticates the user, enforces the session limit, mints the
// token pair and signs the identity into the state gate.
func LoginHandler(c *gin.Context, userService *usecase.UserService, sessionRepo middleware.SessionRepository, gate *store.Gate) {
	var loginReq dto.LoginRequest
	if err := c.ShouldBindJSON(&loginReq); err != nil {
		utils.TrackError("auth", "invalid_request")
		utils.TrackAuthAttempt("failure", "validation")
		utils.BadRequest(c, "Invalid Request")
		return
	}

	user, needs2FA, err := userService.Authenticate(c.Request.Context(), &loginReq)
	if err != nil {
		switch err {
		case usecase.ErrUserNotFound:
			utils.TrackAuthAttempt("failure", "user_not_found")
			utils.Unauthorized(c, "Invalid username")
		case usecase.ErrIncorrectPassword:
			utils.TrackAuthAttempt("failure", "invalid_password")
			utils.Unauthorized(c, "Incorrect Password")
		case usecase.ErrInvalidTwoFactor:
			utils.TrackAuthAttempt("failure", "invalid_2fa")
			utils.Unauthorized(c, "Invalid 2FA code")
		default:
			utils.TrackError("auth", "user_lookup")
			utils.InternalError(c, "Login failed")
		}
		return
	}

	if needs2FA {
		utils.TrackAuthAttempt("pending", "2fa_required")
		utils.Success(c, gin.H{
			"requires_2fa": true,
			"message":      "2FA code required",
		})
		return
	}

	activeCount, err := sessionRepo.CountActiveSessions(c.Request.Context(), user.UserID)
	if err != nil {
		utils.TrackError("session", "count_check")
		utils.InternalError(c, "Failed to check session count")
		return
	}

	var notice string
	if activeCount >= MaxActiveSessions {
		if err := sessionRepo.EndLeastActiveSession(c.Request.Context(), user.UserID); err != nil {
			utils.TrackError("session", "session_cleanup")
			utils.InternalError(c, "Failed to manage sessions")
			return
		}
		notice = "Logged out of least active session due to session limit"
		log.Printf("Ended least active session for user %s due to session limit", user.UserID)
	}

	token, err := services.GenerateToken(user.UserID)
	if err != nil {
		utils.TrackError("auth", "token_generation")
		utils.InternalError(c, "Failed to generate token")
		return
	}

	refreshToken, err := services.GenerateRefreshToken(user.UserID)
	if err != nil {
		utils.TrackError("auth", "refresh_token_generation")
		utils.InternalError(c, "Failed to generate refresh token")
		return
	}

	if _, err := middleware.CreateSession(c, user.UserID, sessionRepo); err != nil {
		utils.TrackError("session", "creation")
		utils.InternalError(c, "Failed to create session")
		return
	}

	// Sign-in seeds the profile on first login and opens the live query
	// subscriptions that keep the container current.
	if _, err := gate.SignIn(c.Request.Context(), store.Identity{
		UserID:      user.UserID,
		DisplayName: user.Username,
	}); err != nil {
		utils.TrackError("store", "sign_in_failed")
		utils.InternalError(c, "Failed to initialize state")
		return
	}

	utils.TrackAuthAttempt("success", "login")

	response := gin.H{
		"message": "Login successful",
		"token":   token,
		"refresh": refreshToken,
		"user": gin.H{
			"id":       user.UserID,
			"username": user.Username,
			"email":    user.Email,
		},
	}
	if notice != "" {
		response["notice"] = notice
	}

	utils.Success(c, response)
}
