package handler

import (
	"github.com/kriswind/everything-app/services"
	"github.com/kriswind/everything-app/utils"

	"github.com/gin-gonic/gin"
)

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshHandler exchanges a valid refresh token for a fresh token pair.
// The old refresh token is blacklisted so it cannot be replayed.
func RefreshHandler(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid Request")
		return
	}

	if services.IsTokenBlacklisted(req.RefreshToken) {
		utils.TrackAuthAttempt("failure", "refresh_blacklisted")
		utils.Unauthorized(c, "Token has been invalidated")
		return
	}

	claims, err := services.ValidateToken(req.RefreshToken)
	if err != nil {
		utils.TrackAuthAttempt("failure", "refresh_invalid")
		utils.Unauthorized(c, "Invalid refresh token")
		return
	}

	if tokenType, ok := claims["type"].(string); !ok || tokenType != "refresh" {
		utils.TrackAuthAttempt("failure", "refresh_wrong_type")
		utils.Unauthorized(c, "Invalid token type")
		return
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		utils.Unauthorized(c, "Invalid token claims")
		return
	}

	token, err := services.GenerateToken(userID)
	if err != nil {
		utils.TrackError("auth", "token_generation")
		utils.InternalError(c, "Failed to generate token")
		return
	}

	refreshToken, err := services.GenerateRefreshToken(userID)
	if err != nil {
		utils.TrackError("auth", "refresh_token_generation")
		utils.InternalError(c, "Failed to generate refresh token")
		return
	}

	// One-time use: retire the presented refresh token.
	if err := services.BlacklistTokens(req.RefreshToken, req.RefreshToken); err != nil {
		utils.TrackError("auth", "token_blacklist")
	}

	utils.TrackAuthAttempt("success", "refresh")
	utils.Success(c, gin.H{
		"token":   token,
		"refresh": refreshToken,
	})
}
