package handler

import (
	"github.com/kriswind/everything-app/usecase"
	"github.com/kriswind/everything-app/utils"

	"github.com/gin-gonic/gin"
)

type enable2FARequest struct {
	Secret string `json:"secret" binding:"required"`
	Code   string `json:"code" binding:"required"`
}

type disable2FARequest struct {
	Code string `json:"code" binding:"required"`
}

// Begin2FASetupHandler generates a TOTP secret and provisioning URL. The
// secret stays inactive until the first code is verified.
func Begin2FASetupHandler(c *gin.Context, userService *usecase.UserService) {
	userID := c.GetString("user_id")

	key, err := userService.BeginEnable2FA(c.Request.Context(), userID)
	if err != nil {
		if err == usecase.ErrTwoFactorEnabled {
			utils.Conflict(c, "2FA is already enabled")
			return
		}
		utils.TrackError("auth", "2fa_setup")
		utils.InternalError(c, "Failed to generate 2FA secret")
		return
	}

	utils.Success(c, gin.H{
		"secret": key.Secret(),
		"url":    key.URL(),
	})
}

// Enable2FAHandler verifies the first code and activates 2FA.
func Enable2FAHandler(c *gin.Context, userService *usecase.UserService) {
	userID := c.GetString("user_id")

	var req enable2FARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid Request")
		return
	}

	if err := userService.VerifyAndEnable2FA(c.Request.Context(), userID, req.Secret, req.Code); err != nil {
		if err == usecase.ErrInvalidTwoFactor {
			utils.TrackAuthAttempt("failure", "2fa_verification")
			utils.Unauthorized(c, "Invalid 2FA code")
			return
		}
		utils.TrackError("auth", "2fa_enable")
		utils.InternalError(c, "Failed to enable 2FA")
		return
	}

	utils.TrackAuthAttempt("success", "2fa_enabled")
	utils.Success(c, gin.H{"message": "2FA enabled successfully"})
}

// Disable2FAHandler turns 2FA off after re-verifying a current code.
func Disable2FAHandler(c *gin.Context, userService *usecase.UserService) {
	userID := c.GetString("user_id")

	var req disable2FARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid Request")
		return
	}

	if err := userService.Disable2FA(c.Request.Context(), userID, req.Code); err != nil {
		switch err {
		case usecase.ErrTwoFactorDisabled:
			utils.BadRequest(c, "2FA is not enabled")
		case usecase.ErrInvalidTwoFactor:
			utils.TrackAuthAttempt("failure", "2fa_verification")
			utils.Unauthorized(c, "Invalid 2FA code")
		default:
			utils.TrackError("auth", "2fa_disable")
			utils.InternalError(c, "Failed to disable 2FA")
		}
		return
	}

	utils.TrackAuthAttempt("success", "2fa_disabled")
	utils.Success(c, gin.H{"message": "2FA disabled successfully"})
}
