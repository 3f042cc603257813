package handler

import (
	"context"

	"github.com/kriswind/everything-app/model"
	"github.com/kriswind/everything-app/services"
	"github.com/kriswind/everything-app/store"
	"github.com/kriswind/everything-app/utils"

	"github.com/gin-gonic/gin"
)

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// SessionEnder is the slice of the session store logout needs.
type SessionEnder interface {
	EndSession(ctx context.Context, sessionID string) error
}

// LogoutHandler blacklists the caller's tokens, retires the session and
// signs the identity out of the state gate.
func LogoutHandler(c *gin.Context, sessionRepo SessionEnder, gate *store.Gate) {
	userID := c.GetString("user_id")
	if userID == "" {
		utils.Unauthorized(c, "Not signed in")
		return
	}

	var req logoutRequest
	c.ShouldBindJSON(&req) // refresh token is optional

	accessToken := c.GetString("access_token")
	if err := services.BlacklistTokens(accessToken, req.RefreshToken); err != nil {
		utils.TrackError("auth", "token_blacklist")
	}

	if session, exists := c.Get("session"); exists {
		if s, ok := session.(*model.Session); ok {
			if err := sessionRepo.EndSession(c.Request.Context(), s.SessionID); err != nil {
				utils.TrackError("session", "end_failed")
			}
			if services.GlobalSessionCache != nil {
				services.GlobalSessionCache.DeleteSession(s.SessionID)
			}
			c.SetCookie("session_id", "", -1, "/", "", true, true)
		}
	}

	// Sign-out drops the entity lists and cancels the subscriptions;
	// profile, timer and dashboard config survive for the next login.
	gate.SignOut(userID)

	utils.TrackAuthAttempt("success", "logout")
	utils.Success(c, gin.H{"message": "Logged out successfully"})
}
