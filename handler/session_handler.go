package handler

import (
	"context"

	"github.com/kriswind/everything-app/model"
	"github.com/kriswind/everything-app/utils"

	"github.com/gin-gonic/gin"
)

// SessionLister is the slice of the session store these handlers need.
type SessionLister interface {
	GetUserActiveSessions(ctx context.Context, userID string) ([]*model.Session, error)
	EndSession(ctx context.Context, sessionID string) error
	EndAllUserSessions(ctx context.Context, userID string) (int64, error)
}

// GetSessionsHandler lists the caller's active sessions.
func GetSessionsHandler(c *gin.Context, sessionRepo SessionLister) {
	userID := c.GetString("user_id")

	sessions, err := sessionRepo.GetUserActiveSessions(c.Request.Context(), userID)
	if err != nil {
		utils.TrackError("session", "list_failed")
		utils.InternalError(c, "Failed to list sessions")
		return
	}

	utils.Success(c, gin.H{"sessions": sessions})
}

// EndSessionHandler retires one of the caller's sessions by id.
func EndSessionHandler(c *gin.Context, sessionRepo SessionLister) {
	userID := c.GetString("user_id")
	sessionID := c.Param("id")

	sessions, err := sessionRepo.GetUserActiveSessions(c.Request.Context(), userID)
	if err != nil {
		utils.TrackError("session", "list_failed")
		utils.InternalError(c, "Failed to look up session")
		return
	}

	owned := false
	for _, s := range sessions {
		if s.SessionID == sessionID {
			owned = true
			break
		}
	}
	if !owned {
		utils.NotFound(c, "Session not found")
		return
	}

	if err := sessionRepo.EndSession(c.Request.Context(), sessionID); err != nil {
		utils.TrackError("session", "end_failed")
		utils.InternalError(c, "Failed to end session")
		return
	}

	utils.Success(c, gin.H{"message": "Session ended"})
}

// EndAllSessionsHandler retires every session of the caller.
func EndAllSessionsHandler(c *gin.Context, sessionRepo SessionLister) {
	userID := c.GetString("user_id")

	count, err := sessionRepo.EndAllUserSessions(c.Request.Context(), userID)
	if err != nil {
		utils.TrackError("session", "end_all_failed")
		utils.InternalError(c, "Failed to end sessions")
		return
	}

	utils.Success(c, gin.H{
		"message":        "All sessions ended",
		"sessions_ended": count,
	})
}
