package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/kriswind/everything-app/model"
	"github.com/kriswind/everything-app/services"
	"github.com/kriswind/everything-app/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionRepository is the slice of the session store this middleware needs.
type SessionRepository interface {
	CreateSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, sessionID string) (*model.Session, error)
	UpdateSession(ctx context.Context, session *model.Session) error
	CountActiveSessions(ctx context.Context, userID string) (int, error)
	EndLeastActiveSession(ctx context.Context, userID string) error
}

const sessionInactivityTimeout = 48 * time.Hour

// SessionMiddleware resolves the session cookie, expiring idle sessions and
// refreshing the activity timestamp. Requests without a cookie pass through.
func SessionMiddleware(sessionRepo SessionRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie("session_id")
		if err != nil {
			c.Next()
			return
		}

		session := lookupSession(c, sessionRepo, sessionID)
		if session == nil || !session.IsActive {
			c.SetCookie("session_id", "", -1, "/", "", true, true)
			c.Next()
			return
		}

		if time.Since(session.LastActivityAt) > sessionInactivityTimeout {
			session.IsActive = false
			sessionRepo.UpdateSession(c.Request.Context(), session)
			c.SetCookie("session_id", "", -1, "/", "", true, true)
			c.Next()
			return
		}

		session.LastActivityAt = time.Now()
		if err := sessionRepo.UpdateSession(c.Request.Context(), session); err == nil {
			if services.GlobalSessionCache != nil {
				services.GlobalSessionCache.SetSession(session)
			}
		}

		c.Set("session", session)
		c.Next()
	}
}

func lookupSession(c *gin.Context, sessionRepo SessionRepository, sessionID string) *model.Session {
	if services.GlobalSessionCache != nil {
		if session, err := services.GlobalSessionCache.GetSession(sessionID); err == nil && session != nil {
			return session
		}
	}

	session, err := sessionRepo.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		return nil
	}
	return session
}

// CreateSession records a new session for the user and sets its cookie. The
// display name comes from the request's User-Agent.
func CreateSession(c *gin.Context, userID string, sessionRepo SessionRepository) (*model.Session, error) {
	userAgent := c.Request.UserAgent()
	browser, os, device := utils.ParseUserAgent(userAgent)

	session := &model.Session{
		SessionID:      uuid.New().String(),
		UserID:         userID,
		DisplayName:    utils.GenerateSessionName(userAgent),
		DeviceInfo:     fmt.Sprintf("%s on %s (%s)", browser, os, device),
		CreatedAt:      time.Now(),
		ExpiresAt:      time.Now().Add(24 * time.Hour),
		LastActivityAt: time.Now(),
		IPAddress:      c.ClientIP(),
		IsActive:       true,
	}

	if err := sessionRepo.CreateSession(c.Request.Context(), session); err != nil {
		return nil, err
	}

	if services.GlobalSessionCache != nil {
		services.GlobalSessionCache.SetSession(session)
	}

	c.SetCookie(
		"session_id",
		session.SessionID,
		int(24*time.Hour.Seconds()),
		"/",
		"",
		true,
		true,
	)

	return session, nil
}
