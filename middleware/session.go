package middleware

import (
	"main/model"
	"main/repository"
	"main/services"
	"main/utils"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Sessions per user are capped; the stalest one is ended to make room.
const MaxActiveSessions = 5

func SessionMiddleware(sessionRepo *repository.SessionRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie("session_id")
		if err != nil {
			c.Next()
			return
		}

		session := lookupSession(sessionRepo, sessionID)
		if session == nil || !session.IsActive {
			c.SetCookie("session_id", "", -1, "/", "", true, true)
			c.Next()
			return
		}

		// Check for inactivity timeout (48 hours)
		if time.Since(session.LastActivityAt) > 48*time.Hour {
			session.IsActive = false
			sessionRepo.UpdateSession(session)
			if services.GlobalSessionCache != nil {
				services.GlobalSessionCache.DeleteSession(session.SessionID)
			}
			c.SetCookie("session_id", "", -1, "/", "", true, true)
			c.Next()
			return
		}

		// Update last activity time
		session.LastActivityAt = time.Now()
		sessionRepo.UpdateSession(session)

		c.Set("session", session)
		c.Next()
	}
}

// lookupSession checks the Redis session cache before hitting Mongo and
// backfills the cache on a miss.
func lookupSession(sessionRepo *repository.SessionRepo, sessionID string) *model.Session {
	if services.GlobalSessionCache != nil {
		if cached, err := services.GlobalSessionCache.GetSession(sessionID); err == nil && cached != nil {
			return cached
		}
	}

	session, err := sessionRepo.GetSession(sessionID)
	if err != nil {
		return nil
	}
	if services.GlobalSessionCache != nil {
		services.GlobalSessionCache.SetSession(session)
	}
	return session
}

func CreateSession(c *gin.Context, userID string, sessionRepo *repository.SessionRepo) error {
	count, err := sessionRepo.CountActiveSessions(userID)
	if err == nil && count >= MaxActiveSessions {
		sessionRepo.EndLeastActiveSession(userID)
	}

	userAgent := c.Request.UserAgent()
	browser, os, device := utils.ParseUserAgent(userAgent)

	session := &model.Session{
		SessionID:      uuid.New().String(),
		UserID:         userID,
		DisplayName:    utils.GenerateSessionName(userAgent),
		DeviceInfo:     browser + " on " + os + " (" + device + ")",
		CreatedAt:      time.Now(),
		ExpiresAt:      time.Now().Add(24 * time.Hour),
		LastActivityAt: time.Now(),
		IPAddress:      c.ClientIP(),
		IsActive:       true,
	}

	if err := sessionRepo.CreateSession(session); err != nil {
		return err
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

	return nil
}
