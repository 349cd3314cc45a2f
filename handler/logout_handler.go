package handler

import (
	"log"
	"strings"

	"main/model"
	"main/repository"
	"main/services"
	"main/utils"

	"github.com/gin-gonic/gin"
)

func LogoutHandler(c *gin.Context, sessionRepo *repository.SessionRepo) {
	authHeader := c.GetHeader("Authorization")
	accessToken := strings.TrimPrefix(authHeader, "Bearer ")

	var req struct {
		RefreshToken string `json:"refresh,omitempty"`
	}
	// Body is optional; missing refresh token still logs out the session
	c.ShouldBindJSON(&req)

	if err := services.BlacklistTokens(accessToken, req.RefreshToken); err != nil {
		log.Printf("Failed to blacklist tokens: %v", err)
	}

	if sessionValue, exists := c.Get("session"); exists {
		if session, ok := sessionValue.(*model.Session); ok {
			session.IsActive = false
			if err := sessionRepo.UpdateSession(session); err != nil {
				log.Printf("Failed to end session %s: %v", session.SessionID, err)
			}
			if services.GlobalSessionCache != nil {
				services.GlobalSessionCache.DeleteSession(session.SessionID)
			}
		}
	}
	c.SetCookie("session_id", "", -1, "/", "", true, true)

	utils.Success(c, gin.H{"message": "Logged out successfully"})
}
