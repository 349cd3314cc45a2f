package handler

import (
	"main/dto"
	"main/model"
	"main/repository"
	"main/utils"

	"github.com/gin-gonic/gin"
)

func GetActiveSessions(c *gin.Context, sessionRepo *repository.SessionRepo) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	sessions, err := sessionRepo.GetUserActiveSessions(userID.(string))
	if err != nil {
		utils.InternalError(c, "Failed to fetch sessions")
		return
	}

	currentSessionID := ""
	if sessionValue, ok := c.Get("session"); ok {
		if session, ok := sessionValue.(*model.Session); ok {
			currentSessionID = session.SessionID
		}
	}

	responses := make([]dto.SessionResponse, len(sessions))
	for i, session := range sessions {
		responses[i] = dto.ToSessionResponse(session, currentSessionID)
	}

	utils.UpdateActiveSessions(float64(len(sessions)))
	utils.Success(c, responses)
}

func LogoutAllSessions(c *gin.Context, sessionRepo *repository.SessionRepo) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	if err := sessionRepo.EndAllUserSessions(userID.(string)); err != nil {
		utils.InternalError(c, "Failed to end sessions")
		return
	}

	c.SetCookie("session_id", "", -1, "/", "", true, true)
	utils.Success(c, gin.H{"message": "All sessions logged out"})
}
