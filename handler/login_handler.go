package handler

import (
	"log"

	"main/middleware"
	"main/model"
	"main/repository"
	"main/services"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
	"github.com/pquerna/otp/totp"
)

func LoginHandler(c *gin.Context, userService *usecase.UserService, sessionRepo *repository.SessionRepo) {
	var loginReq model.LoginRequest

	if err := c.ShouldBindJSON(&loginReq); err != nil {
		utils.BadRequest(c, "Invalid request")
		return
	}

	user, err := userService.FindUserByUsername(c.Request.Context(), loginReq.Username)
	if err != nil {
		log.Printf("Error finding user %s: %v", loginReq.Username, err)
		utils.TrackAuthAttempt("failure", "login")
		utils.Unauthorized(c, "Invalid credentials")
		return
	}
	if user == nil {
		utils.TrackAuthAttempt("failure", "login")
		utils.Unauthorized(c, "Invalid credentials")
		return
	}

	match, err := services.VerifyPassword(user.Password, loginReq.Password)
	if err != nil || !match {
		utils.TrackAuthAttempt("failure", "login")
		utils.Unauthorized(c, "Invalid credentials")
		return
	}

	// Second factor when enrolled
	if user.TwoFactorEnabled {
		if loginReq.TOTPCode == "" {
			utils.Unauthorized(c, "TOTP code required")
			return
		}
		if !totp.Validate(loginReq.TOTPCode, user.TwoFactorSecret) {
			utils.TrackAuthAttempt("failure", "2fa")
			utils.Unauthorized(c, "Invalid TOTP code")
			return
		}
		utils.TrackAuthAttempt("success", "2fa")
	}

	token, err := services.GenerateToken(user.UserID)
	if err != nil {
		utils.InternalError(c, "Failed to generate token")
		return
	}

	refreshToken, err := services.GenerateRefreshToken(user.UserID)
	if err != nil {
		utils.InternalError(c, "Failed to generate refresh token")
		return
	}

	if err := middleware.CreateSession(c, user.UserID, sessionRepo); err != nil {
		// Session record is best-effort; tokens alone still authenticate
		log.Printf("Failed to create session for user %s: %v", user.UserID, err)
	}

	utils.TrackAuthAttempt("success", "login")
	utils.Success(c, gin.H{
		"message": "Login successful",
		"token":   token,
		"refresh": refreshToken,
	})
}
