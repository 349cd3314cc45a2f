package handler

import (
	"main/model"
	"main/services"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

func RegistrationHandler(c *gin.Context, userService *usecase.UserService) {
	var user model.User

	if err := c.ShouldBindJSON(&user); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := userService.CreateUser(c.Request.Context(), &user); err != nil {
		if err.Error() == "username already exists" {
			utils.TrackAuthAttempt("failure", "register")
			utils.Conflict(c, "username already exists")
			return
		}
		utils.TrackAuthAttempt("failure", "register")
		utils.BadRequest(c, err.Error())
		return
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

	utils.TrackAuthAttempt("success", "register")
	utils.Created(c, gin.H{
		"message": "user registered successfully",
		"token":   token,
		"refresh": refreshToken,
	})
}
