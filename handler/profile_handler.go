package handler

import (
	"errors"
	"log"

	"main/dto"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

func GetUserProfileHandler(c *gin.Context, userService *usecase.UserService) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	user, err := userService.FindUser(c.Request.Context(), userID.(string))
	if err != nil {
		log.Printf("Error fetching user %s: %v", userID, err)
		utils.InternalError(c, "Failed to fetch user details")
		return
	}
	if user == nil {
		utils.NotFound(c, "User not found")
		return
	}

	utils.Success(c, dto.ToUserProfileResponse(user))
}

func ChangePasswordHandler(c *gin.Context, userService *usecase.UserService) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	var req struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required,password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := userService.ChangePassword(c.Request.Context(), userID.(string), req.CurrentPassword, req.NewPassword); err != nil {
		if err.Error() == "incorrect password" {
			utils.Unauthorized(c, "Incorrect password")
			return
		}
		utils.InternalError(c, "Failed to change password")
		return
	}

	utils.Success(c, gin.H{"message": "Password changed successfully"})
}

func ChangeEmailHandler(c *gin.Context, userService *usecase.UserService) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid email address")
		return
	}

	if err := userService.ChangeEmail(c.Request.Context(), userID.(string), req.Email); err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmailChangeRateLimited):
			utils.TooManyRequests(c, "Email can only be changed every 2 weeks")
		case err.Error() == "new email is same as current email":
			utils.BadRequest(c, "New email is same as current email")
		default:
			utils.InternalError(c, "Failed to change email")
		}
		return
	}

	utils.Success(c, gin.H{"message": "Email changed successfully"})
}

func DeleteUserHandler(c *gin.Context, userService *usecase.UserService) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	if err := userService.DeleteUser(c.Request.Context(), userID.(string)); err != nil {
		utils.InternalError(c, "Failed to delete account")
		return
	}

	utils.Success(c, gin.H{"message": "Account deleted"})
}
