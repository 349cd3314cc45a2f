package handler

import (
	"log"
	"os"

	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
	"github.com/pquerna/otp/totp"
)

// Setup2FAHandler generates a TOTP secret and recovery codes. The secret is
// not stored until the user verifies a code against it.
func Setup2FAHandler(c *gin.Context, userService *usecase.UserService) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	user, err := userService.FindUser(c.Request.Context(), userID.(string))
	if err != nil || user == nil {
		utils.InternalError(c, "Failed to fetch user")
		return
	}
	if user.TwoFactorEnabled {
		utils.Conflict(c, "Two-factor authentication already enabled")
		return
	}

	issuer := os.Getenv("TOTP_ISSUER")
	if issuer == "" {
		issuer = "habitly"
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: user.Username,
	})
	if err != nil {
		log.Printf("Failed to generate TOTP key: %v", err)
		utils.InternalError(c, "Failed to generate secret")
		return
	}

	utils.Success(c, gin.H{
		"secret":      key.Secret(),
		"otpauth_url": key.URL(),
	})
}

// Enable2FAHandler verifies the first TOTP code and persists the secret
// along with hashed recovery codes.
func Enable2FAHandler(c *gin.Context, userService *usecase.UserService) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	var req struct {
		Secret   string `json:"secret" binding:"required"`
		TOTPCode string `json:"totp_code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if !totp.Validate(req.TOTPCode, req.Secret) {
		utils.TrackAuthAttempt("failure", "2fa")
		utils.BadRequest(c, "Invalid TOTP code")
		return
	}

	recoveryCodes, err := utils.GenerateRecoveryCodes()
	if err != nil {
		utils.InternalError(c, "Failed to generate recovery codes")
		return
	}

	err = userService.UsersRepo.EnableTwoFactor(
		c.Request.Context(),
		userID.(string),
		req.Secret,
		utils.HashRecoveryCodes(recoveryCodes),
	)
	if err != nil {
		utils.InternalError(c, "Failed to enable two-factor authentication")
		return
	}

	utils.TrackAuthAttempt("success", "2fa")
	// Plain-text codes are shown exactly once
	utils.Success(c, gin.H{
		"message":        "Two-factor authentication enabled",
		"recovery_codes": recoveryCodes,
	})
}

func Disable2FAHandler(c *gin.Context, userService *usecase.UserService) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	var req struct {
		TOTPCode string `json:"totp_code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	user, err := userService.FindUser(c.Request.Context(), userID.(string))
	if err != nil || user == nil {
		utils.InternalError(c, "Failed to fetch user")
		return
	}
	if !user.TwoFactorEnabled {
		utils.BadRequest(c, "Two-factor authentication is not enabled")
		return
	}

	valid := totp.Validate(req.TOTPCode, user.TwoFactorSecret)
	if !valid {
		// Recovery codes also unlock the account
		hashed := utils.HashString(req.TOTPCode)
		for _, code := range user.RecoveryCodes {
			if code == hashed {
				valid = true
				break
			}
		}
	}
	if !valid {
		utils.TrackAuthAttempt("failure", "2fa")
		utils.Unauthorized(c, "Invalid TOTP code")
		return
	}

	if err := userService.UsersRepo.DisableTwoFactor(c.Request.Context(), userID.(string)); err != nil {
		utils.InternalError(c, "Failed to disable two-factor authentication")
		return
	}

	utils.Success(c, gin.H{"message": "Two-factor authentication disabled"})
}
