package handler

import (
	"strings"
	"time"

	"main/services"
	"main/utils"

	"github.com/gin-gonic/gin"
)

func RefreshTokenHandler(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		utils.Unauthorized(c, "Missing or invalid refresh token")
		return
	}

	refreshToken := strings.TrimPrefix(authHeader, "Bearer ")

	if services.IsTokenBlacklisted(refreshToken) {
		utils.Unauthorized(c, "Refresh token has been invalidated")
		return
	}

	claims, err := services.ParseToken(refreshToken)
	if err != nil {
		utils.TrackAuthAttempt("failure", "refresh")
		utils.Unauthorized(c, "Invalid refresh token")
		return
	}

	if claims["type"] != "refresh" || claims["user_id"] == nil {
		utils.Unauthorized(c, "Invalid token claims")
		return
	}

	if exp, ok := claims["exp"].(float64); ok && time.Unix(int64(exp), 0).Before(time.Now()) {
		utils.Unauthorized(c, "Refresh token has expired")
		return
	}

	userID := claims["user_id"].(string)

	newAccessToken, err := services.GenerateToken(userID)
	if err != nil {
		utils.InternalError(c, "Failed to generate new access token")
		return
	}

	newRefreshToken, err := services.GenerateRefreshToken(userID)
	if err != nil {
		utils.InternalError(c, "Failed to generate new refresh token")
		return
	}

	// The old refresh token is single-use
	if err := services.BlacklistTokens(refreshToken, ""); err != nil {
		utils.TrackError("auth", "refresh_blacklist_failed")
	}

	utils.TrackAuthAttempt("success", "refresh")
	utils.Success(c, gin.H{
		"access_token":  newAccessToken,
		"refresh_token": newRefreshToken,
	})
}
