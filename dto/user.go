package dto

import (
	"main/model"
	"time"
)

type UserProfileResponse struct {
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	CreatedAt        time.Time `json:"created_at"`
	TwoFactorEnabled bool      `json:"two_factor_enabled"`
}

func ToUserProfileResponse(user *model.User) UserProfileResponse {
	return UserProfileResponse{
		Username:         user.Username,
		Email:            user.Email,
		CreatedAt:        user.CreatedAt,
		TwoFactorEnabled: user.TwoFactorEnabled,
	}
}

type SessionResponse struct {
	SessionID      string    `json:"session_id"`
	DisplayName    string    `json:"display_name"`
	DeviceInfo     string    `json:"device_info"`
	IPAddress      string    `json:"ip_address"`
	CreatedAt      time.Time `json:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
	Current        bool      `json:"current"`
}

func ToSessionResponse(session *model.Session, currentSessionID string) SessionResponse {
	return SessionResponse{
		SessionID:      session.SessionID,
		DisplayName:    session.DisplayName,
		DeviceInfo:     session.DeviceInfo,
		IPAddress:      session.IPAddress,
		CreatedAt:      session.CreatedAt,
		LastActivityAt: session.LastActivityAt,
		Current:        session.SessionID == currentSessionID,
	}
}
