package model

import "time"

type User struct {
	UserID    string    `bson:"user_id" json:"user_id"`                               // Unique ID number
	Username  string    `bson:"username" json:"username" binding:"required,min=4"`    // Username field
	Email     string    `bson:"email" json:"email" binding:"required,email"`          // Email field
	Password  string    `bson:"password" json:"password" binding:"required,password"` // Hashed password field
	CreatedAt time.Time `bson:"created_at" json:"created_at"`                         // Time created for account life

	LastEmailChange time.Time `bson:"last_email_change,omitempty" json:"-"`

	// Two-factor authentication state
	TwoFactorEnabled bool     `bson:"two_factor_enabled" json:"two_factor_enabled"`
	TwoFactorSecret  string   `bson:"two_factor_secret,omitempty" json:"-"`
	RecoveryCodes    []string `bson:"recovery_codes,omitempty" json:"-"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	TOTPCode string `json:"totp_code,omitempty"`
}
