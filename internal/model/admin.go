package model

import "time"

// AdminLoginRequest is the payload for admin authentication.
type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// AdminLoginResponse is returned after a successful admin login.
type AdminLoginResponse struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AdminProfile describes the holder of an admin token.
type AdminProfile struct {
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}
