package dto

import "time"

// LoginResponse is returned after a successful login or token refresh.
type LoginResponse struct {
	Token       string       `json:"token"`
	TokenExpiry time.Time    `json:"tokenExpiry"`
	User        UserResponse `json:"user"`
}
