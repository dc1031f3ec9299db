package domain

import "time"

// AuthProvider identifies how a user authenticates.
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "LOCAL"
	ProviderGoogle AuthProvider = "GOOGLE"
)

// User represents a login identity.
type User struct {
	UserID                 string       `json:"userID"`
	Username               string       `json:"username"`
	Name                   string       `json:"name"`
	Email                  string       `json:"email"`
	PasswordHash           string       `json:"-"`
	AuthProvider           AuthProvider `json:"authProvider"`
	ProviderUserID         *string      `json:"-"` // subject claim for external providers
	RefreshTokenHash       string       `json:"-"`
	RefreshTokenExpiryTime *time.Time   `json:"-"`
	IsDeleted              bool         `json:"-"`
	AuditFields
}

// GoogleUserInfo is the subset of the Google userinfo payload we consume.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
