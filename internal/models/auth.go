package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating any of the three roles.
// Username is used by the admin, MentorID by mentors, StudentID by students.
type LoginRequest struct {
	Role      UserRole `json:"role" validate:"required"`
	Username  string   `json:"username"`
	MentorID  string   `json:"mentor_id"`
	StudentID string   `json:"student_id"`
	Password  string   `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and resolved identity.
type LoginResponse struct {
	Token     string   `json:"token"`
	Role      UserRole `json:"role"`
	ExpiresIn int64    `json:"expires_in"`
	User      UserInfo `json:"user"`
}

// UserInfo describes the authenticated identity in responses.
type UserInfo struct {
	ID         string   `json:"id"`
	Role       UserRole `json:"role"`
	ExternalID string   `json:"external_id"`
	FullName   string   `json:"full_name,omitempty"`
}

// JWTClaims represents the JWT payload for access tokens. ExternalID carries
// the role-specific identifier (mentor_id or student_id, empty for admin).
type JWTClaims struct {
	UserID     string   `json:"user_id"`
	Role       UserRole `json:"role"`
	ExternalID string   `json:"external_id,omitempty"`
	jwt.RegisteredClaims
}
