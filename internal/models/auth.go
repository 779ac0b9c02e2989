package models

import "github.com/golang-jwt/jwt/v5"

// StaffRole enumerates the roles allowed into the dashboard.
type StaffRole string

const (
	RoleAdmin  StaffRole = "ADMIN"
	RoleCoach  StaffRole = "COACH"
	RolePhysio StaffRole = "PHYSIO"
)

// JWTClaims represents the JWT payload for staff access tokens. Tokens are
// issued by the identity service; this API only validates them.
type JWTClaims struct {
	UserID   string    `json:"user_id"`
	Role     StaffRole `json:"role"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	jwt.RegisteredClaims
}
