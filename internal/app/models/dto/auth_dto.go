package dto

import (
	"time"

	"github.com/schoolbook/marksdesk/internal/app/models"
)

// LoginRequest represents login credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"Admin"`
	Password string `json:"password" binding:"required" example:"Abc@12345"`
}

// VerifyTokenRequest carries a token to check. The token may also be sent as
// the "token" query parameter.
type VerifyTokenRequest struct {
	Token string `json:"token" form:"token"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64  `json:"expiresIn" example:"28800"`
}

// UserResponse represents basic user information
type UserResponse struct {
	ID        string          `json:"id"`
	Username  string          `json:"username" example:"Admin"`
	Role      models.RoleType `json:"role" example:"ADMIN"`
	IsActive  bool            `json:"isActive"`
	CreatedAt time.Time       `json:"createdAt"`
}

// NewUserResponse builds the public view of u
func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  UserResponse  `json:"user"`
}

// VerifyTokenResponse reports whether a token is currently valid
type VerifyTokenResponse struct {
	Valid   bool                   `json:"valid"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// CreateUserRequest is the admin-creation input
type CreateUserRequest struct {
	Username string          `json:"username" binding:"required,min=3,max=50"`
	Password string          `json:"password" binding:"required,min=6,max=72"`
	Role     models.RoleType `json:"role" binding:"omitempty,oneof=ADMIN"`
}
