package auth

import (
	"github.com/angelmondragon/autocenter-backend/internal/customers"
)

// LoginRequest captures the credentials sent to the login endpoints.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the refresh token issued at login.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// TokenPair is returned on every successful authentication.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// LoginResponse contains the tokens and the customer profile.
type LoginResponse struct {
	TokenPair
	Customer *customers.CustomerDTO `json:"customer"`
}

// AdminLoginResponse mirrors LoginResponse while exposing the admin.
type AdminLoginResponse struct {
	TokenPair
	Admin *customers.AdminDTO `json:"admin"`
}
