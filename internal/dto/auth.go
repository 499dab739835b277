package dto

import "github.com/eco-rangers/eco-rangers-api/internal/models"

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30,username"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthData struct {
	User models.User `json:"user"`
}

// AuthResponse is returned by register and login. Token is the plaintext
// bearer token; it is not recoverable after this response.
type AuthResponse struct {
	Message string   `json:"message"`
	Data    AuthData `json:"data"`
	Token   string   `json:"token"`
}
