// Package dto defines request parameters and response structs.
package dto

import "github.com/haierkeys/voice-notes-service/pkg/timex"

// UserRegisterRequest is the registration request body.
type UserRegisterRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=6"`
	Nickname string `json:"nickname" form:"nickname"`
}

// UserLoginRequest is the login request body.
type UserLoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

// UserDTO is the authenticated user payload.
type UserDTO struct {
	UID       int64      `json:"uid"`
	Email     string     `json:"email"`
	Nickname  string     `json:"nickname"`
	Token     string     `json:"token,omitempty"`
	CreatedAt timex.Time `json:"created_at"`
	UpdatedAt timex.Time `json:"updated_at"`
}
