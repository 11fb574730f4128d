package model

import "github.com/golang-jwt/jwt/v5"

// UserClaims is the JWT payload for student and teacher tokens
type UserClaims struct {
	UserID string `json:"userId"`
	Role   Role   `json:"role"`
	jwt.RegisteredClaims
}

// ParentClaims is the JWT payload for parent tokens. Parents authenticate
// by phone number only and get read-only access to their children.
type ParentClaims struct {
	Phone      string   `json:"phone"`
	StudentIDs []string `json:"studentIds"`
	jwt.RegisteredClaims
}

// RegisterRequest is the request body for student registration
type RegisterRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required,min=8"`
	Password    string `json:"password" validate:"required,min=6"`
	FullName    string `json:"fullName" validate:"required"`
	Grade       string `json:"grade" validate:"required"`
	ParentPhone string `json:"parentPhone,omitempty"`
}

// Validate checks a registration payload.
func (r *RegisterRequest) Validate() error {
	return validate.Struct(r)
}

// LoginRequest is the request body for student/teacher login
type LoginRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

// LoginResponse carries the issued token and the account it belongs to
type LoginResponse struct {
	Token   string   `json:"token"`
	Profile *Profile `json:"profile"`
}

// ParentLoginRequest is the request body for parent login
type ParentLoginRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

// ParentLoginResponse carries the parent token and the matched children
type ParentLoginResponse struct {
	Token    string     `json:"token"`
	Students []*Profile `json:"students"`
}
