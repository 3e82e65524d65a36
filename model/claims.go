package model

import "github.com/golang-jwt/jwt/v5"

// AppClaims is the payload shared by access and refresh tokens.
type AppClaims struct {
	UserID int    `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
