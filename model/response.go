package model

// AuthResponse is returned by register and login. The refresh token travels
// in a cookie only.
type AuthResponse struct {
	Message     string     `json:"message"`
	User        PublicUser `json:"user"`
	AccessToken string     `json:"accessToken"`
}

type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type UserResponse struct {
	User *User `json:"user"`
}

type ProfileResponse struct {
	Message string `json:"message"`
	User    *User  `json:"user"`
}
