package models

import "time"

type JsonModel struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type GoogleAuthSignIn struct {
	IdToken  string `json:"idToken" validate:"required"`
	Platform string `json:"platform" validate:"required"`
}

type AppleAuthRequest struct {
	IdentityToken     string `json:"identity_token" validate:"required"`
	Platform          string `json:"platform" validate:"required"`
	AuthorizationCode string `json:"authorization_code" validate:"required"`
}

type SignUpIn struct {
	ProfileIn
	IdToken  string `json:"idToken" validate:"required"`
	Platform string `json:"platform" validate:"required"`
}

type ProfileIn struct {
	Name      string `json:"name" validate:"required"`
	UTMSource string `json:"utm_source" validate:"required"`
}
