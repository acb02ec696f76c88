package models

import "time"

type User struct {
	UID           string    `json:"uid"`
	DisplayName   string    `json:"displayName"`
	Email         string    `json:"email"`
	Token         string    `json:"token,omitempty"`
	PhotoURL      string    `json:"photoUrl,omitempty"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
