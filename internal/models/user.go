package models

import "time"

type User struct {
	ID          int       `json:"id"`
	Username    string    `json:"username"`
	AvatarURL   string    `json:"avatar_url,omitempty"` // unset unless assigned explicitly
	MemberSince time.Time `json:"member_since"`
}
