package models

import "time"

// Profile is the public-facing record of an identity, one-to-one with User.
type Profile struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"` // equals User.ID
	Username  string    `json:"username" gorm:"uniqueIndex;type:varchar(100);not null"`
	FullName  string    `json:"full_name" gorm:"type:varchar(255)"`
	AvatarURL string    `json:"avatar_url" gorm:"type:varchar(500)"`
	CreatedAt time.Time `json:"created_at"`
}

// Author is the slice of a Profile joined onto posts.
type Author struct {
	ID       string `json:"-" gorm:"primaryKey"`
	Username string `json:"username"`
	FullName string `json:"full_name,omitempty"`
}

// TableName maps Author onto the profiles table.
func (Author) TableName() string { return "profiles" }

// DisplayName returns the full name when set, the username otherwise.
func (a Author) DisplayName() string {
	if a.FullName != "" {
		return a.FullName
	}
	return a.Username
}
