package models

import "time"

// User is the private authentication record of an identity.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null"` // bcrypt hash, never serialized
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Identity is the authenticated principal observed by the rest of the application.
// Only the stable identifier is consumed for authorization decisions.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}
