// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents an account created from a GitHub login. The ID is the
// provider's numeric user ID rendered as a string, so it is stable across
// username changes on the provider side.
type User struct {
	ID        string `gorm:"primaryKey;size:64" json:"id"`
	Username  string `gorm:"size:120;not null;uniqueIndex" json:"username"`
	AvatarURL string `gorm:"size:500" json:"avatar_url"`
	Bio       string `gorm:"size:500" json:"bio"`
	// PostCount mirrors the number of posts owned by this user. It is
	// adjusted in the same transaction as every post insert/delete.
	PostCount  int        `gorm:"not null;default:0" json:"post_count"`
	LastPostAt *time.Time `json:"last_post_at,omitempty"`
	IsAdmin    bool       `gorm:"not null;default:false" json:"is_admin"`
	JoinedAt   time.Time  `gorm:"autoCreateTime" json:"joined_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
