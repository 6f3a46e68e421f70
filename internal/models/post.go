// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Post represents a short Markdown post, optionally carrying up to four
// uploaded image URLs.
type Post struct {
	ID      string `gorm:"primaryKey;size:36" json:"id"`
	Content string `gorm:"type:text;not null" json:"content"`
	// Images is stored as a JSON-serialized text column; order is the
	// order the author attached them.
	Images []string `gorm:"serializer:json" json:"images"`
	UserID string   `gorm:"size:64;not null;index" json:"user_id"`
	User   *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	// CommentsCount mirrors the number of comments on this post. It is
	// adjusted in the same transaction as every comment insert/delete.
	CommentsCount int `gorm:"not null;default:0" json:"comments_count"`
	// Likes holds the IDs of users who liked this post; populated at the
	// read boundary from the likes table, never persisted on the row.
	Likes      []string  `gorm:"-" json:"likes"`
	LikesCount int       `gorm:"-" json:"likes_count"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PostPage is one page of the community feed.
type PostPage struct {
	Items   []*Post `json:"items"`
	Total   int64   `json:"total"`
	Page    int     `json:"page"`
	Limit   int     `json:"limit"`
	HasMore bool    `json:"has_more"`
}
