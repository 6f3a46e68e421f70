package models

import "time"

// Like records that a user liked a post. The composite unique index makes a
// second like for the same pair impossible at the storage level.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    string    `gorm:"size:36;not null;uniqueIndex:idx_likes_post_user" json:"post_id"`
	UserID    string    `gorm:"size:64;not null;uniqueIndex:idx_likes_post_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
