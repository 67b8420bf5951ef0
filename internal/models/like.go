package models

import "time"

// Like represents a like on a post. The composite unique index makes a
// duplicate like a constraint violation rather than a double count.
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_post_like;not null"`
	PostID    uint      `json:"post_id" gorm:"index;uniqueIndex:idx_user_post_like;not null"`
	CreatedAt time.Time `json:"created_at"`
}
