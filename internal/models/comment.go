package models

import "time"

// Comment represents a comment on a post. Creation increments the parent
// post's comment_count in the same transaction.
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"post_id" gorm:"index;not null"`
	AuthorID  uint      `json:"author_id" gorm:"index;not null"`
	Content   string    `json:"content" gorm:"size:200;not null"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`

	Post   Post `json:"-" gorm:"foreignKey:PostID"`
	Author User `json:"-" gorm:"foreignKey:AuthorID"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=200"`
}
