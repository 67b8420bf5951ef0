package models

import "time"

// Post categories
const (
	CategoryGeneral   = "GENERAL"
	CategoryTech      = "TECH"
	CategoryLifestyle = "LIFESTYLE"
	CategoryTravel    = "TRAVEL"
	CategoryFood      = "FOOD"
	CategoryEducation = "EDUCATION"
)

// Post represents a feed post. LikeCount and CommentCount are denormalized
// and must only ever change together with the Like/Comment row that causes
// the change, inside one transaction.
type Post struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	AuthorID     uint      `json:"author_id" gorm:"index;not null"`
	Content      string    `json:"content" gorm:"size:280;not null"`
	ImageURL     string    `json:"image_url,omitempty"`
	Category     string    `json:"category" gorm:"size:20;default:'GENERAL'"`
	LikeCount    int       `json:"like_count" gorm:"default:0"`
	CommentCount int       `json:"comment_count" gorm:"default:0"`
	IsActive     bool      `json:"is_active" gorm:"default:true;index"`
	CreatedAt    time.Time `json:"created_at" gorm:"index"`
	UpdatedAt    time.Time `json:"updated_at"`

	Author User `json:"-" gorm:"foreignKey:AuthorID"`
}

// PostSummary is the embeddable post reference carried by notifications.
type PostSummary struct {
	ID       uint   `json:"id"`
	Content  string `json:"content"`
	ImageURL string `json:"image_url,omitempty"`
}

// ToSummary converts a post row to its summary form.
func (p *Post) ToSummary() PostSummary {
	return PostSummary{ID: p.ID, Content: p.Content, ImageURL: p.ImageURL}
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content  string `json:"content" validate:"required,min=1,max=280"`
	ImageURL string `json:"image_url,omitempty" validate:"omitempty,url"`
	Category string `json:"category,omitempty" validate:"omitempty,oneof=GENERAL TECH LIFESTYLE TRAVEL FOOD EDUCATION"`
}
