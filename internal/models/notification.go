package models

import "time"

// Notification types
const (
	NotificationFollow  = "FOLLOW"
	NotificationLike    = "LIKE"
	NotificationComment = "COMMENT"
	NotificationPost    = "POST"
)

// Notification represents a user notification. Rows are created only by the
// notification writer as a side effect of domain events, and are mutated only
// to flip IsRead. SenderID is never equal to RecipientID.
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Type        string    `json:"type" gorm:"size:10;index;not null"`
	RecipientID uint      `json:"recipient_id" gorm:"index;not null"`
	SenderID    uint      `json:"sender_id" gorm:"index;not null"`
	Message     string    `json:"message"`
	PostID      *uint     `json:"post_id,omitempty"`
	IsRead      bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

// NotificationMessage returns the fixed human-readable message for a
// notification type. This is the single place the per-type strings live.
func NotificationMessage(notificationType string) string {
	switch notificationType {
	case NotificationFollow:
		return "started following you"
	case NotificationLike:
		return "liked your post"
	case NotificationComment:
		return "commented on your post"
	case NotificationPost:
		return "shared a new post"
	default:
		return "new activity"
	}
}
