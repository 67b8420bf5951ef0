package repositories

import (
	"github.com/Nagraj-13/SocialConnect/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations.
// MarkAsRead enforces recipient ownership in the query itself.
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	CreateNotifications(notifications []models.Notification) error
	ListByRecipient(recipientID uint, limit int) ([]models.Notification, error)
	GetUnreadCount(recipientID uint) (int64, error)
	MarkAsRead(notificationID, recipientID uint) (*models.Notification, error)
	MarkAllAsRead(recipientID uint) (int64, error)
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

// NewPostgresNotificationRepository creates the PostgreSQL implementation
func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) CreateNotification(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// CreateNotifications bulk-inserts fan-out rows in one statement per batch.
func (r *postgresNotificationRepository) CreateNotifications(notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.CreateInBatches(notifications, 500).Error
}

func (r *postgresNotificationRepository) ListByRecipient(recipientID uint, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

// GetUnreadCount is the authoritative unread counter: always recomputed
// from rows, never from cached state.
func (r *postgresNotificationRepository) GetUnreadCount(recipientID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = false", recipientID).
		Count(&count).Error
	return count, err
}

// MarkAsRead flips one notification owned by recipientID. The ownership
// check lives in the WHERE clause so a recipient can never touch another
// user's row; a missing or unowned row maps to ErrNotificationNotFound.
// The returned row carries the pre-update state: IsRead == false means this
// call performed the flip (callers publish a change-feed update only then).
func (r *postgresNotificationRepository) MarkAsRead(notificationID, recipientID uint) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.Where("id = ? AND recipient_id = ?", notificationID, recipientID).
		First(&notification).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	if notification.IsRead {
		return &notification, nil
	}
	err := r.db.Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", notificationID, recipientID).
		Update("is_read", true).Error
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

// MarkAllAsRead bulk-flips every unread row for the recipient. Idempotent:
// the second call affects zero rows.
func (r *postgresNotificationRepository) MarkAllAsRead(recipientID uint) (int64, error) {
	res := r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = false", recipientID).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}
