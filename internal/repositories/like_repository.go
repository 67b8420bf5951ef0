package repositories

import (
	"errors"

	"github.com/Nagraj-13/SocialConnect/internal/models"
	"gorm.io/gorm"
)

// LikeRepository defines the interface for like data operations. ToggleLike
// is the counter maintainer for post.like_count: the Like row and the
// counter change in one transaction or not at all.
type LikeRepository interface {
	ToggleLike(userID, postID uint) (liked bool, likeCount int, err error)
	HasUserLikedPost(userID, postID uint) (bool, error)
	CountByPostID(postID uint) (int64, error)
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// ToggleLike likes the post if the user has no like row for it, unlikes it
// otherwise. The counter is adjusted with a single SQL expression scoped to
// the row, never read-modify-write in Go; the decrement floors at zero. The
// returned likeCount is read back inside the same transaction.
func (r *PostgresLikeRepository) ToggleLike(userID, postID uint) (liked bool, likeCount int, err error) {
	err = r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Like
		findErr := tx.Where("user_id = ? AND post_id = ?", userID, postID).First(&existing).Error

		switch {
		case findErr == nil:
			if err := tx.Delete(&models.Like{}, existing.ID).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Post{}).Where("id = ?", postID).
				Update("like_count", gorm.Expr("GREATEST(like_count - 1, 0)")).Error; err != nil {
				return err
			}
			liked = false

		case errors.Is(findErr, gorm.ErrRecordNotFound):
			if err := tx.Create(&models.Like{UserID: userID, PostID: postID}).Error; err != nil {
				// Concurrent double-like: another transaction inserted the
				// row between our lookup and the insert. The unique index
				// rejects it, so the counter is never touched twice.
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ErrAlreadyLiked
				}
				return err
			}
			if err := tx.Model(&models.Post{}).Where("id = ?", postID).
				Update("like_count", gorm.Expr("like_count + 1")).Error; err != nil {
				return err
			}
			liked = true

		default:
			return findErr
		}

		return tx.Model(&models.Post{}).
			Select("like_count").
			Where("id = ?", postID).
			Scan(&likeCount).Error
	})
	return liked, likeCount, err
}

// HasUserLikedPost checks whether a user has liked a specific post
func (r *PostgresLikeRepository) HasUserLikedPost(userID, postID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, err
}

// CountByPostID returns the number of like rows for a post
func (r *PostgresLikeRepository) CountByPostID(postID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}
