package repositories

import (
	"github.com/Nagraj-13/SocialConnect/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations.
// CreateComment maintains post.comment_count transactionally.
type CommentRepository interface {
	CreateComment(comment *models.Comment) error
	GetCommentByID(id uint) (*models.Comment, error)
	ListActiveByPostID(postID uint) ([]models.Comment, error)
	SoftDeleteComment(id, authorID uint) error
	CountActiveByPostID(postID uint) (int64, error)
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment inserts the comment and increments the parent post's
// comment_count in one transaction. The author relation is loaded for the
// response payload.
func (r *PostgresCommentRepository) CreateComment(comment *models.Comment) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Post{}).Where("id = ?", comment.PostID).
			Update("comment_count", gorm.Expr("comment_count + 1")).Error; err != nil {
			return err
		}
		return tx.First(&comment.Author, comment.AuthorID).Error
	})
}

// GetCommentByID retrieves a comment by ID
func (r *PostgresCommentRepository) GetCommentByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListActiveByPostID returns a post's active comments, oldest first, authors
// preloaded.
func (r *PostgresCommentRepository) ListActiveByPostID(postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Preload("Author").
		Where("post_id = ? AND is_active = true", postID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

// SoftDeleteComment flips is_active for a comment owned by authorID and
// decrements the parent post's comment_count, floored at zero, in one
// transaction. Returns gorm.ErrRecordNotFound when nothing matched.
func (r *PostgresCommentRepository) SoftDeleteComment(id, authorID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.Where("id = ? AND author_id = ? AND is_active = true", id, authorID).
			First(&comment).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Comment{}).Where("id = ?", comment.ID).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", comment.PostID).
			Update("comment_count", gorm.Expr("GREATEST(comment_count - 1, 0)")).Error
	})
}

// CountActiveByPostID returns the number of active comment rows for a post
func (r *PostgresCommentRepository) CountActiveByPostID(postID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Comment{}).
		Where("post_id = ? AND is_active = true", postID).
		Count(&count).Error
	return count, err
}
