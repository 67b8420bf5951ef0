package repositories

import (
	"github.com/Nagraj-13/SocialConnect/internal/models"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(post *models.Post) error
	GetPostByID(id uint) (*models.Post, error)
	GetActivePostByID(id uint) (*models.Post, error)
	ListActivePosts(offset, limit int) ([]models.Post, error)
	ListPostsByAuthor(authorID uint) ([]models.Post, error)
	SoftDeletePost(id, authorID uint) error
	HardDeletePost(id uint) error
	LikedPostIDs(userID uint, postIDs []uint) (map[uint]bool, error)
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

// CreatePost creates a new post and loads its author relation
func (r *PostgresPostRepository) CreatePost(post *models.Post) error {
	if err := r.db.Create(post).Error; err != nil {
		return err
	}
	return r.db.First(&post.Author, post.AuthorID).Error
}

// GetPostByID retrieves a post regardless of its active flag (admin paths)
func (r *PostgresPostRepository) GetPostByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// GetActivePostByID retrieves a non-deleted post
func (r *PostgresPostRepository) GetActivePostByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.Where("id = ? AND is_active = true", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// ListActivePosts returns a page of active posts, newest first, authors
// preloaded. Callers over-fetch by one row to compute hasMore.
func (r *PostgresPostRepository) ListActivePosts(offset, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Preload("Author").
		Where("is_active = true").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error
	return posts, err
}

// ListPostsByAuthor returns all of one user's posts, active or not (admin)
func (r *PostgresPostRepository) ListPostsByAuthor(authorID uint) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Where("author_id = ?", authorID).Order("created_at DESC").Find(&posts).Error
	return posts, err
}

// SoftDeletePost flips is_active for a post owned by authorID. Returns
// gorm.ErrRecordNotFound when the post is absent or owned by someone else.
func (r *PostgresPostRepository) SoftDeletePost(id, authorID uint) error {
	res := r.db.Model(&models.Post{}).
		Where("id = ? AND author_id = ? AND is_active = true", id, authorID).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// HardDeletePost removes a post row entirely (admin only)
func (r *PostgresPostRepository) HardDeletePost(id uint) error {
	res := r.db.Delete(&models.Post{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// LikedPostIDs reports which of the given posts the user has liked
func (r *PostgresPostRepository) LikedPostIDs(userID uint, postIDs []uint) (map[uint]bool, error) {
	liked := make(map[uint]bool, len(postIDs))
	if len(postIDs) == 0 {
		return liked, nil
	}
	var ids []uint
	err := r.db.Model(&models.Like{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}
