package repositories

import (
	"github.com/Nagraj-13/SocialConnect/internal/models"
	"gorm.io/gorm"
)

// UserWithCounts bundles a user row with its aggregate counts for the
// discover and admin listings.
type UserWithCounts struct {
	models.User
	PostCount      int64 `json:"post_count"`
	FollowerCount  int64 `json:"follower_count"`
	FollowingCount int64 `json:"following_count"`
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByID(id uint) (*models.User, error)
	GetActiveUserByID(id uint) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByFirebaseUID(firebaseUID string) (*models.User, error)
	UpdateUser(user *models.User) error
	DeleteUser(id uint) error
	ListUsers(excludeID uint, query string, offset, limit int) ([]models.User, error)
	DiscoverUsers(excludeID uint, limit int) ([]UserWithCounts, error)
	AdminListUsers() ([]UserWithCounts, error)
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser creates a new user in PostgreSQL
func (r *PostgresUserRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

// GetUserByID retrieves a user by ID
func (r *PostgresUserRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetActiveUserByID retrieves a user by ID, excluding deactivated accounts
func (r *PostgresUserRepository) GetActiveUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.Where("id = ? AND is_active = true", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email
func (r *PostgresUserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByFirebaseUID retrieves a user by Firebase UID
func (r *PostgresUserRepository) GetUserByFirebaseUID(firebaseUID string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("firebase_uid = ?", firebaseUID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser updates an existing user
func (r *PostgresUserRepository) UpdateUser(user *models.User) error {
	return r.db.Save(user).Error
}

// DeleteUser removes a user row. Dependent rows cascade via the FK
// constraints declared on the model.
func (r *PostgresUserRepository) DeleteUser(id uint) error {
	return r.db.Delete(&models.User{}, id).Error
}

// ListUsers returns a page of active users excluding the caller, optionally
// filtered by a case-insensitive username/name search. Callers over-fetch by
// one row to compute hasMore.
func (r *PostgresUserRepository) ListUsers(excludeID uint, query string, offset, limit int) ([]models.User, error) {
	q := r.db.Where("is_active = true")
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if query != "" {
		pattern := "%" + query + "%"
		q = q.Where("username ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?", pattern, pattern, pattern)
	}

	var users []models.User
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&users).Error
	return users, err
}

// DiscoverUsers returns active users for the discovery screen, verified
// accounts first, then newest first. The caller is excluded.
func (r *PostgresUserRepository) DiscoverUsers(excludeID uint, limit int) ([]UserWithCounts, error) {
	var users []models.User
	err := r.db.Where("is_active = true AND id <> ?", excludeID).
		Order("is_verified DESC, created_at DESC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return r.attachCounts(users)
}

// AdminListUsers returns every user (active or not) with aggregate counts,
// newest first.
func (r *PostgresUserRepository) AdminListUsers() ([]UserWithCounts, error) {
	var users []models.User
	if err := r.db.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return r.attachCounts(users)
}

type countRow struct {
	ID    uint
	Count int64
}

// attachCounts decorates user rows with post/follower/following counts using
// one grouped query per aggregate.
func (r *PostgresUserRepository) attachCounts(users []models.User) ([]UserWithCounts, error) {
	result := make([]UserWithCounts, len(users))
	if len(users) == 0 {
		return result, nil
	}

	ids := make([]uint, len(users))
	for i, u := range users {
		result[i] = UserWithCounts{User: u}
		ids[i] = u.ID
	}

	grouped := func(model interface{}, idColumn, where string) (map[uint]int64, error) {
		var rows []countRow
		err := r.db.Model(model).
			Select(idColumn+" AS id, COUNT(*) AS count").
			Where(idColumn+" IN ?", ids).
			Where(where).
			Group(idColumn).
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		m := make(map[uint]int64, len(rows))
		for _, row := range rows {
			m[row.ID] = row.Count
		}
		return m, nil
	}

	posts, err := grouped(&models.Post{}, "author_id", "is_active = true")
	if err != nil {
		return nil, err
	}
	followers, err := grouped(&models.Follow{}, "following_id", "TRUE")
	if err != nil {
		return nil, err
	}
	following, err := grouped(&models.Follow{}, "follower_id", "TRUE")
	if err != nil {
		return nil, err
	}

	for i := range result {
		id := result[i].User.ID
		result[i].PostCount = posts[id]
		result[i].FollowerCount = followers[id]
		result[i].FollowingCount = following[id]
	}
	return result, nil
}
