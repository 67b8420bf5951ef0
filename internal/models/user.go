package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User roles
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User represents an account. Rows are created on first sign-in (or local
// signup) and are never removed by normal flows; admin delete cascades.
type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Email       string    `json:"email" gorm:"uniqueIndex"`
	Username    string    `json:"username" gorm:"uniqueIndex;size:30"`
	FirstName   string    `json:"first_name" gorm:"size:50"`
	LastName    string    `json:"last_name" gorm:"size:50"`
	AvatarURL   string    `json:"avatar_url"`
	Bio         string    `json:"bio" gorm:"size:500"`
	Website     string    `json:"website"`
	Location    string    `json:"location" gorm:"size:100"`
	Role        string    `json:"role" gorm:"size:10;default:'USER'"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	IsVerified  bool      `json:"is_verified" gorm:"default:false"`
	Password    string    `json:"-"` // bcrypt hash, empty for Firebase-only accounts
	FirebaseUID *string   `json:"firebase_uid,omitempty" gorm:"uniqueIndex"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Posts         []Post         `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Comments      []Comment      `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Likes         []Like         `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Notifications []Notification `json:"-" gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE"`
}

// UserCompact is the embeddable author/sender summary used by feed and
// notification payloads.
type UserCompact struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	AvatarURL string `json:"avatar_url"`
}

// ToCompact converts a full user row to its compact summary form.
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		AvatarURL: u.AvatarURL,
	}
}

// IsAdmin reports whether the user holds the ADMIN role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// SignupRequest defines the request body for local registration
type SignupRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Username  string `json:"username" validate:"required,min=3,max=30"`
	FirstName string `json:"first_name" validate:"omitempty,max=50"`
	LastName  string `json:"last_name" validate:"omitempty,max=50"`
	Password  string `json:"password" validate:"required,min=8"`
}

// SigninRequest defines the request body for local authentication
type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// UpdateProfileRequest defines the request body for profile edits
type UpdateProfileRequest struct {
	Username  string `json:"username,omitempty" validate:"omitempty,min=3,max=30"`
	FirstName string `json:"first_name,omitempty" validate:"omitempty,max=50"`
	LastName  string `json:"last_name,omitempty" validate:"omitempty,max=50"`
	Bio       string `json:"bio,omitempty" validate:"omitempty,max=500"`
	Website   string `json:"website,omitempty" validate:"omitempty,url"`
	Location  string `json:"location,omitempty" validate:"omitempty,max=100"`
	AvatarURL string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

// AdminUpdateUserRequest defines the whitelisted fields an admin may change.
// Pointer fields distinguish "absent" from zero values.
type AdminUpdateUserRequest struct {
	Username   *string `json:"username,omitempty" validate:"omitempty,min=3,max=30"`
	FirstName  *string `json:"first_name,omitempty" validate:"omitempty,max=50"`
	LastName   *string `json:"last_name,omitempty" validate:"omitempty,max=50"`
	Bio        *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	Website    *string `json:"website,omitempty"`
	Location   *string `json:"location,omitempty" validate:"omitempty,max=100"`
	AvatarURL  *string `json:"avatar_url,omitempty"`
	Role       *string `json:"role,omitempty" validate:"omitempty,oneof=USER ADMIN"`
	IsActive   *bool   `json:"is_active,omitempty"`
	IsVerified *bool   `json:"is_verified,omitempty"`
}

// FollowRequest defines the request body for follow/unfollow
type FollowRequest struct {
	UserID uint `json:"user_id" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
