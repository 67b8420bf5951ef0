package repositories

import "errors"

// Sentinel errors surfaced by repositories so handlers can map them to the
// HTTP taxonomy without string matching.
var (
	ErrAlreadyLiked         = errors.New("post already liked by user")
	ErrNotFollowing         = errors.New("follow relationship not found")
	ErrNotificationNotFound = errors.New("notification not found")
)
