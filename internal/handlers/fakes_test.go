package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/Nagraj-13/SocialConnect/internal/changefeed"
	"github.com/Nagraj-13/SocialConnect/internal/middleware"
	"github.com/Nagraj-13/SocialConnect/internal/models"
	"github.com/Nagraj-13/SocialConnect/internal/notifications"
	"github.com/Nagraj-13/SocialConnect/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// newTestContext builds an Echo context carrying an authenticated user the
// way the auth middleware would.
func newTestContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, user *models.User) echo.Context {
	c := e.NewContext(req, rec)
	if user != nil {
		c.Set(middleware.ContextUserKey, user)
		c.Set(middleware.ContextUserIDKey, user.ID)
	}
	return c
}

type fakeUserRepo struct {
	users map[uint]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[uint]*models.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (f *fakeUserRepo) CreateUser(user *models.User) error {
	user.ID = uint(len(f.users) + 1)
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetUserByID(id uint) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetActiveUserByID(id uint) (*models.User, error) {
	user, ok := f.users[id]
	if !ok || !user.IsActive {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetUserByEmail(email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetUserByFirebaseUID(uid string) (*models.User, error) {
	for _, u := range f.users {
		if u.FirebaseUID != nil && *u.FirebaseUID == uid {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) UpdateUser(user *models.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) DeleteUser(id uint) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) ListUsers(uint, string, int, int) ([]models.User, error) { return nil, nil }
func (f *fakeUserRepo) DiscoverUsers(uint, int) ([]repositories.UserWithCounts, error) {
	return nil, nil
}
func (f *fakeUserRepo) AdminListUsers() ([]repositories.UserWithCounts, error) { return nil, nil }

type fakePostRepo struct {
	posts    []models.Post
	likedIDs map[uint]bool
}

func (f *fakePostRepo) CreatePost(post *models.Post) error {
	post.ID = uint(len(f.posts) + 1)
	f.posts = append(f.posts, *post)
	return nil
}

func (f *fakePostRepo) GetPostByID(id uint) (*models.Post, error) {
	for i := range f.posts {
		if f.posts[i].ID == id {
			return &f.posts[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePostRepo) GetActivePostByID(id uint) (*models.Post, error) {
	post, err := f.GetPostByID(id)
	if err != nil || !post.IsActive {
		return nil, gorm.ErrRecordNotFound
	}
	return post, nil
}

func (f *fakePostRepo) ListActivePosts(offset, limit int) ([]models.Post, error) {
	active := make([]models.Post, 0, len(f.posts))
	for _, p := range f.posts {
		if p.IsActive {
			active = append(active, p)
		}
	}
	if offset >= len(active) {
		return nil, nil
	}
	end := offset + limit
	if end > len(active) {
		end = len(active)
	}
	return active[offset:end], nil
}

func (f *fakePostRepo) ListPostsByAuthor(authorID uint) ([]models.Post, error) {
	var out []models.Post
	for _, p := range f.posts {
		if p.AuthorID == authorID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePostRepo) SoftDeletePost(id, authorID uint) error {
	for i := range f.posts {
		if f.posts[i].ID == id && f.posts[i].AuthorID == authorID && f.posts[i].IsActive {
			f.posts[i].IsActive = false
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakePostRepo) HardDeletePost(id uint) error {
	for i := range f.posts {
		if f.posts[i].ID == id {
			f.posts = append(f.posts[:i], f.posts[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakePostRepo) LikedPostIDs(userID uint, postIDs []uint) (map[uint]bool, error) {
	out := make(map[uint]bool)
	for _, id := range postIDs {
		if f.likedIDs[id] {
			out[id] = true
		}
	}
	return out, nil
}

type fakeLikeRepo struct {
	liked     bool
	likeCount int
	err       error

	toggledUserID uint
	toggledPostID uint
}

func (f *fakeLikeRepo) ToggleLike(userID, postID uint) (bool, int, error) {
	f.toggledUserID = userID
	f.toggledPostID = postID
	return f.liked, f.likeCount, f.err
}

func (f *fakeLikeRepo) HasUserLikedPost(uint, uint) (bool, error) { return f.liked, nil }
func (f *fakeLikeRepo) CountByPostID(uint) (int64, error)         { return int64(f.likeCount), nil }

type fakeCommentRepo struct {
	comments []models.Comment
	err      error
}

func (f *fakeCommentRepo) CreateComment(comment *models.Comment) error {
	if f.err != nil {
		return f.err
	}
	comment.ID = uint(len(f.comments) + 1)
	comment.Author = models.User{ID: comment.AuthorID, Username: "commenter"}
	f.comments = append(f.comments, *comment)
	return nil
}

func (f *fakeCommentRepo) GetCommentByID(id uint) (*models.Comment, error) {
	for i := range f.comments {
		if f.comments[i].ID == id {
			return &f.comments[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCommentRepo) ListActiveByPostID(postID uint) ([]models.Comment, error) {
	var active []models.Comment
	for _, comment := range f.comments {
		if comment.PostID == postID && comment.IsActive {
			active = append(active, comment)
		}
	}
	return active, nil
}

func (f *fakeCommentRepo) SoftDeleteComment(id, authorID uint) error {
	for i := range f.comments {
		if f.comments[i].ID == id && f.comments[i].AuthorID == authorID && f.comments[i].IsActive {
			f.comments[i].IsActive = false
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeCommentRepo) CountActiveByPostID(postID uint) (int64, error) {
	active, _ := f.ListActiveByPostID(postID)
	return int64(len(active)), nil
}

type followEdge struct {
	followerID  uint
	followingID uint
}

type fakeFollowRepo struct {
	edges       []followEdge
	followerIDs []uint
}

func (f *fakeFollowRepo) CreateFollow(follow *models.Follow) error {
	f.edges = append(f.edges, followEdge{followerID: follow.FollowerID, followingID: follow.FollowingID})
	return nil
}

func (f *fakeFollowRepo) DeleteFollow(followerID, followingID uint) error {
	for i, e := range f.edges {
		if e.followerID == followerID && e.followingID == followingID {
			f.edges = append(f.edges[:i], f.edges[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFollowing
}

func (f *fakeFollowRepo) IsFollowing(followerID, followingID uint) (bool, error) {
	for _, e := range f.edges {
		if e.followerID == followerID && e.followingID == followingID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFollowRepo) GetFollowerIDs(uint) ([]uint, error)  { return f.followerIDs, nil }
func (f *fakeFollowRepo) GetFollowingIDs(uint) ([]uint, error) { return nil, nil }
func (f *fakeFollowRepo) GetFollowersCount(uint) (int64, error) {
	return int64(len(f.followerIDs)), nil
}

type fakeNotificationRepo struct {
	rows   []models.Notification
	nextID uint
}

func (f *fakeNotificationRepo) CreateNotification(n *models.Notification) error {
	f.nextID++
	n.ID = f.nextID
	f.rows = append(f.rows, *n)
	return nil
}

func (f *fakeNotificationRepo) CreateNotifications(rows []models.Notification) error {
	for i := range rows {
		f.nextID++
		rows[i].ID = f.nextID
		f.rows = append(f.rows, rows[i])
	}
	return nil
}

func (f *fakeNotificationRepo) ListByRecipient(recipientID uint, limit int) ([]models.Notification, error) {
	var out []models.Notification
	for i := len(f.rows) - 1; i >= 0 && len(out) < limit; i-- {
		if f.rows[i].RecipientID == recipientID {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) GetUnreadCount(recipientID uint) (int64, error) {
	var count int64
	for _, n := range f.rows {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) MarkAsRead(notificationID, recipientID uint) (*models.Notification, error) {
	for i := range f.rows {
		if f.rows[i].ID == notificationID && f.rows[i].RecipientID == recipientID {
			before := f.rows[i]
			f.rows[i].IsRead = true
			return &before, nil
		}
	}
	return nil, repositories.ErrNotificationNotFound
}

func (f *fakeNotificationRepo) MarkAllAsRead(recipientID uint) (int64, error) {
	var flipped int64
	for i := range f.rows {
		if f.rows[i].RecipientID == recipientID && !f.rows[i].IsRead {
			f.rows[i].IsRead = true
			flipped++
		}
	}
	return flipped, nil
}

type publishedEvent struct {
	recipientID uint
	event       changefeed.Event
}

type fakeFeed struct {
	published []publishedEvent
}

func (f *fakeFeed) Publish(_ context.Context, recipientID uint, event changefeed.Event) error {
	f.published = append(f.published, publishedEvent{recipientID: recipientID, event: event})
	return nil
}

func (f *fakeFeed) Subscribe(context.Context, uint) (<-chan changefeed.Event, func(), error) {
	return nil, func() {}, nil
}

func (f *fakeFeed) Close() error { return nil }

// newTestWriter wires a notification writer against the test fakes.
func newTestWriter(notifRepo *fakeNotificationRepo, followRepo *fakeFollowRepo, feed *fakeFeed) *notifications.Writer {
	return notifications.NewWriter(notifRepo, followRepo, feed, zerolog.Nop())
}
