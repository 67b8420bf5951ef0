package notifications

import (
	"context"

	"github.com/Nagraj-13/SocialConnect/internal/changefeed"
	"github.com/Nagraj-13/SocialConnect/internal/models"
	"github.com/Nagraj-13/SocialConnect/internal/repositories"
	"github.com/rs/zerolog"
)

// Event describes a domain action that may produce notifications.
type Event struct {
	Type        string // models.NotificationFollow / Like / Comment / Post
	ActorID     uint
	RecipientID uint  // followed user or post author; unused for POST
	PostID      *uint // nil for FOLLOW
}

// Writer decides recipients for domain events, dedupes self-notifications,
// persists notification rows and publishes the matching change-feed events.
//
// Every method is best-effort: a failed notification write is logged and
// swallowed, never surfaced to the primary action (a like must succeed even
// if its notification insert fails).
type Writer struct {
	notificationRepo repositories.NotificationRepository
	followRepo       repositories.FollowRepository
	feed             changefeed.ChangeFeed
	logger           zerolog.Logger
}

// NewWriter creates a notification Writer.
func NewWriter(
	notificationRepo repositories.NotificationRepository,
	followRepo repositories.FollowRepository,
	feed changefeed.ChangeFeed,
	logger zerolog.Logger,
) *Writer {
	return &Writer{
		notificationRepo: notificationRepo,
		followRepo:       followRepo,
		feed:             feed,
		logger:           logger,
	}
}

// Notify records a single-recipient notification (FOLLOW, LIKE, COMMENT).
// Self-actions are suppressed: no row is ever written with sender ==
// recipient.
func (w *Writer) Notify(ctx context.Context, event Event) {
	if event.ActorID == event.RecipientID {
		return
	}

	notification := models.Notification{
		Type:        event.Type,
		RecipientID: event.RecipientID,
		SenderID:    event.ActorID,
		Message:     models.NotificationMessage(event.Type),
		PostID:      event.PostID,
	}

	if err := w.notificationRepo.CreateNotification(&notification); err != nil {
		w.logger.Error().Err(err).
			Str("type", event.Type).
			Uint("actor_id", event.ActorID).
			Uint("recipient_id", event.RecipientID).
			Msg("failed to create notification")
		return
	}

	w.publish(ctx, notification.RecipientID, changefeed.NewInsertEvent(&notification))
}

// FanOutPost creates one POST notification per follower of the author in a
// single bulk insert. Zero followers is a no-op, not an error. The author is
// structurally excluded: a user cannot follow themselves.
func (w *Writer) FanOutPost(ctx context.Context, authorID, postID uint) {
	followerIDs, err := w.followRepo.GetFollowerIDs(authorID)
	if err != nil {
		w.logger.Error().Err(err).
			Uint("author_id", authorID).
			Uint("post_id", postID).
			Msg("failed to load followers for post fan-out")
		return
	}
	if len(followerIDs) == 0 {
		return
	}

	rows := make([]models.Notification, 0, len(followerIDs))
	for _, followerID := range followerIDs {
		if followerID == authorID {
			continue
		}
		rows = append(rows, models.Notification{
			Type:        models.NotificationPost,
			RecipientID: followerID,
			SenderID:    authorID,
			Message:     models.NotificationMessage(models.NotificationPost),
			PostID:      &postID,
		})
	}

	if err := w.notificationRepo.CreateNotifications(rows); err != nil {
		w.logger.Error().Err(err).
			Uint("author_id", authorID).
			Uint("post_id", postID).
			Int("followers", len(rows)).
			Msg("failed to fan out post notifications")
		return
	}

	for i := range rows {
		w.publish(ctx, rows[i].RecipientID, changefeed.NewInsertEvent(&rows[i]))
	}
}

// NotifyRead publishes the change-feed update for a single mark-as-read
// flip. Callers invoke it only when the row actually flipped.
func (w *Writer) NotifyRead(ctx context.Context, notification *models.Notification) {
	read := *notification
	read.IsRead = true
	w.publish(ctx, read.RecipientID, changefeed.NewReadEvent(&read))
}

// NotifyReadAll publishes the bulk mark-all-read signal for a recipient.
func (w *Writer) NotifyReadAll(ctx context.Context, recipientID uint) {
	w.publish(ctx, recipientID, changefeed.NewReadAllEvent())
}

func (w *Writer) publish(ctx context.Context, recipientID uint, event changefeed.Event) {
	if err := w.feed.Publish(ctx, recipientID, event); err != nil {
		w.logger.Warn().Err(err).
			Uint("recipient_id", recipientID).
			Str("op", event.Op).
			Msg("failed to publish feed event")
	}
}
