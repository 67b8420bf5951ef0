package changefeed

import (
	"context"
	"fmt"
	"time"

	"github.com/Nagraj-13/SocialConnect/internal/models"
)

// Operations carried by feed events.
const (
	OpInsert  = "insert"   // a notification row was created
	OpRead    = "read"     // one row flipped is_read false -> true
	OpReadAll = "read_all" // every unread row of the recipient was flipped
)

// Event is a row-change event for the notifications table, already filtered
// to a single recipient. The feed is a cache-invalidation signal layered on
// top of the store, not the source of truth: subscribers re-fetch the
// authoritative unread count on (re)connect.
type Event struct {
	Op           string               `json:"op"`
	Notification *models.Notification `json:"notification,omitempty"`
	Timestamp    time.Time            `json:"timestamp"`
}

// NewInsertEvent wraps a freshly created notification row.
func NewInsertEvent(n *models.Notification) Event {
	return Event{Op: OpInsert, Notification: n, Timestamp: time.Now()}
}

// NewReadEvent wraps a single false -> true is_read flip.
func NewReadEvent(n *models.Notification) Event {
	return Event{Op: OpRead, Notification: n, Timestamp: time.Now()}
}

// NewReadAllEvent signals a bulk mark-all-read for the recipient.
func NewReadAllEvent() Event {
	return Event{Op: OpReadAll, Timestamp: time.Now()}
}

// ChangeFeed is the port between the notification writer and connected
// clients: publish-by-recipient, subscribe-by-recipient. Implementations
// must never block a publisher on a slow subscriber, and must release the
// subscription when the returned cancel func runs or ctx is done.
type ChangeFeed interface {
	Publish(ctx context.Context, recipientID uint, event Event) error
	Subscribe(ctx context.Context, recipientID uint) (<-chan Event, func(), error)
	Close() error
}

// RecipientChannel returns the channel name carrying one recipient's events.
func RecipientChannel(recipientID uint) string {
	return fmt.Sprintf("notifications:user:%d", recipientID)
}
