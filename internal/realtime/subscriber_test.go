package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Nagraj-13/SocialConnect/internal/changefeed"
	"github.com/Nagraj-13/SocialConnect/internal/models"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedCounter struct {
	count int64
	err   error
}

func (f *fixedCounter) GetUnreadCount(uint) (int64, error) { return f.count, f.err }

// dialSubscriber stands up a server that runs one Subscriber per connection
// and returns the client side of the socket.
func dialSubscriber(t *testing.T, userID uint, feed changefeed.ChangeFeed, counter UnreadCounter) *websocket.Conn {
	t.Helper()

	upgrader := websocket.Upgrader{}
	done := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		subscriber := NewSubscriber(userID, conn, feed, counter, zerolog.Nop())
		subscriber.Run(r.Context())
		close(done)
	}))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		client.Close()
		select {
		case <-done:
		case <-time.After(time.Second):
		}
	})
	return client
}

func readMessage(t *testing.T, client *websocket.Conn) Message {
	t.Helper()
	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	require.NoError(t, client.ReadJSON(&msg))
	return msg
}

func TestSubscriberSendsInitialUnreadCount(t *testing.T) {
	feed := changefeed.NewMemoryFeed()
	defer feed.Close()

	client := dialSubscriber(t, 1, feed, &fixedCounter{count: 3})

	msg := readMessage(t, client)
	assert.Equal(t, "unread_count", msg.Type)
	assert.Equal(t, int64(3), msg.UnreadCount)
}

func TestSubscriberIncrementsOnInsert(t *testing.T) {
	feed := changefeed.NewMemoryFeed()
	defer feed.Close()

	client := dialSubscriber(t, 1, feed, &fixedCounter{count: 0})
	readMessage(t, client) // initial count

	notification := &models.Notification{ID: 9, RecipientID: 1, SenderID: 2, Type: models.NotificationLike}
	require.NoError(t, feed.Publish(context.Background(), 1, changefeed.NewInsertEvent(notification)))

	msg := readMessage(t, client)
	assert.Equal(t, "notification", msg.Type)
	assert.Equal(t, int64(1), msg.UnreadCount)
	require.NotNil(t, msg.Notification)
	assert.Equal(t, uint(9), msg.Notification.ID)
}

func TestSubscriberDecrementsOnReadFlooredAtZero(t *testing.T) {
	feed := changefeed.NewMemoryFeed()
	defer feed.Close()

	client := dialSubscriber(t, 1, feed, &fixedCounter{count: 1})
	readMessage(t, client) // initial count of 1

	read := &models.Notification{ID: 9, RecipientID: 1, IsRead: true}
	require.NoError(t, feed.Publish(context.Background(), 1, changefeed.NewReadEvent(read)))
	msg := readMessage(t, client)
	assert.Equal(t, "unread_count", msg.Type)
	assert.Equal(t, int64(0), msg.UnreadCount)

	// A duplicate read flip never drives the counter negative
	require.NoError(t, feed.Publish(context.Background(), 1, changefeed.NewReadEvent(read)))
	msg = readMessage(t, client)
	assert.Equal(t, int64(0), msg.UnreadCount)
}

func TestSubscriberResetsOnReadAll(t *testing.T) {
	feed := changefeed.NewMemoryFeed()
	defer feed.Close()

	client := dialSubscriber(t, 1, feed, &fixedCounter{count: 5})
	readMessage(t, client) // initial count of 5

	require.NoError(t, feed.Publish(context.Background(), 1, changefeed.NewReadAllEvent()))

	msg := readMessage(t, client)
	assert.Equal(t, "unread_count", msg.Type)
	assert.Equal(t, int64(0), msg.UnreadCount)
}

func TestSubscriberSessionsConvergeIndependently(t *testing.T) {
	feed := changefeed.NewMemoryFeed()
	defer feed.Close()

	first := dialSubscriber(t, 1, feed, &fixedCounter{count: 2})
	second := dialSubscriber(t, 1, feed, &fixedCounter{count: 2})
	readMessage(t, first)
	readMessage(t, second)

	notification := &models.Notification{ID: 1, RecipientID: 1, SenderID: 2}
	require.NoError(t, feed.Publish(context.Background(), 1, changefeed.NewInsertEvent(notification)))

	assert.Equal(t, int64(3), readMessage(t, first).UnreadCount)
	assert.Equal(t, int64(3), readMessage(t, second).UnreadCount)
}
