package realtime

import (
	"context"
	"time"

	"github.com/Nagraj-13/SocialConnect/internal/changefeed"
	"github.com/Nagraj-13/SocialConnect/internal/models"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// UnreadCounter is the authoritative unread-count source the subscriber
// re-syncs from on every (re)connect.
type UnreadCounter interface {
	GetUnreadCount(recipientID uint) (int64, error)
}

// Message is the wire format pushed to a connected client.
type Message struct {
	Type         string               `json:"type"` // "unread_count" | "notification"
	UnreadCount  int64                `json:"unread_count"`
	Notification *models.Notification `json:"notification,omitempty"`
}

// Subscriber is one client connection's view of the notification feed. It is
// session-scoped: two sessions of the same user each hold their own counter
// and converge independently via the authoritative re-sync.
type Subscriber struct {
	sessionID string
	userID    uint
	conn      *websocket.Conn
	feed      changefeed.ChangeFeed
	counter   UnreadCounter
	logger    zerolog.Logger

	unread int64
}

// NewSubscriber wraps an upgraded connection for one authenticated user.
func NewSubscriber(
	userID uint,
	conn *websocket.Conn,
	feed changefeed.ChangeFeed,
	counter UnreadCounter,
	logger zerolog.Logger,
) *Subscriber {
	sessionID := uuid.NewString()
	return &Subscriber{
		sessionID: sessionID,
		userID:    userID,
		conn:      conn,
		feed:      feed,
		counter:   counter,
		logger: logger.With().
			Str("session_id", sessionID).
			Uint("user_id", userID).
			Logger(),
	}
}

// Run serves the connection until the client disconnects or ctx is
// cancelled. It subscribes to the feed BEFORE reading the authoritative
// count so an event landing in between is not lost; the count read then
// overwrites whatever the gap produced.
func (s *Subscriber) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer s.conn.Close()

	events, unsubscribe, err := s.feed.Subscribe(ctx, s.userID)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to subscribe to notification feed")
		return
	}
	defer unsubscribe()

	count, err := s.counter.GetUnreadCount(s.userID)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load unread count")
		return
	}
	s.unread = count
	if err := s.write(Message{Type: "unread_count", UnreadCount: s.unread}); err != nil {
		return
	}

	go s.readPump(cancel)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	s.logger.Debug().Msg("notification subscriber connected")
	defer s.logger.Debug().Msg("notification subscriber disconnected")

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := s.apply(event); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// apply folds one feed event into the live counter and pushes the client
// update. Inserts raise the counter and carry the toast payload; read flips
// lower it, floored at zero; read_all resets it.
func (s *Subscriber) apply(event changefeed.Event) error {
	switch event.Op {
	case changefeed.OpInsert:
		s.unread++
		return s.write(Message{
			Type:         "notification",
			UnreadCount:  s.unread,
			Notification: event.Notification,
		})
	case changefeed.OpRead:
		if s.unread > 0 {
			s.unread--
		}
		return s.write(Message{Type: "unread_count", UnreadCount: s.unread})
	case changefeed.OpReadAll:
		s.unread = 0
		return s.write(Message{Type: "unread_count", UnreadCount: 0})
	default:
		s.logger.Warn().Str("op", event.Op).Msg("ignoring unknown feed op")
		return nil
	}
}

func (s *Subscriber) write(msg Message) error {
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(msg); err != nil {
		s.logger.Debug().Err(err).Msg("websocket write failed")
		return err
	}
	return nil
}

// readPump drains client frames to service pong handling and detect
// disconnects. Clients send nothing meaningful; the feed is one-way.
func (s *Subscriber) readPump(cancel context.CancelFunc) {
	defer cancel()
	s.conn.SetReadLimit(512)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}
