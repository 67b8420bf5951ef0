package changefeed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// subscriberBuffer bounds per-subscriber queues. A full buffer drops the
// event rather than blocking the publisher; the authoritative count re-sync
// on reconnect covers the loss.
const subscriberBuffer = 64

// RedisFeed implements ChangeFeed over Redis pub/sub, one channel per
// recipient. It works across processes, so any instance of the server can
// publish for clients connected elsewhere.
type RedisFeed struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewRedisFeed connects to Redis and verifies the connection.
func NewRedisFeed(ctx context.Context, addr, password string, db int, logger zerolog.Logger) (*RedisFeed, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisFeed{client: client, logger: logger}, nil
}

// Publish sends the event on the recipient's channel.
func (f *RedisFeed) Publish(ctx context.Context, recipientID uint, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal feed event: %w", err)
	}
	return f.client.Publish(ctx, RecipientChannel(recipientID), data).Err()
}

// Subscribe opens a per-recipient subscription. The returned cancel func
// closes the underlying Redis subscription; the event channel is closed when
// the pump goroutine exits.
func (f *RedisFeed) Subscribe(ctx context.Context, recipientID uint) (<-chan Event, func(), error) {
	pubsub := f.client.Subscribe(ctx, RecipientChannel(recipientID))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, fmt.Errorf("failed to subscribe recipient %d: %w", recipientID, err)
	}

	events := make(chan Event, subscriberBuffer)
	go f.pump(ctx, recipientID, pubsub, events)

	cancel := func() {
		if err := pubsub.Close(); err != nil {
			f.logger.Warn().Err(err).Uint("recipient_id", recipientID).
				Msg("failed to close feed subscription")
		}
	}
	return events, cancel, nil
}

func (f *RedisFeed) pump(ctx context.Context, recipientID uint, pubsub *redis.PubSub, events chan<- Event) {
	defer close(events)
	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				f.logger.Warn().Err(err).Uint("recipient_id", recipientID).
					Msg("dropping malformed feed event")
				continue
			}
			select {
			case events <- event:
			case <-ctx.Done():
				return
			default:
				// subscriber buffer full, drop
			}
		}
	}
}

// Close shuts down the Redis client.
func (f *RedisFeed) Close() error {
	return f.client.Close()
}
