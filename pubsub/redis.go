package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"betslip/events"
)

// channelPrefix scopes one Redis Pub/Sub channel per user, so a session only
// ever receives notifications for its own identity.
const channelPrefix = "betslip:changes:"

// Connect opens and verifies a Redis client connection
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return rdb, nil
}

// RedisNotifier implements events.Notifier over Redis Pub/Sub, so bet slip
// mutations made in one session become visible to every other live session
// of the same user.
type RedisNotifier struct {
	rdb *redis.Client
}

// NewRedisNotifier creates a Redis-backed change notifier
func NewRedisNotifier(rdb *redis.Client) *RedisNotifier {
	return &RedisNotifier{rdb: rdb}
}

// Publish broadcasts a bet record change to the owning user's channel
func (n *RedisNotifier) Publish(ctx context.Context, change events.BetRecordChange) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("failed to marshal change notification: %w", err)
	}

	if err := n.rdb.Publish(ctx, channelPrefix+change.UserID, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish change notification: %w", err)
	}

	return nil
}

// Subscribe opens a change subscription for one user's scope
func (n *RedisNotifier) Subscribe(ctx context.Context, userID string) (events.Subscription, error) {
	pubsub := n.rdb.Subscribe(ctx, channelPrefix+userID)

	// Force the SUBSCRIBE round trip so a broken connection fails here
	// instead of surfacing later as a silent dead feed.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to changes for user %s: %w", userID, err)
	}

	sub := &redisSubscription{
		pubsub: pubsub,
		userID: userID,
		ch:     make(chan events.BetRecordChange, 16),
	}
	go sub.run()

	// Treat cancellation of the subscribing context as a clean teardown
	go func() {
		<-ctx.Done()
		_ = sub.Close()
	}()

	return sub, nil
}

type redisSubscription struct {
	pubsub *redis.PubSub
	userID string
	ch     chan events.BetRecordChange

	mu       sync.Mutex
	err      error
	stopping bool
}

// run is the only goroutine that writes to or closes s.ch. Closing the
// underlying PubSub (via Close) ends the message channel and lets run exit.
func (s *redisSubscription) run() {
	defer close(s.ch)

	for msg := range s.pubsub.Channel() {
		var change events.BetRecordChange
		if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
			log.WithFields(log.Fields{
				"userId": s.userID,
				"error":  err,
			}).Warn("Dropping malformed change notification")
			continue
		}

		select {
		case s.ch <- change:
		default:
			// Subscribers re-read full state per notification; a queued
			// notification processed later observes this change too.
			log.WithField("userId", s.userID).Warn("Change buffer full, dropping notification")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopping {
		s.err = fmt.Errorf("redis feed for user %s ended: %w", s.userID, events.ErrSubscriptionClosed)
	}
}

func (s *redisSubscription) Changes() <-chan events.BetRecordChange {
	return s.ch
}

func (s *redisSubscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *redisSubscription) Close() error {
	s.mu.Lock()
	s.stopping = true
	s.mu.Unlock()

	return s.pubsub.Close()
}
