package events

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
)

const busBufferSize = 16

// Bus is an in-process Notifier. It fans each published change out to every
// subscription registered for that user. Used for tests and single-process
// deployments; multi-session deployments use the Redis notifier instead.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string][]*busSubscription
	closed bool
}

// NewBus creates a new in-process change bus
func NewBus() *Bus {
	return &Bus{
		subs: make(map[string][]*busSubscription),
	}
}

// Publish delivers a change to all subscriptions for the change's user.
// Delivery is non-blocking: when a subscriber's buffer is full the change is
// dropped, which is safe because subscribers re-read the full state on every
// notification and a queued notification processed later observes this
// mutation too.
func (b *Bus) Publish(_ context.Context, change BetRecordChange) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return fmt.Errorf("publish on closed bus: %w", ErrSubscriptionClosed)
	}

	for _, sub := range b.subs[change.UserID] {
		select {
		case sub.ch <- change:
		default:
			log.WithFields(log.Fields{
				"userId":   change.UserID,
				"recordId": change.RecordID,
				"kind":     change.Kind,
			}).Warn("Subscriber buffer full, dropping change notification")
		}
	}

	log.WithFields(log.Fields{
		"userId":          change.UserID,
		"kind":            change.Kind,
		"subscriberCount": len(b.subs[change.UserID]),
	}).Debug("Published bet record change to local bus")

	return nil
}

// Subscribe registers a new subscription for the given user's changes
func (b *Bus) Subscribe(_ context.Context, userID string) (Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, fmt.Errorf("subscribe on closed bus: %w", ErrSubscriptionClosed)
	}

	sub := &busSubscription{
		bus:    b,
		userID: userID,
		ch:     make(chan BetRecordChange, busBufferSize),
	}
	b.subs[userID] = append(b.subs[userID], sub)

	log.WithFields(log.Fields{
		"userId":          userID,
		"subscriberCount": len(b.subs[userID]),
	}).Debug("Subscribed to bet record changes on local bus")

	return sub, nil
}

// Close terminates the bus and every live subscription abnormally
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for _, subs := range b.subs {
		for _, sub := range subs {
			sub.terminate(ErrSubscriptionClosed)
		}
	}
	b.subs = make(map[string][]*busSubscription)
}

type busSubscription struct {
	bus    *Bus
	userID string
	ch     chan BetRecordChange

	mu     sync.Mutex
	err    error
	closed bool
}

func (s *busSubscription) Changes() <-chan BetRecordChange {
	return s.ch
}

func (s *busSubscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *busSubscription) Close() error {
	s.bus.mu.Lock()
	subs := s.bus.subs[s.userID]
	for i, sub := range subs {
		if sub == s {
			s.bus.subs[s.userID] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	s.bus.mu.Unlock()

	s.terminate(nil)
	return nil
}

func (s *busSubscription) terminate(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.err = err
	close(s.ch)
}
