package broker

import (
	"context"
	"errors"
	"sync"

	"github.com/soyeahso/textline/internal/logging"
)

// subscriptionBuffer bounds how many undelivered payloads a single slow
// subscriber may hold before further publishes to it are dropped.
const subscriptionBuffer = 64

// ErrClosed is returned when operating on a closed broker.
var ErrClosed = errors.New("broker closed")

// MemoryBroker is the in-process Broker. One instance is shared
// process-wide; each live connection gets its own Subscription.
type MemoryBroker struct {
	mu     sync.RWMutex
	topics map[string]map[*memorySubscription]struct{}
	closed bool
	log    *logging.Logger
}

// NewMemoryBroker creates an empty broker.
func NewMemoryBroker(log *logging.Logger) *MemoryBroker {
	return &MemoryBroker{
		topics: make(map[string]map[*memorySubscription]struct{}),
		log:    log.Sub("broker"),
	}
}

// Publish delivers the payload to every current subscriber of the topic.
// A subscriber whose buffer is full has this payload dropped rather than
// blocking the publisher.
func (b *MemoryBroker) Publish(ctx context.Context, topic string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrClosed
	}

	for sub := range b.topics[topic] {
		select {
		case sub.ch <- Delivery{Topic: topic, Payload: payload}:
		default:
			b.log.Warn().Str("topic", topic).Msg("subscriber buffer full, dropping event")
		}
	}
	return nil
}

// Subscribe creates a dedicated subscription covering the given topics.
func (b *MemoryBroker) Subscribe(topics ...string) (Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrClosed
	}

	sub := &memorySubscription{
		broker: b,
		topics: topics,
		ch:     make(chan Delivery, subscriptionBuffer),
	}
	for _, t := range topics {
		if b.topics[t] == nil {
			b.topics[t] = make(map[*memorySubscription]struct{})
		}
		b.topics[t][sub] = struct{}{}
	}
	return sub, nil
}

// SubscriberCount reports how many subscriptions cover the topic.
func (b *MemoryBroker) SubscriberCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.topics[topic])
}

// Close shuts the broker down and closes every open subscription.
func (b *MemoryBroker) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	var subs []*memorySubscription
	seen := make(map[*memorySubscription]struct{})
	for _, set := range b.topics {
		for sub := range set {
			if _, ok := seen[sub]; !ok {
				seen[sub] = struct{}{}
				subs = append(subs, sub)
			}
		}
	}
	b.topics = make(map[string]map[*memorySubscription]struct{})
	b.mu.Unlock()

	for _, sub := range subs {
		sub.closeOnce.Do(func() { close(sub.ch) })
	}
}

type memorySubscription struct {
	broker    *MemoryBroker
	topics    []string
	ch        chan Delivery
	closeOnce sync.Once
}

func (s *memorySubscription) C() <-chan Delivery { return s.ch }

// Close unsubscribes from all topics and closes the delivery channel.
// Safe to call more than once.
func (s *memorySubscription) Close() {
	s.closeOnce.Do(func() {
		b := s.broker
		b.mu.Lock()
		for _, t := range s.topics {
			if set, ok := b.topics[t]; ok {
				delete(set, s)
				if len(set) == 0 {
					delete(b.topics, t)
				}
			}
		}
		b.mu.Unlock()
		close(s.ch)
	})
}
