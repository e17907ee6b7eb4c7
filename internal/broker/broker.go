// Package broker provides topic-based publish/subscribe used to fan
// inbound provider events out to live connections.
package broker

import "context"

// Delivery is one published payload tagged with the topic it arrived on.
type Delivery struct {
	Topic   string
	Payload []byte
}

// Subscription is one subscriber's handle on a set of topics. Handles are
// never shared between connections: closing one must not affect another.
// Close is idempotent and releases the subscription immediately; after
// Close the delivery channel is closed.
type Subscription interface {
	// C delivers payloads in per-topic publish order. No ordering is
	// guaranteed across topics.
	C() <-chan Delivery
	Close()
}

// Broker publishes payloads to named topics and creates subscriptions.
// Publishing to a topic with no subscribers succeeds and drops the payload;
// live streaming is at-least-once, with history reconciliation covering
// missed events.
type Broker interface {
	Publish(ctx context.Context, topic string, payload []byte) error
	Subscribe(topics ...string) (Subscription, error)
}
