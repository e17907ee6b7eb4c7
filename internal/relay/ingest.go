package relay

import (
	"context"
	"encoding/json"

	"github.com/soyeahso/textline/internal/domain"
)

// Event is the provider's callback payload. Only sms/mms events carry a
// message; everything else is acknowledged and dropped.
type Event struct {
	EventType           string   `json:"eventType"`
	Direction           string   `json:"direction,omitempty"`
	From                string   `json:"from"`
	To                  string   `json:"to"`
	MessageID           string   `json:"messageId"`
	Text                string   `json:"text,omitempty"`
	Media               []string `json:"media,omitempty"`
	ApplicationID       string   `json:"applicationId"`
	Time                string   `json:"time,omitempty"`
	State               string   `json:"state,omitempty"`
	DeliveryState       string   `json:"deliveryState,omitempty"`
	DeliveryCode        string   `json:"deliveryCode,omitempty"`
	DeliveryDescription string   `json:"deliveryDescription,omitempty"`
}

// IsMessage reports whether the event carries an SMS/MMS message.
func (e Event) IsMessage() bool {
	return e.EventType == "sms" || e.EventType == "mms"
}

// Message normalizes the event into the canonical message shape: the
// provider message id becomes the message id and media URLs are rewritten
// to local proxy form.
func (e Event) Message() domain.Message {
	msg := domain.Message{
		ID:                  e.MessageID,
		From:                e.From,
		To:                  e.To,
		Text:                e.Text,
		Media:               e.Media,
		Direction:           domain.Direction(e.Direction),
		Time:                e.Time,
		State:               e.State,
		DeliveryState:       e.DeliveryState,
		DeliveryCode:        e.DeliveryCode,
		DeliveryDescription: e.DeliveryDescription,
	}
	msg.RewriteMedia()
	return msg
}

// Ingest publishes an sms/mms event onto its conversation topic. Events of
// any other type are dropped without error. Delivery is fire-and-forget:
// publishing with zero subscribers succeeds, and missed events are
// recovered later through History.
func (r *Relay) Ingest(ctx context.Context, userID string, ev Event) (bool, error) {
	if !ev.IsMessage() {
		return false, nil
	}

	payload, err := json.Marshal(ev.Message())
	if err != nil {
		return false, err
	}

	topic := TopicFor(userID, ev.ApplicationID, ev.From, ev.To)
	if err := r.bus.Publish(ctx, topic, payload); err != nil {
		return false, err
	}
	r.log.Debug().Str("topic", topic).Str("messageId", ev.MessageID).Msg("event published")
	return true, nil
}
