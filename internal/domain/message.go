package domain

import "strings"

// Direction indicates which way a message travelled relative to the provider.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// Message is one SMS/MMS message in a conversation. Time is the provider's
// sortable timestamp (ISO-8601); it is compared lexically when merging
// history, matching the provider's own ordering.
type Message struct {
	ID                  string    `json:"id"`
	From                string    `json:"from"`
	To                  string    `json:"to"`
	Text                string    `json:"text,omitempty"`
	Media               []string  `json:"media"`
	Direction           Direction `json:"direction,omitempty"`
	Time                string    `json:"time,omitempty"`
	State               string    `json:"state,omitempty"`
	DeliveryState       string    `json:"deliveryState,omitempty"`
	DeliveryCode        string    `json:"deliveryCode,omitempty"`
	DeliveryDescription string    `json:"deliveryDescription,omitempty"`
}

// LocalMediaURL rewrites a provider media URL to its local proxy form
// /media/<name>. Provider storage hosts and embedded credentials must never
// reach the browser.
func LocalMediaURL(providerURL string) string {
	parts := strings.Split(providerURL, "/")
	return "/media/" + parts[len(parts)-1]
}

// RewriteMedia replaces all media URLs on the message with their local
// proxy form. A nil slice becomes an empty one so clients always see an
// array.
func (m *Message) RewriteMedia() {
	rewritten := make([]string, len(m.Media))
	for i, u := range m.Media {
		rewritten[i] = LocalMediaURL(u)
	}
	m.Media = rewritten
}
