package bandwidth

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/soyeahso/textline/internal/domain"
)

// listPageSize is the provider-side cap on a single message listing; the
// relay does not paginate further.
const listPageSize = "1000"

// ListMessages returns messages sent from one number to another since the
// given time, in provider order. One page only.
func (c *Client) ListMessages(ctx context.Context, from, to string, since time.Time) ([]domain.Message, error) {
	q := url.Values{}
	q.Set("size", listPageSize)
	q.Set("from", from)
	q.Set("to", to)
	q.Set("fromDateTime", formatDateTime(since))

	var messages []domain.Message
	if _, err := c.doJSON(ctx, http.MethodGet, c.userURL("/messages?"+q.Encode()), nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// SendMessage sends one message and returns the provider-assigned id.
// Single attempt; provider errors surface to the caller as-is.
func (c *Client) SendMessage(ctx context.Context, from, to, text string, media []string) (string, error) {
	body := map[string]any{
		"from": from,
		"to":   to,
		"text": text,
	}
	if len(media) > 0 {
		body["media"] = media
	}

	resp, err := c.doJSON(ctx, http.MethodPost, c.userURL("/messages"), body, nil)
	if err != nil {
		return "", err
	}
	return idFromLocation(resp)
}

// formatDateTime renders a time the way the provider's fromDateTime filter
// expects: ISO-8601 with the T and Z stripped.
func formatDateTime(t time.Time) string {
	s := t.UTC().Format(time.RFC3339)
	s = strings.Replace(s, "T", " ", 1)
	return strings.TrimSuffix(s, "Z")
}
