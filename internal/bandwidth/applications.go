package bandwidth

import (
	"context"
	"net/http"
)

type application struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	IncomingMessageURL string `json:"incomingMessageUrl"`
}

// EnsureApplication finds the provider application with the given name or
// creates one pointing its message callbacks at callbackURL. Idempotent;
// safe to call on every login.
func (c *Client) EnsureApplication(ctx context.Context, name, callbackURL string) (string, error) {
	var apps []application
	if _, err := c.doJSON(ctx, http.MethodGet, c.userURL("/applications?size=1000"), nil, &apps); err != nil {
		return "", err
	}
	for _, app := range apps {
		if app.Name == name {
			return app.ID, nil
		}
	}

	resp, err := c.doJSON(ctx, http.MethodPost, c.userURL("/applications"), map[string]string{
		"name":               name,
		"incomingMessageUrl": callbackURL,
		"incomingCallUrl":    "",
	}, nil)
	if err != nil {
		return "", err
	}

	id, err := idFromLocation(resp)
	if err != nil {
		return "", err
	}
	c.log.Debug().Str("applicationId", id).Msg("application created")
	return id, nil
}
