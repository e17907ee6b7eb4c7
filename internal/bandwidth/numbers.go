package bandwidth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

type phoneNumber struct {
	ID            string `json:"id"`
	Number        string `json:"number"`
	ApplicationID string `json:"applicationId"`
}

type availableNumber struct {
	Number string `json:"number"`
}

// EnsureServiceNumber returns the service phone number attached to the
// application, ordering a new one in the given area code if none exists.
// Idempotent per application.
func (c *Client) EnsureServiceNumber(ctx context.Context, applicationID, areaCode string) (string, error) {
	listURL := c.userURL("/phoneNumbers?size=1000&applicationId=" + url.QueryEscape(applicationID))
	var numbers []phoneNumber
	if _, err := c.doJSON(ctx, http.MethodGet, listURL, nil, &numbers); err != nil {
		return "", err
	}
	for _, n := range numbers {
		if n.ApplicationID == applicationID {
			return n.Number, nil
		}
	}

	searchURL := fmt.Sprintf("%s/availableNumbers/local?areaCode=%s&quantity=1",
		c.baseURL, url.QueryEscape(areaCode))
	var available []availableNumber
	if _, err := c.doJSON(ctx, http.MethodGet, searchURL, nil, &available); err != nil {
		return "", err
	}
	if len(available) == 0 {
		return "", &APIError{Status: http.StatusBadRequest, Body: "no numbers available in area code " + areaCode}
	}

	_, err := c.doJSON(ctx, http.MethodPost, c.userURL("/phoneNumbers"), map[string]string{
		"number":        available[0].Number,
		"applicationId": applicationID,
		"name":          "Service number",
	}, nil)
	if err != nil {
		return "", err
	}

	c.log.Debug().Str("number", available[0].Number).Msg("service number ordered")
	return available[0].Number, nil
}
