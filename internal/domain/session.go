package domain

import "time"

// Credentials are per-tenant provider credentials. The zero value means
// "use the process-wide defaults from config".
type Credentials struct {
	UserID    string `json:"userId,omitempty"`
	APIToken  string `json:"apiToken,omitempty"`
	APISecret string `json:"apiSecret,omitempty"`
}

// IsZero reports whether no credential field is set.
func (c Credentials) IsZero() bool {
	return c.UserID == "" && c.APIToken == "" && c.APISecret == ""
}

// Session binds a browser to a phone-number pair and the provider
// identifiers provisioned for it. A session is immutable once created; a
// new login for the same token holder overwrites it wholesale.
type Session struct {
	Token              string      `json:"sessionId"`
	Credentials        Credentials `json:"credentials,omitempty"`
	PhoneNumber        string      `json:"phoneNumber"`
	ServicePhoneNumber string      `json:"servicePhoneNumber"`
	ApplicationID      string      `json:"applicationId"`
	AreaCode           string      `json:"areaCode,omitempty"`
	CreatedAt          time.Time   `json:"createdAt"`
}
