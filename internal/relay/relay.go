// Package relay orchestrates the session-scoped message flow: login
// provisioning, history reconciliation, sends, and the live event stream
// between the telephony provider and connected browsers.
package relay

import (
	"context"
	"io"
	"path"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/soyeahso/textline/internal/broker"
	"github.com/soyeahso/textline/internal/domain"
	"github.com/soyeahso/textline/internal/logging"
	"github.com/soyeahso/textline/internal/store"
)

// Options configure a Relay.
type Options struct {
	ApplicationName string
	DefaultAreaCode string
	// CallbackBaseURL overrides the per-request host when building the
	// provider's message callback URL (useful behind a proxy).
	CallbackBaseURL string
}

// Relay wires the session store, the provider facade, and the event broker
// together. All methods are safe for concurrent use.
type Relay struct {
	sessions store.SessionStore
	bus      broker.Broker
	clients  ProviderFactory
	opts     Options
	log      *logging.Logger
}

// New creates a Relay.
func New(sessions store.SessionStore, bus broker.Broker, clients ProviderFactory, opts Options, log *logging.Logger) *Relay {
	return &Relay{
		sessions: sessions,
		bus:      bus,
		clients:  clients,
		opts:     opts,
		log:      log.Sub("relay"),
	}
}

// LoginRequest carries everything needed to provision a session.
type LoginRequest struct {
	PhoneNumber string
	Credentials domain.Credentials
	AreaCode    string
	// Host is the request host, used to derive the callback URL unless
	// CallbackBaseURL is configured.
	Host string
}

// Login provisions (or reuses) the provider application and service number
// for the caller's credentials, mints a fresh session token, and stores the
// session. Provisioning is idempotent, so repeated logins are safe.
func (r *Relay) Login(ctx context.Context, req LoginRequest) (*domain.Session, error) {
	client := r.clients(req.Credentials)
	userID := client.UserID()

	callbackBase := r.opts.CallbackBaseURL
	if callbackBase == "" {
		callbackBase = "https://" + req.Host
	}
	callbackURL := callbackBase + "/bandwidth/callback/" + userID

	applicationID, err := client.EnsureApplication(ctx, r.opts.ApplicationName, callbackURL)
	if err != nil {
		return nil, err
	}
	r.log.Debug().Str("applicationId", applicationID).Msg("application resolved")

	areaCode := req.AreaCode
	if areaCode == "" {
		areaCode = r.opts.DefaultAreaCode
	}
	serviceNumber, err := client.EnsureServiceNumber(ctx, applicationID, areaCode)
	if err != nil {
		return nil, err
	}
	r.log.Debug().Str("number", serviceNumber).Msg("service number resolved")

	sess := &domain.Session{
		Token:              uuid.NewString(),
		Credentials:        req.Credentials,
		PhoneNumber:        req.PhoneNumber,
		ServicePhoneNumber: serviceNumber,
		ApplicationID:      applicationID,
		AreaCode:           areaCode,
		CreatedAt:          time.Now().UTC(),
	}
	if err := r.sessions.Put(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// History fetches both directions of the session's conversation since the
// session was created and merges them into one timeline: non-decreasing by
// timestamp, stable on ties, media URLs rewritten to local proxy form.
func (r *Relay) History(ctx context.Context, sess *domain.Session) ([]domain.Message, error) {
	client := r.clients(sess.Credentials)

	sent, err := client.ListMessages(ctx, sess.PhoneNumber, sess.ServicePhoneNumber, sess.CreatedAt)
	if err != nil {
		return nil, err
	}
	received, err := client.ListMessages(ctx, sess.ServicePhoneNumber, sess.PhoneNumber, sess.CreatedAt)
	if err != nil {
		return nil, err
	}

	merged := make([]domain.Message, 0, len(sent)+len(received))
	merged = append(merged, sent...)
	merged = append(merged, received...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Time < merged[j].Time
	})
	for i := range merged {
		merged[i].RewriteMedia()
	}
	return merged, nil
}

// Send delivers one message from the session's service number to its user
// number. The from/to pair always comes from the session, never from the
// client, so a browser cannot impersonate arbitrary numbers.
func (r *Relay) Send(ctx context.Context, sess *domain.Session, text string, media []string) (string, error) {
	client := r.clients(sess.Credentials)
	return client.SendMessage(ctx, sess.ServicePhoneNumber, sess.PhoneNumber, text, media)
}

// Subscribe opens a dedicated broker subscription covering both direction
// topics of the session's conversation. The caller owns the subscription
// and must close it when the connection ends.
func (r *Relay) Subscribe(sess *domain.Session) (broker.Subscription, error) {
	client := r.clients(sess.Credentials)
	topics := topicsFor(client.UserID(), sess.ApplicationID, sess.PhoneNumber, sess.ServicePhoneNumber)
	return r.bus.Subscribe(topics...)
}

// DownloadMedia streams a stored media object for an authenticated session.
func (r *Relay) DownloadMedia(ctx context.Context, sess *domain.Session, name string) (string, io.ReadCloser, error) {
	client := r.clients(sess.Credentials)
	return client.DownloadMedia(ctx, name)
}

// UploadMedia stores one uploaded part under a randomized collision-proof
// name preserving the original extension, and returns the local proxy URL.
func (r *Relay) UploadMedia(ctx context.Context, sess *domain.Session, filename string, body io.Reader, contentType string) (string, error) {
	client := r.clients(sess.Credentials)
	name := "attachment-" + uuid.NewString() + path.Ext(filename)
	storageURL, err := client.UploadMedia(ctx, name, body, contentType)
	if err != nil {
		return "", err
	}
	return domain.LocalMediaURL(storageURL), nil
}
