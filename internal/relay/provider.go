package relay

import (
	"context"
	"io"
	"time"

	"github.com/soyeahso/textline/internal/domain"
)

// Provider is the telephony capability the relay depends on. The bandwidth
// package provides the production implementation; tests substitute fakes.
type Provider interface {
	UserID() string
	EnsureApplication(ctx context.Context, name, callbackURL string) (string, error)
	EnsureServiceNumber(ctx context.Context, applicationID, areaCode string) (string, error)
	ListMessages(ctx context.Context, from, to string, since time.Time) ([]domain.Message, error)
	SendMessage(ctx context.Context, from, to, text string, media []string) (string, error)
	DownloadMedia(ctx context.Context, name string) (string, io.ReadCloser, error)
	UploadMedia(ctx context.Context, name string, r io.Reader, contentType string) (string, error)
}

// ProviderFactory builds a Provider bound to the given credentials,
// falling back to process-wide defaults for unset fields.
type ProviderFactory func(creds domain.Credentials) Provider
