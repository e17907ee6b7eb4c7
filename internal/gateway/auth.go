package gateway

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/soyeahso/textline/internal/domain"
	"github.com/soyeahso/textline/internal/store"
)

type contextKey int

const sessionContextKey contextKey = iota

// sessionCookieName is the cookie carrying the session token. Streaming
// clients that cannot send cookies may pass the token as a query parameter
// of the same name instead.
const sessionCookieName = "sessionId"

// sessionToken extracts the session token from the request, preferring the
// cookie over the query parameter.
func sessionToken(r *http.Request) string {
	if c, err := r.Cookie(sessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	return r.URL.Query().Get(sessionCookieName)
}

// lookupSession resolves the request's session, or returns nil when the
// request carries no valid token.
func (s *Server) lookupSession(r *http.Request) (*domain.Session, error) {
	token := sessionToken(r)
	if token == "" {
		return nil, nil
	}
	sess, err := s.sessions.Get(r.Context(), token)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return sess, err
}

// requireSession gates a handler behind session authentication. The resolved
// session is placed on the request context.
func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.lookupSession(r)
		if err != nil {
			s.log.Error().Err(err).Msg("session lookup failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if sess == nil {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		ctx := context.WithValue(r.Context(), sessionContextKey, sess)
		next(w, r.WithContext(ctx))
	}
}

// sessionFrom returns the authenticated session from the request context.
func sessionFrom(r *http.Request) *domain.Session {
	sess, _ := r.Context().Value(sessionContextKey).(*domain.Session)
	return sess
}

// safeEqual compares two strings in constant time.
func safeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
