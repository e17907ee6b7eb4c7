package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/soyeahso/textline/internal/relay"
)

// handleCallback ingests a provider event. The provider retries on non-2xx,
// so every outcome short of an explicit auth failure responds 200 with an
// empty body; problems are logged, never surfaced.
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	if s.cfg.WebhookSecret != "" && !safeEqual(r.URL.Query().Get("secret"), s.cfg.WebhookSecret) {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	userID := r.PathValue("userId")

	var ev relay.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		s.log.Warn().Err(err).Str("userId", userID).Msg("undecodable callback payload")
		w.WriteHeader(http.StatusOK)
		return
	}

	published, err := s.relay.Ingest(r.Context(), userID, ev)
	if err != nil {
		s.log.Error().Err(err).Str("userId", userID).Msg("callback ingest failed")
	} else if !published {
		s.log.Debug().Str("eventType", ev.EventType).Msg("non-message callback dropped")
	}

	w.WriteHeader(http.StatusOK)
}
