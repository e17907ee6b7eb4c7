package gateway

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/soyeahso/textline/internal/bandwidth"
	"github.com/soyeahso/textline/internal/domain"
	"github.com/soyeahso/textline/internal/relay"
)

// maxUploadBytes caps a single media upload request.
const maxUploadBytes = 32 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// providerStatus maps a provider facade error onto an HTTP status: caller
// mistakes surface as 400, provider outages as 502.
func providerStatus(err error) int {
	switch {
	case errors.Is(err, bandwidth.ErrRejected):
		return http.StatusBadRequest
	case errors.Is(err, bandwidth.ErrUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

type loginRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	UserID      string `json:"userId,omitempty"`
	APIToken    string `json:"apiToken,omitempty"`
	APISecret   string `json:"apiSecret,omitempty"`
	AreaCode    string `json:"areaCode,omitempty"`
}

type profileResponse struct {
	SessionID          string `json:"sessionId"`
	PhoneNumber        string `json:"phoneNumber"`
	ServicePhoneNumber string `json:"servicePhoneNumber"`
}

func profileFrom(sess *domain.Session) profileResponse {
	return profileResponse{
		SessionID:          sess.Token,
		PhoneNumber:        sess.PhoneNumber,
		ServicePhoneNumber: sess.ServicePhoneNumber,
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.PhoneNumber == "" {
		writeError(w, http.StatusBadRequest, "phoneNumber is required")
		return
	}

	sess, err := s.relay.Login(r.Context(), relay.LoginRequest{
		PhoneNumber: req.PhoneNumber,
		Credentials: domain.Credentials{
			UserID:    req.UserID,
			APIToken:  req.APIToken,
			APISecret: req.APISecret,
		},
		AreaCode: req.AreaCode,
		Host:     r.Host,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("login failed")
		writeError(w, providerStatus(err), "login failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.cfg.TLS.Enabled,
	})
	writeJSON(w, http.StatusOK, profileFrom(sess))
}

// handleProfile returns the session profile, or a JSON null when the request
// carries no valid session. It never fails authentication so the frontend
// can probe login state without error handling.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookupSession(r)
	if err != nil {
		s.log.Error().Err(err).Msg("session lookup failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if sess == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, profileFrom(sess))
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	messages, err := s.relay.History(r.Context(), sess)
	if err != nil {
		s.log.Error().Err(err).Msg("history fetch failed")
		writeError(w, providerStatus(err), "failed to fetch messages")
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

type sendRequest struct {
	Text  string   `json:"text"`
	Media []string `json:"media,omitempty"`
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	id, err := s.relay.Send(r.Context(), sess, req.Text, req.Media)
	if err != nil {
		s.log.Error().Err(err).Msg("send failed")
		writeError(w, providerStatus(err), "failed to send message")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

// handleDownloadMedia proxies a stored media object to the browser. Every
// provider failure collapses to 404 so nothing about the storage backend
// leaks to the client.
func (s *Server) handleDownloadMedia(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	name := r.PathValue("name")

	contentType, body, err := s.relay.DownloadMedia(r.Context(), sess, name)
	if err != nil {
		s.log.Debug().Err(err).Str("name", name).Msg("media download failed")
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	defer body.Close()

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.WriteHeader(http.StatusOK)
	io.Copy(w, body)
}

func (s *Server) handleUploadMedia(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	mr, err := r.MultipartReader()
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart body required")
		return
	}

	var urls []string
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			writeError(w, http.StatusBadRequest, "malformed multipart body")
			return
		}
		if part.FileName() == "" {
			part.Close()
			continue
		}
		url, err := s.uploadPart(r, sess, part)
		part.Close()
		if err != nil {
			s.log.Error().Err(err).Msg("media upload failed")
			writeError(w, providerStatus(err), "failed to upload media")
			return
		}
		urls = append(urls, url)
	}

	if urls == nil {
		urls = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"urls": urls})
}

func (s *Server) uploadPart(r *http.Request, sess *domain.Session, part *multipart.Part) (string, error) {
	contentType := part.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return s.relay.UploadMedia(r.Context(), sess, part.FileName(), part, contentType)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "not found")
}
