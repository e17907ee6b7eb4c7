package gateway

import "net/http"

// registerRoutes wires the HTTP surface onto the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("GET /profile", s.handleProfile)

	mux.HandleFunc("GET /messages", s.requireSession(s.handleListMessages))
	mux.HandleFunc("POST /messages", s.requireSession(s.handleSendMessage))
	mux.HandleFunc("GET /messages/events", s.requireSession(s.handleEventStream))
	mux.HandleFunc("GET /messages/ws", s.requireSession(s.handleWebSocket))

	mux.HandleFunc("GET /media/{name}", s.requireSession(s.handleDownloadMedia))
	mux.HandleFunc("POST /media", s.requireSession(s.handleUploadMedia))

	mux.HandleFunc("POST /bandwidth/callback/{userId}", s.handleCallback)

	mux.HandleFunc("GET /health", s.handleHealth)

	if s.cfg.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.cfg.StaticDir)))
	} else {
		mux.HandleFunc("/", s.handleNotFound)
	}
}
