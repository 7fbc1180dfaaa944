package api

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

func NewRouter(s *Server, allowedOrigins []string) http.Handler {
	r := mux.NewRouter()
	m := s.Metrics

	r.Handle("/health", m.WrapHandler("health", http.HandlerFunc(s.health))).Methods(http.MethodGet)
	r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)

	// preflight requests are answered by the CORS middleware before routing
	r.Handle("/api/comments", m.WrapHandler("comments", http.HandlerFunc(s.getComments))).Methods(http.MethodGet)
	r.Handle("/api/analyze", m.WrapHandler("analyze", http.HandlerFunc(s.analyze))).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	cors := handlers.CORS(
		handlers.AllowedOrigins(allowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)
	return cors(r)
}
