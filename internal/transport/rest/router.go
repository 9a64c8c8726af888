package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"wouldrather/internal/cache"
	"wouldrather/internal/repository"
	"wouldrather/internal/transport/rest/handler"
	"wouldrather/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	GameRepo    repository.GameRepo
	Leaderboard cache.LeaderboardCache
	WSHandler   *ws.Handler
}

// NewRouter creates the API router. The game itself runs over the socket;
// REST exposes health and read-only session views.
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	sessionHandler := handler.NewSessionHandler(c.GameRepo, c.Leaderboard)

	r.Use(corsMiddleware)

	v1 := r.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/ws", c.WSHandler.Serve).Methods("GET")
	v1.HandleFunc("/sessions/{pin}", sessionHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/sessions/{pin}/leaderboard", sessionHandler.Leaderboard).Methods("GET", "OPTIONS")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
