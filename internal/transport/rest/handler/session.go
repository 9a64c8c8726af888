package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"wouldrather/internal/cache"
	"wouldrather/internal/repository"
)

// SessionHandler serves read-only session views
type SessionHandler struct {
	gameRepo    repository.GameRepo
	leaderboard cache.LeaderboardCache
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(gameRepo repository.GameRepo, leaderboard cache.LeaderboardCache) *SessionHandler {
	return &SessionHandler{
		gameRepo:    gameRepo,
		leaderboard: leaderboard,
	}
}

// Get handles GET /v1/sessions/{pin}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	pin := mux.Vars(r)["pin"]

	game, err := h.gameRepo.GetByPIN(r.Context(), pin)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if game == nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	writeJSON(w, http.StatusOK, game)
}

// Leaderboard handles GET /v1/sessions/{pin}/leaderboard
func (h *SessionHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	pin := mux.Vars(r)["pin"]

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	entries, err := h.leaderboard.GetTop(r.Context(), pin, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"leaderboard": entries,
	})
}
