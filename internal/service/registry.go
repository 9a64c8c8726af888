package service

import (
	"crypto/rand"
	"encoding/binary"
	"strconv"
	"sync"
	"time"

	"wouldrather/internal/model"
)

// DefaultRetention is how long a session lives before the reaper removes it,
// regardless of state.
const DefaultRetention = 24 * time.Hour

const maxPINAttempts = 100

// LiveGame pairs a game with its session lock. Every mutation of the game,
// including expiry, runs under this lock.
type LiveGame struct {
	mu   sync.Mutex
	Game *model.Game
}

func (lg *LiveGame) Lock()   { lg.mu.Lock() }
func (lg *LiveGame) Unlock() { lg.mu.Unlock() }

// Registry is the process-wide PIN -> session mapping. It is an explicit
// object owned by the entry point, not ambient global state. Different
// sessions share nothing but this map.
type Registry struct {
	mu        sync.RWMutex
	games     map[string]*LiveGame
	retention time.Duration
}

func NewRegistry(retention time.Duration) *Registry {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Registry{
		games:     make(map[string]*LiveGame),
		retention: retention,
	}
}

// Register draws a unique 6-digit PIN, creates a lobby-state game owned by
// hostConnID and inserts it atomically. Redraws on collision; gives up only
// when the PIN space is effectively exhausted.
func (r *Registry) Register(hostConnID string, now time.Time) (*LiveGame, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for attempts := 0; attempts < maxPINAttempts; attempts++ {
		pin, err := randomPIN()
		if err != nil {
			return nil, err
		}
		if _, taken := r.games[pin]; taken {
			continue
		}

		lg := &LiveGame{
			Game: &model.Game{
				PIN:              pin,
				HostConnectionID: hostConnID,
				Players:          []model.Player{},
				State:            model.StateLobby,
				CreatedAt:        now,
			},
		}
		r.games[pin] = lg
		return lg, nil
	}

	return nil, ErrPINSpaceExhausted
}

// Lookup returns the live session for a PIN, or nil.
func (r *Registry) Lookup(pin string) *LiveGame {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.games[pin]
}

// Remove frees a PIN, e.g. when persisting a freshly created game failed.
func (r *Registry) Remove(pin string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.games, pin)
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}

// Expire removes sessions whose createdAt is older than the retention
// horizon and returns them. Each removal takes the session lock before the
// registry lock, so expiry serializes with any in-flight client event for the
// same PIN. Lock order everywhere is session then registry, never the reverse
// while waiting.
func (r *Registry) Expire(now time.Time) []*model.Game {
	r.mu.RLock()
	candidates := make(map[string]*LiveGame)
	for pin, lg := range r.games {
		candidates[pin] = lg
	}
	r.mu.RUnlock()

	var removed []*model.Game
	for pin, lg := range candidates {
		lg.mu.Lock()
		if now.Sub(lg.Game.CreatedAt) >= r.retention {
			r.mu.Lock()
			if r.games[pin] == lg {
				delete(r.games, pin)
				removed = append(removed, lg.Game)
			}
			r.mu.Unlock()
		}
		lg.mu.Unlock()
	}
	return removed
}

// randomPIN draws a fixed-width numeric PIN in [100000, 999999].
func randomPIN() (string, error) {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	n := binary.BigEndian.Uint32(b[:])%900000 + 100000
	return strconv.Itoa(int(n)), nil
}
