package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"wouldrather/internal/cache"
	"wouldrather/internal/model"
	"wouldrather/internal/repository"
)

// timeBudgetSeconds is the advisory per-question countdown carried in
// question_started events. The host view owns the timer; reveal is the same
// operation whether triggered by timeout or by the host.
const timeBudgetSeconds = 30

// GameService is the per-session state machine. It resolves a PIN through
// the registry, mutates the session under its lock, persists, and only then
// broadcasts, so no connection ever observes a rolled-back transition.
type GameService struct {
	registry    *Registry
	gameRepo    repository.GameRepo
	leaderboard cache.LeaderboardCache
	questions   []model.Question
	broadcaster Broadcaster

	// EnforceHostControl rejects Start/Reveal/Advance from any connection
	// other than the session creator. Off by default, matching the observed
	// behavior of the reference game.
	EnforceHostControl bool
}

// NewGameService creates the state machine over a registry and the question
// source. Questions are loaded once per process and shared read-only.
func NewGameService(
	registry *Registry,
	gameRepo repository.GameRepo,
	leaderboard cache.LeaderboardCache,
	questions []model.Question,
) *GameService {
	return &GameService{
		registry:    registry,
		gameRepo:    gameRepo,
		leaderboard: leaderboard,
		questions:   questions,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *GameService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// CreateSession registers a new lobby-state session owned by connID, persists
// it and returns the PIN. The PIN is freed again if persisting fails.
func (s *GameService) CreateSession(ctx context.Context, connID string) (string, error) {
	lg, err := s.registry.Register(connID, time.Now())
	if err != nil {
		return "", err
	}

	lg.Lock()
	defer lg.Unlock()

	pin := lg.Game.PIN
	if err := s.gameRepo.Create(ctx, lg.Game); err != nil {
		s.registry.Remove(pin)
		log.Printf("create game %s: %v", pin, err)
		return "", fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}

	s.send(connID, model.EventSessionCreated, model.SessionCreated{PIN: pin})
	log.Printf("Session created: %s", pin)
	return pin, nil
}

// Join adds a player to a lobby. Username comparison is exact and
// case-sensitive, no normalization. The full roster goes to the host only.
func (s *GameService) Join(ctx context.Context, pin, connID, username string) error {
	if username == "" {
		return ErrInvalidUsername
	}

	lg := s.registry.Lookup(pin)
	if lg == nil {
		return ErrSessionNotFound
	}

	lg.Lock()
	defer lg.Unlock()
	g := lg.Game

	if g.State != model.StateLobby {
		return ErrGameAlreadyStarted
	}
	if g.HasUsername(username) {
		return ErrUsernameTaken
	}

	snapshot := g.Clone()
	g.Players = append(g.Players, model.Player{
		ConnectionID: connID,
		Username:     username,
		Score:        0,
	})
	if err := s.persist(ctx, lg, snapshot); err != nil {
		return err
	}

	s.send(connID, model.EventJoined, model.Joined{PIN: pin, Username: username})
	s.send(g.HostConnectionID, model.EventRosterUpdate, rosterOf(g))
	log.Printf("%s joined %s", username, pin)
	return nil
}

// Start opens the first question. No-op unless the session is in the lobby;
// calling it twice results in exactly one transition.
func (s *GameService) Start(ctx context.Context, pin, connID string) error {
	lg := s.registry.Lookup(pin)
	if lg == nil {
		return nil
	}

	lg.Lock()
	defer lg.Unlock()
	g := lg.Game

	if g.State != model.StateLobby {
		return nil
	}
	if err := s.requireHost(g, connID); err != nil {
		return err
	}
	if len(s.questions) == 0 {
		return ErrNoQuestionsAvailable
	}

	snapshot := g.Clone()
	g.CurrentQuestionIndex = 0
	g.State = model.StateQuestion
	if err := s.persist(ctx, lg, snapshot); err != nil {
		return err
	}

	s.broadcast(pin, model.EventQuestionStarted, s.questionStarted(0))
	return nil
}

// Vote records or overwrites the player's choice for the active question.
// Silently ignored outside QUESTION state or for unknown connections, to
// tolerate network reordering of client messages. The host learns who voted
// but never the choice.
func (s *GameService) Vote(ctx context.Context, pin, connID string, choice model.Choice) error {
	if !choice.Valid() {
		return nil
	}

	lg := s.registry.Lookup(pin)
	if lg == nil {
		return nil
	}

	lg.Lock()
	defer lg.Unlock()
	g := lg.Game

	if g.State != model.StateQuestion {
		return nil
	}
	player := g.PlayerByConnection(connID)
	if player == nil {
		return nil
	}

	snapshot := g.Clone()
	player.SetAnswer(g.CurrentQuestionIndex, choice)
	if err := s.persist(ctx, lg, snapshot); err != nil {
		return err
	}

	s.send(g.HostConnectionID, model.EventVoteAcknowledged, model.VoteAcknowledged{
		Username: player.Username,
	})
	return nil
}

// Reveal closes voting for the current question, scores it and broadcasts the
// results. Every player who answered with the majority gains the majority's
// percentage, and likewise for the minority: alignment pays proportionally.
func (s *GameService) Reveal(ctx context.Context, pin, connID string) error {
	lg := s.registry.Lookup(pin)
	if lg == nil {
		return nil
	}

	lg.Lock()
	defer lg.Unlock()
	g := lg.Game

	if g.State != model.StateQuestion {
		return nil
	}
	if err := s.requireHost(g, connID); err != nil {
		return err
	}

	index := g.CurrentQuestionIndex
	countA, countB := 0, 0
	for i := range g.Players {
		switch c, _ := g.Players[i].AnswerAt(index); c {
		case model.ChoiceA:
			countA++
		case model.ChoiceB:
			countB++
		}
	}

	total := countA + countB
	pctA, pctB := 0, 0
	if total > 0 {
		pctA = int(math.Round(float64(countA) * 100 / float64(total)))
		pctB = int(math.Round(float64(countB) * 100 / float64(total)))
	}

	snapshot := g.Clone()
	for i := range g.Players {
		switch c, _ := g.Players[i].AnswerAt(index); c {
		case model.ChoiceA:
			g.Players[i].Score += pctA
		case model.ChoiceB:
			g.Players[i].Score += pctB
		}
	}
	g.State = model.StateResults
	if err := s.persist(ctx, lg, snapshot); err != nil {
		return err
	}

	s.updateLeaderboard(ctx, g)
	s.broadcast(pin, model.EventRoundResults, model.RoundResults{
		Stats:  model.VoteStats{A: pctA, B: pctB, CountA: countA, CountB: countB},
		Scores: scoreboardOf(g),
	})
	return nil
}

// Advance moves to the next question, or ends the game after the last one.
// No-op unless the session is showing results.
func (s *GameService) Advance(ctx context.Context, pin, connID string) error {
	lg := s.registry.Lookup(pin)
	if lg == nil {
		return nil
	}

	lg.Lock()
	defer lg.Unlock()
	g := lg.Game

	if g.State != model.StateResults {
		return nil
	}
	if err := s.requireHost(g, connID); err != nil {
		return err
	}

	next := g.CurrentQuestionIndex + 1
	snapshot := g.Clone()

	if next >= len(s.questions) {
		g.State = model.StateEnded
		if err := s.persist(ctx, lg, snapshot); err != nil {
			return err
		}

		leaderboard := scoreboardOf(g)
		sort.SliceStable(leaderboard, func(i, j int) bool {
			return leaderboard[i].Score > leaderboard[j].Score
		})
		s.broadcast(pin, model.EventGameOver, model.GameOver{Leaderboard: leaderboard})
		log.Printf("Session %s ended", pin)
		return nil
	}

	g.CurrentQuestionIndex = next
	g.State = model.StateQuestion
	if err := s.persist(ctx, lg, snapshot); err != nil {
		return err
	}

	s.broadcast(pin, model.EventQuestionStarted, s.questionStarted(next))
	return nil
}

// ExpireSessions reaps sessions past the retention horizon and drops their
// cached leaderboards. Mongo documents age out on their own via the TTL
// index. Returns the number of sessions removed.
func (s *GameService) ExpireSessions(ctx context.Context) int {
	removed := s.registry.Expire(time.Now())
	for _, g := range removed {
		if s.leaderboard != nil {
			if err := s.leaderboard.Delete(ctx, g.PIN); err != nil {
				log.Printf("delete leaderboard %s: %v", g.PIN, err)
			}
		}
		log.Printf("Session %s expired", g.PIN)
	}
	return len(removed)
}

// persist writes the mutated game and rolls the in-memory state back to the
// snapshot on failure, so broadcasts never leak an unsaved transition.
func (s *GameService) persist(ctx context.Context, lg *LiveGame, snapshot *model.Game) error {
	if err := s.gameRepo.Update(ctx, lg.Game); err != nil {
		*lg.Game = *snapshot
		log.Printf("persist game %s: %v", snapshot.PIN, err)
		return fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}
	return nil
}

func (s *GameService) requireHost(g *model.Game, connID string) error {
	if s.EnforceHostControl && g.HostConnectionID != connID {
		return ErrNotSessionHost
	}
	return nil
}

func (s *GameService) questionStarted(index int) model.QuestionStarted {
	q := s.questions[index]
	a, b := model.SplitOptions(q.Text)
	return model.QuestionStarted{
		Question:          model.QuestionPayload{Text: q.Text, OptionA: a, OptionB: b},
		Index:             index,
		Total:             len(s.questions),
		TimeBudgetSeconds: timeBudgetSeconds,
	}
}

// updateLeaderboard refreshes the Redis ZSET. Best effort: the cache serves
// the REST read path, it is not part of the session's consistency contract.
func (s *GameService) updateLeaderboard(ctx context.Context, g *model.Game) {
	if s.leaderboard == nil {
		return
	}
	for i := range g.Players {
		p := &g.Players[i]
		if err := s.leaderboard.UpdateScore(ctx, g.PIN, p.Username, p.Score); err != nil {
			log.Printf("update leaderboard %s: %v", g.PIN, err)
			return
		}
	}
}

func (s *GameService) send(connID, event string, payload interface{}) {
	if s.broadcaster != nil {
		s.broadcaster.SendToConnection(connID, event, payload)
	}
}

func (s *GameService) broadcast(pin, event string, payload interface{}) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToSession(pin, event, payload)
	}
}

func rosterOf(g *model.Game) []model.RosterEntry {
	roster := make([]model.RosterEntry, len(g.Players))
	for i := range g.Players {
		roster[i] = model.RosterEntry{Username: g.Players[i].Username}
	}
	return roster
}

func scoreboardOf(g *model.Game) []model.ScoreEntry {
	scores := make([]model.ScoreEntry, len(g.Players))
	for i := range g.Players {
		scores[i] = model.ScoreEntry{
			Username: g.Players[i].Username,
			Score:    g.Players[i].Score,
		}
	}
	return scores
}
