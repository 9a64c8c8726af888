package model

import (
	"strconv"
	"time"
)

type GameState string

const (
	StateLobby    GameState = "LOBBY"
	StateQuestion GameState = "QUESTION"
	StateResults  GameState = "RESULTS"
	StateEnded    GameState = "ENDED"
)

// Choice is a player's answer to a binary question
type Choice string

const (
	ChoiceA Choice = "A"
	ChoiceB Choice = "B"
)

func (c Choice) Valid() bool {
	return c == ChoiceA || c == ChoiceB
}

// Player represents a participant in a game session
type Player struct {
	ConnectionID string            `json:"connectionId" bson:"connectionId"`
	Username     string            `json:"username" bson:"username"`
	Score        int               `json:"score" bson:"score"`
	Answers      map[string]Choice `json:"answers,omitempty" bson:"answers,omitempty"` // question index -> choice
}

// SetAnswer records the player's choice for a question index, replacing any
// prior choice for the same index.
func (p *Player) SetAnswer(index int, c Choice) {
	if p.Answers == nil {
		p.Answers = make(map[string]Choice)
	}
	p.Answers[strconv.Itoa(index)] = c
}

// AnswerAt returns the player's recorded choice for a question index.
func (p *Player) AnswerAt(index int) (Choice, bool) {
	c, ok := p.Answers[strconv.Itoa(index)]
	return c, ok
}

// Game is one play-through session, identified by its PIN. Players are kept
// in join order.
type Game struct {
	PIN                  string    `json:"pin" bson:"pin"`
	HostConnectionID     string    `json:"hostConnectionId" bson:"hostConnectionId"`
	Players              []Player  `json:"players" bson:"players"`
	CurrentQuestionIndex int       `json:"currentQuestionIndex" bson:"currentQuestionIndex"`
	State                GameState `json:"state" bson:"state"`
	CreatedAt            time.Time `json:"createdAt" bson:"createdAt"`
}

// PlayerByConnection finds a player by their connection ID.
func (g *Game) PlayerByConnection(connID string) *Player {
	for i := range g.Players {
		if g.Players[i].ConnectionID == connID {
			return &g.Players[i]
		}
	}
	return nil
}

// HasUsername reports whether a player with the exact username already joined.
// Comparison is case-sensitive, no normalization.
func (g *Game) HasUsername(username string) bool {
	for i := range g.Players {
		if g.Players[i].Username == username {
			return true
		}
	}
	return false
}

// Clone returns a deep copy, used to roll back a mutation when persisting fails.
func (g *Game) Clone() *Game {
	c := *g
	c.Players = make([]Player, len(g.Players))
	for i, p := range g.Players {
		cp := p
		if p.Answers != nil {
			cp.Answers = make(map[string]Choice, len(p.Answers))
			for k, v := range p.Answers {
				cp.Answers[k] = v
			}
		}
		c.Players[i] = cp
	}
	return &c
}
