package model

// Outbound event types
const (
	EventSessionCreated   = "session_created"
	EventJoined           = "joined"
	EventRosterUpdate     = "roster_update"
	EventQuestionStarted  = "question_started"
	EventVoteAcknowledged = "vote_acknowledged"
	EventRoundResults     = "round_results"
	EventGameOver         = "game_over"
	EventError            = "error"
)

// SessionCreated is sent to the host after create_session.
type SessionCreated struct {
	PIN string `json:"pin"`
}

// Joined confirms a successful join to the joining player.
type Joined struct {
	PIN      string `json:"pin"`
	Username string `json:"username"`
}

// RosterEntry is one player in a roster_update, in join order.
type RosterEntry struct {
	Username string `json:"username"`
}

// QuestionPayload carries a question plus its split options for display.
type QuestionPayload struct {
	Text    string `json:"text"`
	OptionA string `json:"optionA"`
	OptionB string `json:"optionB"`
}

// QuestionStarted is broadcast to every connection when a round opens.
// TimeBudgetSeconds is advisory; the host view owns the countdown.
type QuestionStarted struct {
	Question          QuestionPayload `json:"question"`
	Index             int             `json:"index"`
	Total             int             `json:"total"`
	TimeBudgetSeconds int             `json:"timeBudgetSeconds"`
}

// VoteAcknowledged tells the host a vote arrived without revealing the choice.
type VoteAcknowledged struct {
	Username string `json:"username"`
}

// VoteStats holds the revealed percentages and raw counts for one round.
type VoteStats struct {
	A      int `json:"A"`
	B      int `json:"B"`
	CountA int `json:"countA"`
	CountB int `json:"countB"`
}

// ScoreEntry is one row of a scoreboard or leaderboard.
type ScoreEntry struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
}

// RoundResults is broadcast on reveal. Scores are in roster order.
type RoundResults struct {
	Stats  VoteStats    `json:"stats"`
	Scores []ScoreEntry `json:"scores"`
}

// GameOver is broadcast after the last question. The leaderboard is sorted
// descending by score, ties keeping roster order.
type GameOver struct {
	Leaderboard []ScoreEntry `json:"leaderboard"`
}

// ErrorPayload is targeted at the originating connection only.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
