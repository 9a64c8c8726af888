package service

import "errors"

// Session-level errors. Each one terminates a single inbound event, is
// reported to the originating connection only, and leaves state unchanged.
var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrGameAlreadyStarted   = errors.New("game already started")
	ErrUsernameTaken        = errors.New("username taken")
	ErrInvalidUsername      = errors.New("username must not be empty")
	ErrNoQuestionsAvailable = errors.New("no questions available")
	ErrNotSessionHost       = errors.New("not session host")
	ErrPersistenceFailure   = errors.New("persistence failure")

	// ErrPINSpaceExhausted indicates the PIN range is effectively full.
	// Unlike the rest, this is a fatal configuration error.
	ErrPINSpaceExhausted = errors.New("pin space exhausted")
)

// ErrorCode maps a service error to its wire code for error payloads.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return "session_not_found"
	case errors.Is(err, ErrGameAlreadyStarted):
		return "game_already_started"
	case errors.Is(err, ErrUsernameTaken):
		return "username_taken"
	case errors.Is(err, ErrInvalidUsername):
		return "invalid_username"
	case errors.Is(err, ErrNoQuestionsAvailable):
		return "no_questions_available"
	case errors.Is(err, ErrNotSessionHost):
		return "not_session_host"
	case errors.Is(err, ErrPersistenceFailure):
		return "persistence_failure"
	default:
		return "internal_error"
	}
}
