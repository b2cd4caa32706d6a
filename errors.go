package quizcraft

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey means no API key could be resolved from the secrets file,
// the environment, or interactive entry. Nothing works until it is supplied.
var ErrMissingAPIKey = errors.New("OpenAI API key is required (secrets file, OPENAI_API_KEY, or interactive entry)")

// Session state machine misuse errors. These are caller mistakes, not
// completion failures, and never destroy session state.
var (
	ErrNoActiveQuiz     = errors.New("no active quiz")
	ErrQuizInProgress   = errors.New("quiz already in progress")
	ErrAlreadySubmitted = errors.New("quiz already submitted")
	ErrNotSubmitted     = errors.New("quiz not submitted yet")
	ErrEmptyTopic       = errors.New("topic is required")
	ErrQuestionIndex    = errors.New("question index out of range")
)

// GenerationError wraps a failed completion call. The session keeps its prior
// state so the user can retry the same action.
type GenerationError struct {
	Action string // "quiz" or "hint"
	Err    error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("failed to generate %s: %v", e.Action, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// ParseError reports malformed model output. Line is the 1-based line number
// of the question header whose block could not be read.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d: %s", e.Line, e.Reason)
}
