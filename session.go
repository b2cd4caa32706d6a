package quizcraft

import (
	"context"
	"strings"
	"sync"
)

// Phase is the lifecycle state of one quiz session.
type Phase string

const (
	PhaseSetup     Phase = "setup"     // no questions yet
	PhaseActive    Phase = "active"    // questions present, not submitted
	PhaseSubmitted Phase = "submitted" // results shown, frozen until reset
)

// Session holds the full state of one user's quiz-taking interaction: the
// generated questions, the user's selections, any fetched hints, and the
// submitted flag. A session is owned by exactly one user and lives in memory
// only; each action is serialized by the session's own mutex, so there is at
// most one in-flight completion call per session.
type Session struct {
	mu      sync.Mutex
	client  CompletionClient
	hintSvc *HintService
	trans   *Transcript

	topic       string
	difficulty  string
	questions   []Question
	userAnswers []string
	hints       []string
	submitted   bool
}

// NewSession creates an empty session in the Setup phase.
func NewSession(client CompletionClient) *Session {
	return &Session{
		client:  client,
		hintSvc: NewHintService(client),
	}
}

// SetTranscript attaches a transcript logger. Logging is best effort and never
// fails an action. A nil transcript disables it.
func (s *Session) SetTranscript(t *Transcript) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trans = t
}

// Phase reports the session's current lifecycle state.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phaseLocked()
}

func (s *Session) phaseLocked() Phase {
	switch {
	case s.submitted:
		return PhaseSubmitted
	case len(s.questions) > 0:
		return PhaseActive
	default:
		return PhaseSetup
	}
}

// Generate runs the quiz generation action: build the prompt, call the
// completion client, parse the result, and move the session from Setup to
// Active. On any failure the session keeps its prior state so the user can
// retry.
func (s *Session) Generate(ctx context.Context, topic, difficulty string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phaseLocked() {
	case PhaseActive:
		return ErrQuizInProgress
	case PhaseSubmitted:
		return ErrAlreadySubmitted
	}
	if strings.TrimSpace(topic) == "" {
		return ErrEmptyTopic
	}

	prompt := BuildQuizPrompt(topic, difficulty)
	if s.trans != nil {
		s.trans.LogRequest("generate", prompt)
	}

	raw, err := s.client.Complete(ctx, prompt)
	if err != nil {
		return &GenerationError{Action: "quiz", Err: err}
	}
	if s.trans != nil {
		s.trans.LogResponse("generate", raw)
	}

	questions, err := ParseQuiz(raw)
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		return &ParseError{Line: 1, Reason: "no question blocks in response"}
	}

	VerboseLog("Parsed %d questions for topic %q", len(questions), topic)

	s.topic = topic
	s.difficulty = difficulty
	s.questions = questions
	s.userAnswers = make([]string, len(questions))
	s.hints = make([]string, len(questions))
	s.submitted = false
	return nil
}

// SelectOption records the user's selection for question i. Selections may be
// changed any number of times before submission.
func (s *Session) SelectOption(i int, option string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phaseLocked() {
	case PhaseSetup:
		return ErrNoActiveQuiz
	case PhaseSubmitted:
		return ErrAlreadySubmitted
	}
	if i < 0 || i >= len(s.questions) {
		return ErrQuestionIndex
	}

	s.userAnswers[i] = option
	return nil
}

// RequestHint fetches a hint for question i and stores it. Repeat requests
// issue repeat completion calls; the latest response overwrites the previous
// hint. A failed call leaves any earlier hint in place.
func (s *Session) RequestHint(ctx context.Context, i int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phaseLocked() {
	case PhaseSetup:
		return "", ErrNoActiveQuiz
	case PhaseSubmitted:
		return "", ErrAlreadySubmitted
	}
	if i < 0 || i >= len(s.questions) {
		return "", ErrQuestionIndex
	}

	hint, err := s.hintSvc.FetchHint(ctx, s.questions[i], s.trans)
	if err != nil {
		return "", err
	}

	s.hints[i] = hint
	return hint, nil
}

// Submit freezes the session and scores it. The transition to Submitted is
// irreversible except through Reset.
func (s *Session) Submit() (ScoreReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phaseLocked() {
	case PhaseSetup:
		return ScoreReport{}, ErrNoActiveQuiz
	case PhaseSubmitted:
		return ScoreReport{}, ErrAlreadySubmitted
	}

	s.submitted = true
	report := ScoreQuiz(s.questions, s.userAnswers)
	if s.trans != nil {
		s.trans.LogScore(report.Score, report.Total)
	}
	return report, nil
}

// Report recomputes the score for a submitted session, for redisplay.
func (s *Session) Report() (ScoreReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phaseLocked() != PhaseSubmitted {
		return ScoreReport{}, ErrNotSubmitted
	}
	return ScoreQuiz(s.questions, s.userAnswers), nil
}

// Reset returns the session to its initial Setup state. Resetting an already
// empty session is a no-op, so repeated resets are idempotent.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.topic = ""
	s.difficulty = ""
	s.questions = nil
	s.userAnswers = nil
	s.hints = nil
	s.submitted = false
}

// View is an immutable snapshot of session state for rendering.
type View struct {
	Phase       Phase
	Topic       string
	Difficulty  string
	Questions   []Question
	UserAnswers []string
	Hints       []string
}

// Snapshot copies the session state for rendering without holding the lock
// across template execution.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		Phase:       s.phaseLocked(),
		Topic:       s.topic,
		Difficulty:  s.difficulty,
		Questions:   make([]Question, len(s.questions)),
		UserAnswers: make([]string, len(s.userAnswers)),
		Hints:       make([]string, len(s.hints)),
	}
	copy(v.Questions, s.questions)
	copy(v.UserAnswers, s.userAnswers)
	copy(v.Hints, s.hints)
	return v
}
