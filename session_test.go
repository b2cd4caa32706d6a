package quizcraft

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// fakeClient returns queued responses in order and records every prompt.
type fakeClient struct {
	responses []string
	err       error
	prompts   []string
}

func (f *fakeClient) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", errors.New("fakeClient: no responses queued")
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

func quizText(n int) string {
	blocks := make([]string, n)
	for i := range blocks {
		blocks[i] = fmt.Sprintf("Q%d. What is 2+2?\na) 3\nb) 4\nc) 5\nd) 6\nAnswer: b", i+1)
	}
	return strings.Join(blocks, "\n")
}

func activeSession(t *testing.T, client *fakeClient) *Session {
	t.Helper()
	s := NewSession(client)
	if err := s.Generate(context.Background(), "Math", DifficultyBeginner); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	return s
}

func TestSessionLifecycle(t *testing.T) {
	client := &fakeClient{responses: []string{quizText(10)}}
	s := NewSession(client)

	if s.Phase() != PhaseSetup {
		t.Fatalf("initial phase = %v, want setup", s.Phase())
	}

	if err := s.Generate(context.Background(), "Math", DifficultyBeginner); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if s.Phase() != PhaseActive {
		t.Fatalf("phase after generate = %v, want active", s.Phase())
	}

	view := s.Snapshot()
	if len(view.Questions) != 10 {
		t.Fatalf("questions = %d, want 10", len(view.Questions))
	}
	if len(view.UserAnswers) != 10 || len(view.Hints) != 10 {
		t.Fatal("answers and hints must be sized to the question count")
	}

	if err := s.SelectOption(0, "b) 4"); err != nil {
		t.Fatalf("SelectOption failed: %v", err)
	}

	report, err := s.Submit()
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if s.Phase() != PhaseSubmitted {
		t.Fatalf("phase after submit = %v, want submitted", s.Phase())
	}
	if report.Score != 1 || report.Total != 10 {
		t.Errorf("report = %d/%d, want 1/10", report.Score, report.Total)
	}
}

func TestGenerateRequiresTopic(t *testing.T) {
	s := NewSession(&fakeClient{})
	for _, topic := range []string{"", "   "} {
		if err := s.Generate(context.Background(), topic, DifficultyBeginner); !errors.Is(err, ErrEmptyTopic) {
			t.Errorf("Generate(%q) = %v, want ErrEmptyTopic", topic, err)
		}
	}
}

func TestGenerateFailurePreservesState(t *testing.T) {
	client := &fakeClient{err: errors.New("quota exceeded")}
	s := NewSession(client)

	err := s.Generate(context.Background(), "Math", DifficultyBeginner)
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
	if s.Phase() != PhaseSetup {
		t.Fatalf("phase after failed generate = %v, want setup", s.Phase())
	}

	// Retry succeeds once the backend recovers.
	client.err = nil
	client.responses = []string{quizText(3)}
	if err := s.Generate(context.Background(), "Math", DifficultyBeginner); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if s.Phase() != PhaseActive {
		t.Fatal("retry must activate the session")
	}
}

func TestGenerateParseFailureStaysInSetup(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"truncated", "Q1. Broken?\na) yes"},
		{"no questions", "I'm sorry, I can't do that."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(&fakeClient{responses: []string{tt.response}})
			err := s.Generate(context.Background(), "Math", DifficultyBeginner)
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected ParseError, got %v", err)
			}
			if s.Phase() != PhaseSetup {
				t.Fatalf("phase = %v, want setup", s.Phase())
			}
		})
	}
}

func TestGenerateWhileActive(t *testing.T) {
	s := activeSession(t, &fakeClient{responses: []string{quizText(2)}})
	err := s.Generate(context.Background(), "History", DifficultyAdvanced)
	if !errors.Is(err, ErrQuizInProgress) {
		t.Fatalf("got %v, want ErrQuizInProgress", err)
	}
}

func TestSelectOptionGuards(t *testing.T) {
	s := NewSession(&fakeClient{})
	if err := s.SelectOption(0, "a) 3"); !errors.Is(err, ErrNoActiveQuiz) {
		t.Errorf("select in setup = %v, want ErrNoActiveQuiz", err)
	}

	s = activeSession(t, &fakeClient{responses: []string{quizText(2)}})
	if err := s.SelectOption(5, "a) 3"); !errors.Is(err, ErrQuestionIndex) {
		t.Errorf("select out of range = %v, want ErrQuestionIndex", err)
	}
	if err := s.SelectOption(-1, "a) 3"); !errors.Is(err, ErrQuestionIndex) {
		t.Errorf("select negative = %v, want ErrQuestionIndex", err)
	}

	if _, err := s.Submit(); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if err := s.SelectOption(0, "a) 3"); !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("select after submit = %v, want ErrAlreadySubmitted", err)
	}
}

func TestSelectOptionOverwrites(t *testing.T) {
	s := activeSession(t, &fakeClient{responses: []string{quizText(1)}})

	if err := s.SelectOption(0, "a) 3"); err != nil {
		t.Fatal(err)
	}
	if err := s.SelectOption(0, "b) 4"); err != nil {
		t.Fatal(err)
	}

	view := s.Snapshot()
	if view.UserAnswers[0] != "b) 4" {
		t.Errorf("answer = %q, want latest selection", view.UserAnswers[0])
	}
}

func TestRequestHintOverwrite(t *testing.T) {
	client := &fakeClient{responses: []string{quizText(1), "  first hint  ", "second hint"}}
	s := activeSession(t, client)

	hint, err := s.RequestHint(context.Background(), 0)
	if err != nil {
		t.Fatalf("RequestHint failed: %v", err)
	}
	if hint != "first hint" {
		t.Errorf("hint = %q, want trimmed %q", hint, "first hint")
	}

	hint, err = s.RequestHint(context.Background(), 0)
	if err != nil {
		t.Fatalf("second RequestHint failed: %v", err)
	}
	if hint != "second hint" {
		t.Errorf("hint = %q", hint)
	}

	view := s.Snapshot()
	if view.Hints[0] != "second hint" {
		t.Errorf("stored hint = %q, want the most recent", view.Hints[0])
	}

	// One generation call plus two hint calls.
	if len(client.prompts) != 3 {
		t.Errorf("completion calls = %d, want 3", len(client.prompts))
	}
}

func TestRequestHintFailureKeepsPreviousHint(t *testing.T) {
	client := &fakeClient{responses: []string{quizText(1), "a hint"}}
	s := activeSession(t, client)

	if _, err := s.RequestHint(context.Background(), 0); err != nil {
		t.Fatalf("RequestHint failed: %v", err)
	}

	client.err = errors.New("timeout")
	if _, err := s.RequestHint(context.Background(), 0); err == nil {
		t.Fatal("expected error from failed hint call")
	}

	if view := s.Snapshot(); view.Hints[0] != "a hint" {
		t.Errorf("stored hint = %q, want the earlier hint preserved", view.Hints[0])
	}
}

func TestRequestHintPromptContainsQuestion(t *testing.T) {
	client := &fakeClient{responses: []string{quizText(1), "hint"}}
	s := activeSession(t, client)

	if _, err := s.RequestHint(context.Background(), 0); err != nil {
		t.Fatal(err)
	}

	prompt := client.prompts[len(client.prompts)-1]
	if !strings.Contains(prompt, "Q1. What is 2+2?") {
		t.Errorf("hint prompt missing question text: %q", prompt)
	}
	if !strings.Contains(prompt, "a) 3") || !strings.Contains(prompt, "d) 6") {
		t.Errorf("hint prompt missing options: %q", prompt)
	}
	if !strings.Contains(prompt, "without revealing the answer") {
		t.Errorf("hint prompt missing no-spoiler instruction: %q", prompt)
	}
}

func TestSubmitGuards(t *testing.T) {
	s := NewSession(&fakeClient{})
	if _, err := s.Submit(); !errors.Is(err, ErrNoActiveQuiz) {
		t.Errorf("submit in setup = %v, want ErrNoActiveQuiz", err)
	}

	s = activeSession(t, &fakeClient{responses: []string{quizText(1)}})
	if _, err := s.Submit(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Submit(); !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("double submit = %v, want ErrAlreadySubmitted", err)
	}
}

func TestResetReturnsToInitialState(t *testing.T) {
	client := &fakeClient{responses: []string{quizText(2), "hint"}}
	s := activeSession(t, client)

	if err := s.SelectOption(0, "b) 4"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.RequestHint(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Submit(); err != nil {
		t.Fatal(err)
	}

	s.Reset()

	if s.Phase() != PhaseSetup {
		t.Fatalf("phase after reset = %v, want setup", s.Phase())
	}
	view := s.Snapshot()
	if len(view.Questions) != 0 || len(view.UserAnswers) != 0 || len(view.Hints) != 0 {
		t.Error("reset must clear questions, answers, and hints")
	}
	if view.Topic != "" || view.Difficulty != "" {
		t.Error("reset must clear topic and difficulty")
	}

	// Idempotent under repeated resets.
	s.Reset()
	if s.Phase() != PhaseSetup {
		t.Error("repeated reset must stay in setup")
	}
}

func TestReportOnlyAfterSubmit(t *testing.T) {
	s := activeSession(t, &fakeClient{responses: []string{quizText(1)}})
	if _, err := s.Report(); !errors.Is(err, ErrNotSubmitted) {
		t.Errorf("report before submit = %v, want ErrNotSubmitted", err)
	}

	want, err := s.Submit()
	if err != nil {
		t.Fatal(err)
	}
	got, err := s.Report()
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if got.Score != want.Score || got.Total != want.Total {
		t.Errorf("report mismatch: %d/%d vs %d/%d", got.Score, got.Total, want.Score, want.Total)
	}
}

func TestSessionStore(t *testing.T) {
	store := NewSessionStore(&fakeClient{})

	id1, s1 := store.Create()
	id2, s2 := store.Create()

	if id1 == id2 {
		t.Fatal("session IDs must be unique")
	}
	if s1 == s2 {
		t.Fatal("sessions must not alias")
	}

	if store.Get(id1) != s1 {
		t.Error("Get must return the created session")
	}
	if store.Get("nope") != nil {
		t.Error("unknown ID must return nil")
	}

	gotID, got := store.GetOrCreate(id1)
	if gotID != id1 || got != s1 {
		t.Error("GetOrCreate must reuse a known ID")
	}

	gotID, got = store.GetOrCreate("")
	if gotID == id1 || gotID == id2 || got == nil {
		t.Error("GetOrCreate with empty ID must create a fresh session")
	}

	if store.Len() != 3 {
		t.Errorf("store length = %d, want 3", store.Len())
	}

	store.Delete(id1)
	if store.Get(id1) != nil {
		t.Error("deleted session must be gone")
	}
}
