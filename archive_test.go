package quizcraft

import "testing"

func testArchive(t *testing.T) *Archive {
	t.Helper()
	archive, err := OpenArchive(":memory:")
	if err != nil {
		t.Fatalf("OpenArchive failed: %v", err)
	}
	t.Cleanup(func() { archive.Close() })
	return archive
}

func TestArchiveSaveAndGetAttempt(t *testing.T) {
	archive := testArchive(t)

	view := View{
		Topic:      "Math",
		Difficulty: DifficultyBeginner,
		Questions: []Question{
			{Text: "Q1. What is 2+2?", Options: []string{"a) 3", "b) 4", "c) 5", "d) 6"}, Answer: "b"},
			{Text: "Q2. What is 3+3?", Options: []string{"a) 5", "b) 7", "c) 6", "d) 9"}, Answer: "c"},
		},
	}
	report := ScoreQuiz(view.Questions, []string{"b) 4", "a) 5"})

	id, err := archive.SaveAttempt(view, report)
	if err != nil {
		t.Fatalf("SaveAttempt failed: %v", err)
	}

	attempt, questions, err := archive.GetAttempt(id)
	if err != nil {
		t.Fatalf("GetAttempt failed: %v", err)
	}

	if attempt.Topic != "Math" || attempt.Difficulty != DifficultyBeginner {
		t.Errorf("attempt = %+v", attempt)
	}
	if attempt.Score != 1 || attempt.Total != 2 {
		t.Errorf("score = %d/%d, want 1/2", attempt.Score, attempt.Total)
	}
	if len(questions) != 2 {
		t.Fatalf("questions = %d, want 2", len(questions))
	}

	first := questions[0]
	if first.QuestionNum != 1 || !first.Correct {
		t.Errorf("first question = %+v", first)
	}
	options, err := JSONToOptions(first.Options)
	if err != nil {
		t.Fatal(err)
	}
	if len(options) != 4 || options[1] != "b) 4" {
		t.Errorf("options round trip = %v", options)
	}

	second := questions[1]
	if second.Correct {
		t.Error("second question scored correct, want incorrect")
	}
	if second.UserAnswer != "a) 5" {
		t.Errorf("second user answer = %q", second.UserAnswer)
	}
}

func TestArchiveGetAttemptsOrderAndLimit(t *testing.T) {
	archive := testArchive(t)

	view := View{Topic: "History", Difficulty: DifficultyAdvanced}
	for i := 0; i < 3; i++ {
		if _, err := archive.SaveAttempt(view, ScoreReport{}); err != nil {
			t.Fatal(err)
		}
	}

	attempts, err := archive.GetAttempts(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(attempts) != 3 {
		t.Errorf("attempts = %d, want 3", len(attempts))
	}

	limited, err := archive.GetAttempts(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 {
		t.Errorf("limited attempts = %d, want 2", len(limited))
	}
}

func TestArchiveGetAttemptNotFound(t *testing.T) {
	archive := testArchive(t)
	if _, _, err := archive.GetAttempt("missing"); err == nil {
		t.Fatal("expected error for unknown attempt ID")
	}
}
