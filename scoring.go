package quizcraft

import "strings"

// UnknownAnswer is the sentinel correct-option text used when a question's
// answer letter does not resolve to one of its options.
const UnknownAnswer = "Unknown"

// NotAnswered is the display value for a question the user never answered.
const NotAnswered = "Not answered"

// AnswerIndex validates a raw parsed answer and returns its 0-based option
// index. Only a single lowercase letter a-d is valid; anything else (empty,
// uppercase, multi-character spillover from the answer line) is rejected.
func AnswerIndex(answer string) (int, bool) {
	if len(answer) != 1 {
		return 0, false
	}
	c := answer[0]
	if c < 'a' || c > 'd' {
		return 0, false
	}
	return int(c - 'a'), true
}

// ScoreQuiz compares user selections against each question's indicated answer.
// Selections are matched by exact option text, not by letter, so a selection
// only counts when it equals options[answerIndex] byte for byte. Questions
// whose answer letter is invalid, or points past the options list, score as
// UnknownAnswer and can never be correct.
//
// The reported total is the actual question count, so a short parse yields a
// denominator matching what the user was shown.
func ScoreQuiz(questions []Question, userAnswers []string) ScoreReport {
	report := ScoreReport{
		Total:   len(questions),
		Results: make([]ResultRow, 0, len(questions)),
	}

	for i, q := range questions {
		correctOption := UnknownAnswer
		idx, valid := AnswerIndex(q.Answer)
		if valid && idx < len(q.Options) {
			correctOption = q.Options[idx]
		} else {
			valid = false
		}

		var userAnswer string
		if i < len(userAnswers) {
			userAnswer = userAnswers[i]
		}

		correct := valid && userAnswer != "" && userAnswer == correctOption
		if correct {
			report.Score++
		}

		display := userAnswer
		if display == "" {
			display = NotAnswered
		}

		report.Results = append(report.Results, ResultRow{
			Number:        i + 1,
			Question:      stripQuestionMarker(q.Text),
			UserAnswer:    display,
			CorrectAnswer: correctOption,
			Correct:       correct,
		})
	}

	return report
}

// stripQuestionMarker removes the leading "Qn." marker from a question stem
// for display. Text without the marker is returned unchanged.
func stripQuestionMarker(text string) string {
	if !strings.HasPrefix(text, "Q") {
		return text
	}
	rest := text[1:]
	j := 0
	for j < len(rest) && rest[j] >= '0' && rest[j] <= '9' {
		j++
	}
	if j == 0 || j >= len(rest) || rest[j] != '.' {
		return text
	}
	return strings.TrimSpace(rest[j+1:])
}
