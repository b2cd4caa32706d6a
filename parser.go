package quizcraft

import "strings"

// questionBlockLines is the size of one question block after the header line:
// four option lines plus one answer line.
const questionBlockLines = 5

// ParseQuiz converts raw completion text into questions. The scan is linear:
// any line starting with "Q" begins a block, and the next five lines are
// consumed as four options plus an answer line regardless of content. Lines
// outside blocks are skipped silently, and no question count is enforced.
//
// A header with fewer than five lines remaining is a ParseError; the questions
// parsed before it are discarded with the batch.
func ParseQuiz(raw string) ([]Question, error) {
	lines := strings.Split(strings.TrimSpace(raw), "\n")

	var questions []Question
	i := 0
	for i < len(lines) {
		if !strings.HasPrefix(lines[i], "Q") {
			i++
			continue
		}

		if i+questionBlockLines >= len(lines) {
			return nil, &ParseError{Line: i + 1, Reason: "truncated question block"}
		}

		q := Question{
			Text:    lines[i],
			Options: []string{lines[i+1], lines[i+2], lines[i+3], lines[i+4]},
			Answer:  extractAnswer(lines[i+5]),
		}
		questions = append(questions, q)
		i += questionBlockLines + 1
	}

	return questions, nil
}

// extractAnswer takes the text after the last colon of the answer line,
// trimmed. No further normalization: scoring decides whether the result is a
// usable letter.
func extractAnswer(line string) string {
	parts := strings.Split(line, ":")
	return strings.TrimSpace(parts[len(parts)-1])
}
