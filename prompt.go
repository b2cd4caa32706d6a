package quizcraft

import (
	"fmt"
	"strings"
)

// BuildQuizPrompt formats the fixed instruction template for a ten-question
// quiz. The topic is passed through as-is; the model is told the exact line
// layout the parser expects.
func BuildQuizPrompt(topic, difficulty string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Generate a %d-question multiple choice quiz on the topic: %s.\n", QuestionsPerQuiz, topic))
	sb.WriteString(fmt.Sprintf("Make the questions suitable for a %s level learner.\n", strings.ToLower(difficulty)))
	sb.WriteString("Each question should have:\n")
	sb.WriteString("1. A clear question.\n")
	sb.WriteString("2. Four options (a, b, c, d).\n")
	sb.WriteString("3. The correct answer indicated in format: \"Answer: b\" (single line after each question).\n\n")
	sb.WriteString("Example format:\n")
	sb.WriteString("Q1. What is...?\n")
	sb.WriteString("a) ...\n")
	sb.WriteString("b) ...\n")
	sb.WriteString("c) ...\n")
	sb.WriteString("d) ...\n")
	sb.WriteString("Answer: b\n\n")
	sb.WriteString(fmt.Sprintf("Return exactly %d questions in that format.\n", QuestionsPerQuiz))

	return sb.String()
}

// BuildHintPrompt formats the per-question hint request. The question text and
// options are embedded verbatim; the model is asked not to reveal the answer.
func BuildHintPrompt(q Question) string {
	var sb strings.Builder

	sb.WriteString("Give a short, helpful hint for this question without revealing the answer:\n\n")
	sb.WriteString(q.Text)
	sb.WriteString("\n\nOptions:\n")
	sb.WriteString(strings.Join(q.Options, "\n"))

	return sb.String()
}
