package quizcraft

// Question is a single parsed multiple choice question. Text keeps the model's
// leading "Qn." marker; Options keep their "a) ..." prefixes exactly as the
// model wrote them. Answer is the raw text after the last colon of the answer
// line: a single letter a-d when the model followed the format, anything
// otherwise.
type Question struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Answer  string   `json:"answer"`
}

// Difficulty levels offered to the user.
const (
	DifficultyBeginner     = "Beginner"
	DifficultyIntermediate = "Intermediate"
	DifficultyAdvanced     = "Advanced"
)

// Difficulties lists the selectable difficulty levels in display order.
var Difficulties = []string{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}

// QuestionsPerQuiz is the number of questions the generation prompt asks for.
// The parser accepts whatever the model actually returns.
const QuestionsPerQuiz = 10

// ResultRow is the per-question scoring breakdown shown after submission.
type ResultRow struct {
	Number        int    `json:"number"`
	Question      string `json:"question"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	Correct       bool   `json:"correct"`
}

// ScoreReport is the outcome of scoring one submitted quiz.
type ScoreReport struct {
	Score   int         `json:"score"`
	Total   int         `json:"total"`
	Results []ResultRow `json:"results"`
}
