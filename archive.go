package quizcraft

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Archive persists completed quiz attempts to sqlite. Live session state never
// touches the database; an attempt is written once, at submission.
type Archive struct {
	db *sql.DB
}

// ArchivedAttempt is one completed quiz as stored in the database.
type ArchivedAttempt struct {
	ID         string    `json:"id"`
	Topic      string    `json:"topic"`
	Difficulty string    `json:"difficulty"`
	Score      int       `json:"score"`
	Total      int       `json:"total"`
	CreatedAt  time.Time `json:"created_at"`
}

// ArchivedQuestion is one scored question within an archived attempt.
type ArchivedQuestion struct {
	AttemptID     string `json:"attempt_id"`
	QuestionNum   int    `json:"question_num"`
	Text          string `json:"text"`
	Options       string `json:"options"` // JSON array of strings
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	Correct       bool   `json:"correct"`
}

// OpenArchive opens (or creates) the archive database at dbPath.
func OpenArchive(dbPath string) (*Archive, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	a := &Archive{db: db}
	if err := a.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return a, nil
}

// Close closes the archive database.
func (a *Archive) Close() error {
	return a.db.Close()
}

func (a *Archive) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS attempts (
			id TEXT PRIMARY KEY,
			topic TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			score INTEGER NOT NULL,
			total INTEGER NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS attempt_questions (
			attempt_id TEXT NOT NULL,
			question_num INTEGER NOT NULL,
			text TEXT NOT NULL,
			options TEXT NOT NULL,
			user_answer TEXT,
			correct_answer TEXT NOT NULL,
			correct INTEGER NOT NULL,
			PRIMARY KEY (attempt_id, question_num),
			FOREIGN KEY (attempt_id) REFERENCES attempts(id)
		)`,
	}

	for _, query := range queries {
		if _, err := a.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute %s: %w", query, err)
		}
	}
	return nil
}

// SaveAttempt records a submitted session and its score. Returns the new
// attempt ID.
func (a *Archive) SaveAttempt(view View, report ScoreReport) (string, error) {
	id := randomID(12)

	_, err := a.db.Exec(
		"INSERT INTO attempts (id, topic, difficulty, score, total, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		id, view.Topic, view.Difficulty, report.Score, report.Total, time.Now(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to save attempt: %w", err)
	}

	for i, row := range report.Results {
		options := "[]"
		if i < len(view.Questions) {
			options, err = OptionsToJSON(view.Questions[i].Options)
			if err != nil {
				return "", err
			}
		}

		_, err = a.db.Exec(
			"INSERT INTO attempt_questions (attempt_id, question_num, text, options, user_answer, correct_answer, correct) VALUES (?, ?, ?, ?, ?, ?, ?)",
			id, row.Number, row.Question, options, row.UserAnswer, row.CorrectAnswer, row.Correct,
		)
		if err != nil {
			return "", fmt.Errorf("failed to save question %d: %w", row.Number, err)
		}
	}

	return id, nil
}

// GetAttempts retrieves archived attempts, newest first, optionally limited.
func (a *Archive) GetAttempts(limit int) ([]ArchivedAttempt, error) {
	query := "SELECT id, topic, difficulty, score, total, created_at FROM attempts ORDER BY created_at DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := a.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to get attempts: %w", err)
	}
	defer rows.Close()

	var attempts []ArchivedAttempt
	for rows.Next() {
		var at ArchivedAttempt
		if err := rows.Scan(&at.ID, &at.Topic, &at.Difficulty, &at.Score, &at.Total, &at.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		attempts = append(attempts, at)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attempts: %w", err)
	}
	return attempts, nil
}

// GetAttempt retrieves one attempt and its questions by ID.
func (a *Archive) GetAttempt(id string) (*ArchivedAttempt, []ArchivedQuestion, error) {
	var at ArchivedAttempt
	err := a.db.QueryRow(
		"SELECT id, topic, difficulty, score, total, created_at FROM attempts WHERE id = ?",
		id,
	).Scan(&at.ID, &at.Topic, &at.Difficulty, &at.Score, &at.Total, &at.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, fmt.Errorf("attempt not found: %s", id)
		}
		return nil, nil, fmt.Errorf("failed to get attempt: %w", err)
	}

	rows, err := a.db.Query(
		"SELECT attempt_id, question_num, text, options, user_answer, correct_answer, correct FROM attempt_questions WHERE attempt_id = ? ORDER BY question_num",
		id,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get attempt questions: %w", err)
	}
	defer rows.Close()

	var questions []ArchivedQuestion
	for rows.Next() {
		var q ArchivedQuestion
		if err := rows.Scan(&q.AttemptID, &q.QuestionNum, &q.Text, &q.Options, &q.UserAnswer, &q.CorrectAnswer, &q.Correct); err != nil {
			return nil, nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating questions: %w", err)
	}
	return &at, questions, nil
}

// OptionsToJSON converts an options slice to its JSON string form for storage.
func OptionsToJSON(options []string) (string, error) {
	data, err := json.Marshal(options)
	if err != nil {
		return "", fmt.Errorf("failed to marshal options: %w", err)
	}
	return string(data), nil
}

// JSONToOptions converts a stored JSON string back into an options slice.
func JSONToOptions(optionsJSON string) ([]string, error) {
	var options []string
	if err := json.Unmarshal([]byte(optionsJSON), &options); err != nil {
		return nil, fmt.Errorf("failed to unmarshal options: %w", err)
	}
	return options, nil
}
