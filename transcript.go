package quizcraft

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Transcript logs every prompt/response pair of one session to a file, plus
// the final score. Logging is best effort: a transcript failure never fails
// the action that triggered it.
type Transcript struct {
	file *os.File
	mu   sync.Mutex
}

// NewTranscript creates a transcript file under dir, named after the session
// ID.
func NewTranscript(dir, sessionID string) (*Transcript, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create transcript directory: %w", err)
	}

	filename := filepath.Join(dir, fmt.Sprintf("%s.log", sessionID))
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create transcript file: %w", err)
	}

	t := &Transcript{file: file}
	t.logf("=== Quiz Session Transcript ===\n")
	t.logf("Session ID: %s\n", sessionID)
	t.logf("Started: %s\n", time.Now().Format(time.RFC3339))
	t.logf("===============================\n\n")
	return t, nil
}

func (t *Transcript) logf(format string, args ...interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()

	timestamp := time.Now().Format("15:04:05.000")
	fmt.Fprintf(t.file, "[%s] %s", timestamp, fmt.Sprintf(format, args...))
	t.file.Sync()
}

// LogRequest records an outbound prompt.
func (t *Transcript) LogRequest(action, prompt string) {
	t.logf("=== REQUEST (%s) ===\n%s\n====================\n\n", action, prompt)
}

// LogResponse records a completion response.
func (t *Transcript) LogResponse(action, response string) {
	t.logf("=== RESPONSE (%s) ===\n%s\n=====================\n\n", action, response)
}

// LogScore records the final score at submission.
func (t *Transcript) LogScore(score, total int) {
	t.logf("Submitted: scored %d / %d\n", score, total)
}

// Close finalizes and closes the transcript file.
func (t *Transcript) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.file == nil {
		return nil
	}
	timestamp := time.Now().Format("15:04:05.000")
	fmt.Fprintf(t.file, "[%s] Session closed: %s\n", timestamp, time.Now().Format(time.RFC3339))
	err := t.file.Close()
	t.file = nil
	return err
}
