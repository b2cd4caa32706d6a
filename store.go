package quizcraft

import (
	"math/rand"
	"sync"
)

// SessionStore manages live sessions keyed by an opaque session ID. The web
// front end keeps only the ID in its cookie; all quiz state stays server-side
// in this store.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	client   CompletionClient
}

// NewSessionStore creates an empty store whose sessions share one completion
// client.
func NewSessionStore(client CompletionClient) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		client:   client,
	}
}

// Create makes a fresh session and returns its ID.
func (ss *SessionStore) Create() (string, *Session) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	id := randomID(16)
	for ss.sessions[id] != nil {
		id = randomID(16)
	}

	session := NewSession(ss.client)
	ss.sessions[id] = session
	return id, session
}

// Get returns the session for an ID, or nil if the ID is unknown.
func (ss *SessionStore) Get(id string) *Session {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return ss.sessions[id]
}

// GetOrCreate returns the session for an ID, creating a fresh one under a new
// ID when the given ID is empty or unknown. The returned ID is always valid.
func (ss *SessionStore) GetOrCreate(id string) (string, *Session) {
	if id != "" {
		if session := ss.Get(id); session != nil {
			return id, session
		}
	}
	return ss.Create()
}

// Delete removes a session from the store.
func (ss *SessionStore) Delete(id string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.sessions, id)
}

// Len returns the number of live sessions.
func (ss *SessionStore) Len() int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return len(ss.sessions)
}

func randomID(n int) string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, n)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
