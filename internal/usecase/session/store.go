// Package session keeps per-conversation memory: a bounded window of
// question/answer pairs rendered into prompts and exposed over the API.
package session

import (
	"fmt"
	"strings"
	"sync"
)

// Turn is one completed question/answer exchange.
type Turn struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

const defaultWindow = 5

// Store holds conversation windows in memory, keyed by session
// identifier. Sessions are independent: appending to one never touches
// another. Safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	window   int
	sessions map[string][]Turn
}

// NewStore creates a store keeping the most recent window pairs per
// session. Non-positive window falls back to the default.
func NewStore(window int) *Store {
	if window <= 0 {
		window = defaultWindow
	}
	return &Store{
		window:   window,
		sessions: make(map[string][]Turn),
	}
}

// Append records one exchange, evicting the oldest pair once the window
// is full.
func (s *Store) Append(sessionID, question, answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := append(s.sessions[sessionID], Turn{Question: question, Answer: answer})
	if len(turns) > s.window {
		turns = turns[len(turns)-s.window:]
	}
	s.sessions[sessionID] = turns
}

// History returns a copy of the session's window, oldest first. Unknown
// sessions yield an empty slice.
func (s *Store) History(sessionID string) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Turn(nil), s.sessions[sessionID]...)
}

// Render formats up to maxTurns of the most recent exchanges for prompt
// inclusion, oldest first. Returns "" when the session has no history.
func (s *Store) Render(sessionID string, maxTurns int) string {
	s.mu.Lock()
	turns := s.sessions[sessionID]
	if maxTurns > 0 && len(turns) > maxTurns {
		turns = turns[len(turns)-maxTurns:]
	}
	turns = append([]Turn(nil), turns...)
	s.mu.Unlock()

	if len(turns) == 0 {
		return ""
	}

	var b strings.Builder
	for i, t := range turns {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "Human: %s\nAssistant: %s", t.Question, t.Answer)
	}
	return b.String()
}

// Clear drops a session's history.
func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}
