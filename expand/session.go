package expand

import (
	"github.com/google/uuid"

	"zen/matcher"
)

// Session is mutable state of a single editing context: numbering of tab
// stops continues between expansions and the matcher remembers the last
// match. Sessions are owned by callers and must not be shared between
// goroutines.
type Session struct {
	ID      uuid.UUID
	offset  int
	matcher matcher.Matcher
}

func NewSession() *Session {
	return &Session{ID: uuid.New()}
}

// TabStopOffset is added to tab stop numbers of the next expansion.
func (s *Session) TabStopOffset() int {
	return s.offset
}

func (s *Session) Matcher() *matcher.Matcher {
	return &s.matcher
}

// Reset forgets tab stop numbering and the last match.
func (s *Session) Reset() {
	s.offset = 0
	s.matcher.Reset()
}
