package service

import (
	"sync"

	"github.com/xiaoyibao/medassist/internal/domain"
)

type sessionKey struct {
	owner   string
	channel domain.Channel
}

// SessionStore keeps every conversation session in memory, keyed by owner
// and channel. Sessions are created empty on first use and live until an
// explicit clear or process restart; nothing is persisted.
//
// Front-ends handle requests concurrently, so all access goes through the
// store's mutex. Update applies a whole dispatch outcome in one critical
// section, which is what keeps request and outcome turns atomic from the
// caller's perspective.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[sessionKey]*domain.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[sessionKey]*domain.Session)}
}

func (s *SessionStore) get(owner string, channel domain.Channel) *domain.Session {
	key := sessionKey{owner: owner, channel: channel}
	sess, ok := s.sessions[key]
	if !ok {
		sess = &domain.Session{Owner: owner, Channel: channel}
		s.sessions[key] = sess
	}
	return sess
}

// Update runs fn against the session, creating it on first use.
func (s *SessionStore) Update(owner string, channel domain.Channel, fn func(*domain.Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.get(owner, channel))
}

// Snapshot returns a copy of the session's turns for rendering.
func (s *SessionStore) Snapshot(owner string, channel domain.Channel) []domain.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.get(owner, channel)
	out := make([]domain.Turn, len(sess.Turns))
	copy(out, sess.Turns)
	return out
}

// CacheName returns the document cache handle bound to the session, if any.
func (s *SessionStore) CacheName(owner string, channel domain.Channel) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(owner, channel).CacheName
}

// Artifact returns the last ingested artifact remembered on the session.
func (s *SessionStore) Artifact(owner string, channel domain.Channel) *domain.UploadedArtifact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(owner, channel).Artifact
}

// Clear resets the session to its empty state.
func (s *SessionStore) Clear(owner string, channel domain.Channel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.get(owner, channel).Clear()
}
