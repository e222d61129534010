package store

import (
	crand "crypto/rand"
	"math/big"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/Tydestiny/Incan-Gold/internal/game"
)

const (
	// RoomCodeLength is the number of characters in a room code
	RoomCodeLength = 6

	// RoomCodeChars excludes easily confused characters
	RoomCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// GenerateRoomCode creates a random room code
func GenerateRoomCode() string {
	code := make([]byte, RoomCodeLength)
	for i := range RoomCodeLength {
		n, err := crand.Int(crand.Reader, big.NewInt(int64(len(RoomCodeChars))))
		if err != nil {
			// fallback to math/rand if crypto fails
			code[i] = RoomCodeChars[rand.IntN(len(RoomCodeChars))]
			continue
		}
		code[i] = RoomCodeChars[n.Int64()]
	}
	return string(code)
}

// SessionStore manages the live sessions, keyed by room code
type SessionStore struct {
	sessions map[string]*game.Session
	mu       sync.RWMutex
	gen      func() string
}

// NewSessionStore creates a new session store
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*game.Session),
		gen:      GenerateRoomCode,
	}
}

// Create picks an unused room code and stores the session built for it
func (s *SessionStore) Create(build func(code string) *game.Session) *game.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		code := s.gen()
		if _, exists := s.sessions[code]; exists {
			continue
		}
		sess := build(code)
		s.sessions[code] = sess
		return sess
	}
}

// Get retrieves a session by code
func (s *SessionStore) Get(code string) (*game.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, exists := s.sessions[code]
	return sess, exists
}

// Delete removes a session
func (s *SessionStore) Delete(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, code)
}

// DeleteIfEmpty removes the session when its roster is empty and reports
// whether it did
func (s *SessionStore) DeleteIfEmpty(code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, exists := s.sessions[code]
	if !exists || sess.PlayerCount() > 0 {
		return false
	}
	delete(s.sessions, code)
	return true
}

// Exists checks if a room code is in use
func (s *SessionStore) Exists(code string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.sessions[code]
	return exists
}

// Codes lists the live room codes in sorted order
func (s *SessionStore) Codes() []string {
	s.mu.RLock()
	codes := make([]string, 0, len(s.sessions))
	for code := range s.sessions {
		codes = append(codes, code)
	}
	s.mu.RUnlock()
	slices.Sort(codes)
	return codes
}

// Len returns the number of live sessions
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
