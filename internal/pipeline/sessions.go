package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hongye-zhang/public-texteditor/internal/llm"
)

// Session holds the chat history of one editing conversation.
type Session struct {
	mu sync.Mutex

	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time

	messages []llm.Message
}

// Append records one chat turn.
func (s *Session) Append(role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, llm.Message{Role: role, Content: content})
	s.UpdatedAt = time.Now()
}

// History returns a copy of the recorded turns, most recent last.
func (s *Session) History() []llm.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]llm.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// SessionStore is a thread-safe in-memory session registry with TTL
// eviction. Sessions are conversation-scoped scratch state, not
// persistence; an evicted session simply starts a fresh history.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// GetOrCreate returns the session with the given ID, creating it if needed.
// An empty ID creates a session under a fresh UUID.
func (s *SessionStore) GetOrCreate(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		id = uuid.NewString()
	}
	if sess, ok := s.sessions[id]; ok {
		return sess
	}
	now := time.Now()
	sess := &Session{ID: id, CreatedAt: now, UpdatedAt: now}
	s.sessions[id] = sess
	return sess
}

// Get returns a session by ID, or nil.
func (s *SessionStore) Get(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[id]
}

// Cleanup removes sessions idle longer than the TTL.
func (s *SessionStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := now.Sub(sess.UpdatedAt)
		sess.mu.Unlock()
		if idle > s.ttl {
			delete(s.sessions, id)
		}
	}
}

// Start launches the background eviction loop.
func (s *SessionStore) Start(ctx context.Context) {
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				s.Cleanup()
			}
		}
	}()
}

// Stop shuts down the eviction loop.
func (s *SessionStore) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}
