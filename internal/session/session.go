// Package session keeps the transcript each chat uploaded to the bot. The
// parsed records are computed once per upload and shared read-only by every
// command until the session expires or is reset.
package session

import (
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/edgard/chatstat/internal/transcript"
)

// Session is the transcript loaded in one chat.
type Session struct {
	ChatID    int64
	Source    string
	Records   transcript.Records
	Senders   []string
	LoadedAt  time.Time
	ExpiresAt time.Time
}

// Manager stores one session per chat. Sessions expire ttl after their last
// use. It is safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	ttl      time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates an empty Manager.
func NewManager(ttl time.Duration, logger *slog.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	m := &Manager{
		sessions: make(map[int64]*Session),
		ttl:      ttl,
		now:      time.Now,
		logger:   logger.With("component", "session"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Put stores recs as the session of chatID, replacing any previous one.
func (m *Manager) Put(chatID int64, source string, recs transcript.Records) Session {
	now := m.now()
	s := &Session{
		ChatID:    chatID,
		Source:    source,
		Records:   recs,
		Senders:   recs.Senders(),
		LoadedAt:  now,
		ExpiresAt: now.Add(m.ttl),
	}

	m.mu.Lock()
	_, replaced := m.sessions[chatID]
	m.sessions[chatID] = s
	m.mu.Unlock()

	m.logger.Info("Session stored",
		"chat_id", chatID, "source", source, "records", len(recs), "replaced", replaced)
	return *s
}

// Get returns the live session of chatID and extends its expiry.
func (m *Manager) Get(chatID int64) (Session, bool) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[chatID]
	if !ok {
		return Session{}, false
	}
	if !now.Before(s.ExpiresAt) {
		delete(m.sessions, chatID)
		return Session{}, false
	}
	s.ExpiresAt = now.Add(m.ttl)
	return *s, true
}

// Delete removes the session of chatID and reports whether one existed.
func (m *Manager) Delete(chatID int64) bool {
	m.mu.Lock()
	_, ok := m.sessions[chatID]
	delete(m.sessions, chatID)
	m.mu.Unlock()

	if ok {
		m.logger.Info("Session deleted", "chat_id", chatID)
	}
	return ok
}

// EvictExpired drops every expired session and returns how many were removed.
func (m *Manager) EvictExpired() int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for id, s := range m.sessions {
		if !now.Before(s.ExpiresAt) {
			delete(m.sessions, id)
			evicted++
		}
	}
	return evicted
}

// Len returns the number of stored sessions, expired ones included.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
