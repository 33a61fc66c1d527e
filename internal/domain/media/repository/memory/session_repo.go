// Package memory contains in-memory repository implementations
package memory

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/Conte777/tubedrop/internal/domain/media/deps"
	"github.com/Conte777/tubedrop/internal/domain/media/entities"
)

type sessionRepository struct {
	data   map[entities.SessionKey]entities.Session
	mu     sync.RWMutex
	logger zerolog.Logger
}

// NewSessionRepository creates a volatile session store
func NewSessionRepository(logger zerolog.Logger) deps.SessionRepository {
	return &sessionRepository{
		data:   make(map[entities.SessionKey]entities.Session),
		logger: logger.With().Str("component", "session_repository").Logger(),
	}
}

// SetURL replaces the pending URL, last write wins.
// The previous prompt is unbound so its buttons read as stale.
func (r *sessionRepository) SetURL(key entities.SessionKey, url string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, replaced := r.data[key]
	sess.PendingURL = url
	sess.Revision++
	sess.PromptMessageID = 0
	r.data[key] = sess

	r.logger.Debug().
		Int64("chat_id", key.ChatID).
		Int64("user_id", key.UserID).
		Uint64("revision", sess.Revision).
		Bool("replaced", replaced).
		Msg("Pending URL stored")

	return sess.Revision
}

// Get returns a copy of the session
func (r *sessionRepository) Get(key entities.SessionKey) (entities.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sess, ok := r.data[key]
	return sess, ok
}

// BindPrompt binds messageID to revision if revision is still current
func (r *sessionRepository) BindPrompt(key entities.SessionKey, messageID int, revision uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.data[key]
	if !ok || sess.Revision != revision {
		r.logger.Debug().
			Int64("chat_id", key.ChatID).
			Int("message_id", messageID).
			Uint64("revision", revision).
			Msg("Prompt not bound, URL replaced meanwhile")
		return
	}

	sess.PromptMessageID = messageID
	r.data[key] = sess
}

// Count returns the number of sessions
func (r *sessionRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.data)
}
