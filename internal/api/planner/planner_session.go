package planner

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/roamerhq/roamer/internal/types"
)

// SessionStore keeps planner sessions in memory with a TTL. Sessions are
// deliberately not persisted; a restart starts every conversation fresh.
type SessionStore struct {
	sessions *cache.Cache
}

func NewSessionStore(ttl, cleanupInterval time.Duration) *SessionStore {
	return &SessionStore{
		sessions: cache.New(ttl, cleanupInterval),
	}
}

// Create initializes and stores a new empty session.
func (s *SessionStore) Create() *types.PlannerSession {
	now := time.Now()
	session := &types.PlannerSession{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.sessions.SetDefault(session.ID.String(), session)
	return session
}

func (s *SessionStore) Get(sessionID uuid.UUID) (*types.PlannerSession, error) {
	v, found := s.sessions.Get(sessionID.String())
	if !found {
		return nil, types.ErrSessionNotFound
	}
	return v.(*types.PlannerSession), nil
}

// Save writes the session back, refreshing its TTL.
func (s *SessionStore) Save(session *types.PlannerSession) {
	session.UpdatedAt = time.Now()
	s.sessions.SetDefault(session.ID.String(), session)
}

func (s *SessionStore) Delete(sessionID uuid.UUID) {
	s.sessions.Delete(sessionID.String())
}
