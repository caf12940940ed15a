package session

import (
	"context"
	"sync"
	"time"

	"main/domain/entity"
	metrics "main/internal/metrics"
	"main/internal/storage"

	"github.com/google/uuid"
)

// SessionRepo is an in-memory session store: a primary map keyed by session
// id plus a token index for O(1) bearer-token lookup. Both maps are mutated
// under one lock to keep them mutually consistent.
type SessionRepo struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]entity.Session
	byToken map[string]uuid.UUID
	Metrics *metrics.Metrics
}

func NewSessionRepo(metrics *metrics.Metrics) *SessionRepo {
	return &SessionRepo{
		byID:    make(map[uuid.UUID]entity.Session),
		byToken: make(map[string]uuid.UUID),
		Metrics: metrics,
	}
}

// Create assigns a fresh id and creation timestamp, then inserts the session
// into the primary and token indexes.
func (r *SessionRepo) Create(ctx context.Context, session entity.Session) (_ entity.Session, err error) {
	defer func(start time.Time) {
		r.Metrics.ObserveRepo("insert_session", start, err)
	}(time.Now())

	session.ID = uuid.New()
	session.CreatedAt = time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[session.ID] = session
	r.byToken[session.Token] = session.ID
	r.Metrics.ActiveSessions.Inc()
	return session, nil
}

func (r *SessionRepo) FindByID(ctx context.Context, id uuid.UUID) (_ entity.Session, err error) {
	defer func(start time.Time) {
		r.Metrics.ObserveRepo("select_session_by_id", start, err)
	}(time.Now())

	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.byID[id]
	if !ok {
		err = storage.ErrSessionNotFound
		return entity.Session{}, err
	}
	return session, nil
}

func (r *SessionRepo) FindByToken(ctx context.Context, token string) (_ entity.Session, err error) {
	defer func(start time.Time) {
		r.Metrics.ObserveRepo("select_session_by_token", start, err)
	}(time.Now())

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byToken[token]
	if !ok {
		err = storage.ErrSessionNotFound
		return entity.Session{}, err
	}
	return r.byID[id], nil
}

// Delete removes the session from both indexes. Deleting an id that does not
// exist is a no-op, not an error.
func (r *SessionRepo) Delete(ctx context.Context, id uuid.UUID) (err error) {
	defer func(start time.Time) {
		r.Metrics.ObserveRepo("delete_session", start, err)
	}(time.Now())

	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.byID[id]
	if !ok {
		return nil
	}
	delete(r.byToken, session.Token)
	delete(r.byID, id)
	r.Metrics.ActiveSessions.Dec()
	return nil
}

// FindByUserID scans all sessions for the given user. Linear in the number
// of resident sessions; fine at this scale.
func (r *SessionRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (_ []entity.Session, err error) {
	defer func(start time.Time) {
		r.Metrics.ObserveRepo("select_sessions_by_user", start, err)
	}(time.Now())

	r.mu.RLock()
	defer r.mu.RUnlock()

	var sessions []entity.Session
	for _, s := range r.byID {
		if s.UserID == userID {
			sessions = append(sessions, s)
		}
	}
	return sessions, nil
}
