package user

import (
	"context"
	"sync"
	"time"

	"main/domain/entity"
	metrics "main/internal/metrics"
	"main/internal/storage"

	"github.com/google/uuid"
)

// UserRepo is an in-memory user store. Users are held in a primary map keyed
// by id with a secondary index keyed by email; both maps are only ever
// mutated inside the same critical section so readers never observe one
// index updated and the other not.
type UserRepo struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]entity.User
	byEmail map[string]uuid.UUID
	Metrics *metrics.Metrics
}

func NewUserRepo(metrics *metrics.Metrics) *UserRepo {
	return &UserRepo{
		byID:    make(map[uuid.UUID]entity.User),
		byEmail: make(map[string]uuid.UUID),
		Metrics: metrics,
	}
}

// Create inserts the user into both indexes. The email check and the insert
// run under one lock, so two concurrent Create calls with the same email
// cannot both succeed; the loser gets storage.ErrEmailTaken.
func (r *UserRepo) Create(ctx context.Context, user entity.User) (_ entity.User, err error) {
	defer func(start time.Time) {
		r.Metrics.ObserveRepo("insert_user", start, err)
	}(time.Now())

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		err = storage.ErrEmailTaken
		return entity.User{}, err
	}

	r.byID[user.ID] = user
	r.byEmail[user.Email] = user.ID
	return user, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id uuid.UUID) (_ entity.User, err error) {
	defer func(start time.Time) {
		r.Metrics.ObserveRepo("select_user_by_id", start, err)
	}(time.Now())

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		err = storage.ErrUserNotFound
		return entity.User{}, err
	}
	return user, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (_ entity.User, err error) {
	defer func(start time.Time) {
		r.Metrics.ObserveRepo("select_user_by_email", start, err)
	}(time.Now())

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		err = storage.ErrUserNotFound
		return entity.User{}, err
	}
	return r.byID[id], nil
}

// Update fully replaces the stored record. When the email changed, the old
// email key is dropped and the new one added in the same critical section;
// a changed email may not collide with another user's.
func (r *UserRepo) Update(ctx context.Context, user entity.User) (_ entity.User, err error) {
	defer func(start time.Time) {
		r.Metrics.ObserveRepo("update_user", start, err)
	}(time.Now())

	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.byID[user.ID]
	if !ok {
		err = storage.ErrUserNotFound
		return entity.User{}, err
	}

	if prev.Email != user.Email {
		if owner, exists := r.byEmail[user.Email]; exists && owner != user.ID {
			err = storage.ErrEmailTaken
			return entity.User{}, err
		}
		delete(r.byEmail, prev.Email)
		r.byEmail[user.Email] = user.ID
	}

	r.byID[user.ID] = user
	return user, nil
}
