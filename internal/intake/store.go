package intake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "loan-advisor/internal/common/errors"
	"loan-advisor/internal/models"
)

// SessionStore keeps conversation sessions for the lifetime of a chat.
// Get returns a SESSION_NOT_FOUND error for unknown or expired ids.
// Update runs fn against the latest stored copy and persists the result
// atomically, so concurrent turns on one session never overwrite each other.
type SessionStore interface {
	Get(ctx context.Context, id string) (*models.Session, error)
	Save(ctx context.Context, session *models.Session) error
	Update(ctx context.Context, id string, fn func(*models.Session) error) (*models.Session, error)
	Delete(ctx context.Context, id string) error
}

// maxUpdateAttempts bounds optimistic retries when another writer wins the race.
const maxUpdateAttempts = 10

// RedisStore keeps sessions as JSON under prefix+id with a sliding TTL.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

func (s *RedisStore) Get(ctx context.Context, id string) (*models.Session, error) {
	raw, err := s.client.Get(ctx, s.key(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, apperrors.NewSessionNotFoundError(id)
	}
	if err != nil {
		return nil, apperrors.NewSessionStoreFailedError("get", err)
	}

	var session models.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, apperrors.NewSessionStoreFailedError("decode", err)
	}
	return &session, nil
}

func (s *RedisStore) Save(ctx context.Context, session *models.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return apperrors.NewSessionStoreFailedError("encode", err)
	}
	if err := s.client.Set(ctx, s.key(session.ID), data, s.ttl).Err(); err != nil {
		return apperrors.NewSessionStoreFailedError("set", err)
	}
	return nil
}

// Update reads, mutates and writes the session under WATCH, retrying when
// the key changes between the read and the write.
func (s *RedisStore) Update(ctx context.Context, id string, fn func(*models.Session) error) (*models.Session, error) {
	key := s.key(id)
	var updated *models.Session

	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			return apperrors.NewSessionNotFoundError(id)
		}
		if err != nil {
			return apperrors.NewSessionStoreFailedError("get", err)
		}

		var session models.Session
		if err := json.Unmarshal([]byte(raw), &session); err != nil {
			return apperrors.NewSessionStoreFailedError("decode", err)
		}
		if err := fn(&session); err != nil {
			return err
		}

		data, err := json.Marshal(&session)
		if err != nil {
			return apperrors.NewSessionStoreFailedError("encode", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		updated = &session
		return nil
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			var stdErr *apperrors.StandardError
			if errors.As(err, &stdErr) {
				return nil, err
			}
			return nil, apperrors.NewSessionStoreFailedError("update", err)
		}
		return updated, nil
	}
	return nil, apperrors.NewSessionStoreFailedError("update",
		fmt.Errorf("session %s changed concurrently %d times", id, maxUpdateAttempts))
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return apperrors.NewSessionStoreFailedError("del", err)
	}
	return nil
}

// MemoryStore is an in-process SessionStore for tests and single-node runs.
// Expired entries are dropped on read and swept on write at most once per ttl.
type MemoryStore struct {
	mu        sync.RWMutex
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
	sessions  map[string]memoryEntry
}

type memoryEntry struct {
	session   models.Session
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// NewMemoryStore creates a store; a zero ttl keeps sessions forever.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*models.Session, error) {
	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, apperrors.NewSessionNotFoundError(id)
	}
	if entry.expired(s.now()) {
		s.mu.Lock()
		if current, ok := s.sessions[id]; ok && current.expired(s.now()) {
			delete(s.sessions, id)
		}
		s.mu.Unlock()
		return nil, apperrors.NewSessionNotFoundError(id)
	}
	session := entry.session
	return &session, nil
}

func (s *MemoryStore) Save(_ context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.put(*session)
	s.sweepLocked()
	return nil
}

// Update holds the write lock across read, fn and write.
func (s *MemoryStore) Update(_ context.Context, id string, fn func(*models.Session) error) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[id]
	if !ok || entry.expired(s.now()) {
		delete(s.sessions, id)
		return nil, apperrors.NewSessionNotFoundError(id)
	}

	session := entry.session
	if err := fn(&session); err != nil {
		return nil, err
	}
	s.put(session)

	out := session
	return &out, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

// Len reports how many entries are held, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *MemoryStore) put(session models.Session) {
	entry := memoryEntry{session: session}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}
	s.sessions[session.ID] = entry
}

func (s *MemoryStore) sweepLocked() {
	if s.ttl <= 0 {
		return
	}
	now := s.now()
	if now.Sub(s.lastSweep) < s.ttl {
		return
	}
	s.lastSweep = now
	for id, entry := range s.sessions {
		if entry.expired(now) {
			delete(s.sessions, id)
		}
	}
}
