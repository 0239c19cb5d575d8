package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"healthmon-backend/internal/domain/entity"

	"github.com/redis/go-redis/v9"
)

// SessionStore keeps registration conversations keyed by chat id. Saving a
// session refreshes its inactivity expiry.
type SessionStore interface {
	Get(ctx context.Context, chatID int64) (*entity.RegistrationSession, error)
	Save(ctx context.Context, chatID int64, session *entity.RegistrationSession) error
	Delete(ctx context.Context, chatID int64) error
}

// =============================================================================
// In-memory store
// =============================================================================

type memoryEntry struct {
	session   entity.RegistrationSession
	expiresAt time.Time
}

// MemorySessionStore guards the map itself; turns of different users never
// contend on anything else.
type MemorySessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[int64]memoryEntry
	now      func() time.Time
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		ttl:      ttl,
		sessions: make(map[int64]memoryEntry),
		now:      time.Now,
	}
}

func (s *MemorySessionStore) Get(_ context.Context, chatID int64) (*entity.RegistrationSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[chatID]
	if !ok {
		return nil, nil
	}
	if s.now().After(entry.expiresAt) {
		delete(s.sessions, chatID)
		return nil, nil
	}
	session := entry.session
	return &session, nil
}

func (s *MemorySessionStore) Save(_ context.Context, chatID int64, session *entity.RegistrationSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sessions[chatID] = memoryEntry{session: *session, expiresAt: now.Add(s.ttl)}

	// Sweep abandoned conversations while the lock is held anyway.
	for id, entry := range s.sessions {
		if now.After(entry.expiresAt) {
			delete(s.sessions, id)
		}
	}
	return nil
}

func (s *MemorySessionStore) Delete(_ context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, chatID)
	return nil
}

// Len reports the number of stored sessions, expired ones included.
func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// =============================================================================
// Redis store
// =============================================================================

const RedisSessionKeyPrefix = "registration:session:"

type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func (s *RedisSessionStore) key(chatID int64) string {
	return fmt.Sprintf("%s%d", RedisSessionKeyPrefix, chatID)
}

func (s *RedisSessionStore) Get(ctx context.Context, chatID int64) (*entity.RegistrationSession, error) {
	raw, err := s.client.Get(ctx, s.key(chatID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session %d: %w", chatID, err)
	}

	var session entity.RegistrationSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("decode session %d: %w", chatID, err)
	}
	return &session, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, chatID int64, session *entity.RegistrationSession) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session %d: %w", chatID, err)
	}
	if err := s.client.Set(ctx, s.key(chatID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session %d: %w", chatID, err)
	}
	return nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, chatID int64) error {
	if err := s.client.Del(ctx, s.key(chatID)).Err(); err != nil {
		return fmt.Errorf("delete session %d: %w", chatID, err)
	}
	return nil
}
