package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	pkgerrors "github.com/angelmondragon/chatshop-backend/pkg/errors"
	"github.com/angelmondragon/chatshop-backend/pkg/redis"
)

// Store persists sessions keyed by user id. Get never returns nil: a user
// without a stored session gets a fresh idle one.
type Store interface {
	Get(ctx context.Context, userID int64) (*Session, error)
	Put(ctx context.Context, s *Session) error
	Clear(ctx context.Context, userID int64) error
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore keeps encoded sessions in process memory. Sessions are copied
// in and out so callers never share state.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[int64]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore builds an in-memory store; ttl <= 0 keeps sessions forever.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[int64]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *MemoryStore) Get(_ context.Context, userID int64) (*Session, error) {
	m.mu.Lock()
	entry, ok := m.entries[userID]
	if ok && !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		delete(m.entries, userID)
		ok = false
	}
	m.mu.Unlock()

	if !ok {
		return New(userID), nil
	}
	return decodeSession(userID, entry.data)
}

func (m *MemoryStore) Put(_ context.Context, s *Session) error {
	if s.IsEmpty() {
		return m.Clear(context.Background(), s.UserID)
	}
	data, err := encodeSession(s, m.now())
	if err != nil {
		return err
	}
	entry := memoryEntry{data: data}
	if m.ttl > 0 {
		entry.expiresAt = m.now().Add(m.ttl)
	}
	m.mu.Lock()
	m.entries[s.UserID] = entry
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear(_ context.Context, userID int64) error {
	m.mu.Lock()
	delete(m.entries, userID)
	m.mu.Unlock()
	return nil
}

// Len reports how many sessions are held.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

type keyValue interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	SessionKey(userID int64) string
}

// RedisStore keeps sessions as JSON blobs so they survive restarts and are
// shared between webhook replicas.
type RedisStore struct {
	kv  keyValue
	ttl time.Duration
	now func() time.Time
}

var _ keyValue = (*redis.Client)(nil)

func NewRedisStore(kv keyValue, ttl time.Duration) (*RedisStore, error) {
	if kv == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &RedisStore{kv: kv, ttl: ttl, now: time.Now}, nil
}

func (r *RedisStore) Get(ctx context.Context, userID int64) (*Session, error) {
	raw, err := r.kv.Get(ctx, r.kv.SessionKey(userID))
	if redis.IsNil(err) {
		return New(userID), nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
	}
	return decodeSession(userID, []byte(raw))
}

func (r *RedisStore) Put(ctx context.Context, s *Session) error {
	if s.IsEmpty() {
		return r.Clear(ctx, s.UserID)
	}
	data, err := encodeSession(s, r.now())
	if err != nil {
		return err
	}
	if err := r.kv.Set(ctx, r.kv.SessionKey(s.UserID), string(data), r.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save session")
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context, userID int64) error {
	if err := r.kv.Del(ctx, r.kv.SessionKey(userID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear session")
	}
	return nil
}

func encodeSession(s *Session, now time.Time) ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "refusing to store inconsistent session")
	}
	s.UpdatedAt = now.UTC()
	data, err := json.Marshal(s)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode session")
	}
	return data, nil
}

// decodeSession falls back to an idle session when the stored blob cannot be
// read, so a corrupted entry never wedges a user.
func decodeSession(userID int64, data []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return New(userID), nil
	}
	if err := s.Validate(); err != nil {
		return New(userID), nil
	}
	s.UserID = userID
	return &s, nil
}
