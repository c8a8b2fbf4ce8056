package promo

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Ledger records the promo code applied to a checkout session. Re-applying
// the same code is idempotent (a re-render never double-discounts); applying
// a different code replaces the previous one, never stacks.
type Ledger interface {
	Apply(ctx context.Context, sessionID, code string) error
	Applied(ctx context.Context, sessionID string) (string, bool, error)
	Clear(ctx context.Context, sessionID string) error
}

// MemoryLedger is the in-process fallback used when Redis is not configured,
// and the default in tests.
type MemoryLedger struct {
	mu      sync.RWMutex
	applied map[string]string
}

// NewMemoryLedger constructs an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{applied: make(map[string]string)}
}

// Apply records the code for the session, replacing any previous code.
func (l *MemoryLedger) Apply(_ context.Context, sessionID, code string) error {
	l.mu.Lock()
	l.applied[sessionID] = normalize(code)
	l.mu.Unlock()
	return nil
}

// Applied returns the code currently applied to the session, if any.
func (l *MemoryLedger) Applied(_ context.Context, sessionID string) (string, bool, error) {
	l.mu.RLock()
	code, ok := l.applied[sessionID]
	l.mu.RUnlock()
	return code, ok, nil
}

// Clear removes the session's applied code.
func (l *MemoryLedger) Clear(_ context.Context, sessionID string) error {
	l.mu.Lock()
	delete(l.applied, sessionID)
	l.mu.Unlock()
	return nil
}

// RedisLedger shares the applied-code state across instances, expiring with
// the checkout session.
type RedisLedger struct {
	Client *redis.Client
	TTL    time.Duration
	Prefix string
}

func (l RedisLedger) key(sessionID string) string {
	prefix := l.Prefix
	if prefix == "" {
		prefix = "promo:session:"
	}
	return prefix + sessionID
}

func (l RedisLedger) ttl() time.Duration {
	if l.TTL <= 0 {
		return 2 * time.Hour
	}
	return l.TTL
}

// Apply records the code for the session, replacing any previous code.
func (l RedisLedger) Apply(ctx context.Context, sessionID, code string) error {
	return l.Client.Set(ctx, l.key(sessionID), normalize(code), l.ttl()).Err()
}

// Applied returns the code currently applied to the session, if any.
func (l RedisLedger) Applied(ctx context.Context, sessionID string) (string, bool, error) {
	val, err := l.Client.Get(ctx, l.key(sessionID)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		return "", false, err
	}
	val = strings.TrimSpace(val)
	if val == "" {
		return "", false, nil
	}
	return val, true, nil
}

// Clear removes the session's applied code.
func (l RedisLedger) Clear(ctx context.Context, sessionID string) error {
	return l.Client.Del(ctx, l.key(sessionID)).Err()
}
