package redisad

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"bling_travel/internal/adapters/observability"
	"bling_travel/internal/domain"
)

const checkpointPrefix = "chat:sess:"

// Checkpoints stores full conversation snapshots keyed by session id.
type Checkpoints struct {
	c   *redis.Client
	ttl time.Duration
}

func New(addr, pass string, db int, ttl time.Duration) *Checkpoints {
	return &Checkpoints{
		c:   redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
		ttl: ttl,
	}
}

// NewWithClient is used by tests to plug in a miniredis-backed client.
func NewWithClient(c *redis.Client, ttl time.Duration) *Checkpoints {
	return &Checkpoints{c: c, ttl: ttl}
}

func (s *Checkpoints) Load(ctx context.Context, sessionID string) (*domain.Conversation, bool, error) {
	v, err := s.c.Get(ctx, checkpointPrefix+sessionID).Bytes()
	if err == redis.Nil {
		observability.ObserveCheckpoint("miss")
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load checkpoint %s: %w", sessionID, err)
	}
	var conv domain.Conversation
	if err := json.Unmarshal(v, &conv); err != nil {
		return nil, false, fmt.Errorf("decode checkpoint %s: %w", sessionID, err)
	}
	observability.ObserveCheckpoint("load")
	return &conv, true, nil
}

func (s *Checkpoints) Save(ctx context.Context, conv *domain.Conversation) error {
	conv.UpdatedAt = time.Now().UTC()
	b, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("encode checkpoint %s: %w", conv.SessionID, err)
	}
	observability.ObserveCheckpoint("save")
	return s.c.Set(ctx, checkpointPrefix+conv.SessionID, b, s.ttl).Err()
}
