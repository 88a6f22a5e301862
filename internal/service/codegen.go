package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk/internal/persistence"
)

// CodeGenerator produces unique human-facing ticket codes.
type CodeGenerator interface {
	Next(ctx context.Context) (string, error)
}

// RedisCodeGenerator issues date-sequenced codes (HD-20060102-0001) from a
// per-day Redis counter. When Redis is unreachable it falls back to a
// random uuid-derived code so ticket creation never depends on Redis.
type RedisCodeGenerator struct {
	redis *persistence.Redis
}

// NewRedisCodeGenerator wraps the redis client.
func NewRedisCodeGenerator(redis *persistence.Redis) *RedisCodeGenerator {
	return &RedisCodeGenerator{redis: redis}
}

// Next returns the next ticket code.
func (g *RedisCodeGenerator) Next(ctx context.Context) (string, error) {
	day := time.Now().UTC().Format("20060102")
	seq, err := g.redis.Incr(ctx, "helpdesk:ticket:seq:"+day)
	if err != nil {
		return randomTicketCode(), nil
	}
	return fmt.Sprintf("HD-%s-%04d", day, seq), nil
}

func randomTicketCode() string {
	return "HD-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
