package redis

import (
	"context"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/baechuer/useradmin/internal/domain"
)

// SessionRevoker invalidates refresh tokens issued by the auth service.
// Tokens carry the user's generation (rtver:<uid>) and stop validating once it moves.
type SessionRevoker struct {
	rdb         *goredis.Client
	rtverPrefix string
}

func NewSessionRevoker(c *Client) *SessionRevoker {
	var rdb *goredis.Client
	if c != nil {
		rdb = c.rdb
	}
	return &SessionRevoker{
		rdb:         rdb,
		rtverPrefix: "rtver:",
	}
}

// RevokeAll bumps the user's generation and returns the new value.
func (s *SessionRevoker) RevokeAll(ctx context.Context, userID string) (int64, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, domain.ErrMissingField("user_id")
	}
	if s.rdb == nil {
		return 0, domain.ErrRedisUnavailable(nil)
	}
	ver, err := s.rdb.Incr(ctx, s.rtverPrefix+userID).Result()
	if err != nil {
		return 0, domain.ErrRedisUnavailable(err)
	}
	return ver, nil
}
