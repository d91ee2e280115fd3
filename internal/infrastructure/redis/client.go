package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/baechuer/useradmin/internal/domain"
)

// maxIOTimeout bounds dial, read and write when the caller has no tighter deadline.
const maxIOTimeout = 2 * time.Second

type Options struct {
	Addr     string
	Password string
	DB       int
}

type Client struct {
	rdb *goredis.Client
}

// New builds a client for one run. Its socket timeouts never exceed what is
// left of ctx, and a failed command is retried at most once.
func New(ctx context.Context, o Options) *Client {
	t := ioTimeout(ctx, time.Now())
	return &Client{
		rdb: goredis.NewClient(&goredis.Options{
			Addr:         o.Addr,
			Password:     o.Password,
			DB:           o.DB,
			DialTimeout:  t,
			ReadTimeout:  t,
			WriteTimeout: t,
			MaxRetries:   1,
		}),
	}
}

func ioTimeout(ctx context.Context, now time.Time) time.Duration {
	dl, ok := ctx.Deadline()
	if !ok {
		return maxIOTimeout
	}
	// an expired deadline is left to ctx itself
	if left := dl.Sub(now); left > 0 && left < maxIOTimeout {
		return left
	}
	return maxIOTimeout
}

// Ping checks the server is reachable before any write is attempted.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return domain.ErrRedisUnavailable(err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
