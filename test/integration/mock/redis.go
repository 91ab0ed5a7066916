package mock

import (
	"context"
	"sync"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var redisOnce sync.Once
var redisConn *Redis

// Redis is a miniredis server plus a client connected to it.
type Redis struct {
	Server *miniredis.Miniredis
	Client *redis.Client
}

// NewRedis starts the shared miniredis once per test binary.
func NewRedis() *Redis {
	redisOnce.Do(func() {
		server, err := miniredis.Run()
		if err != nil {
			panic(err)
		}
		redisConn = &Redis{
			Server: server,
			Client: redis.NewClient(&redis.Options{Addr: server.Addr()}),
		}
	})
	return redisConn
}

// Clear drops every key.
func (r *Redis) Clear() error {
	return r.Client.FlushAll(context.TODO()).Err()
}

// FastForward expires keys as if d had passed.
func (r *Redis) FastForward(d time.Duration) {
	r.Server.FastForward(d)
}
