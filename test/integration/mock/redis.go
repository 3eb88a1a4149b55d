package mock

import (
	"context"
	"sync"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var redisOnce sync.Once
var redisClient *redis.Client

// NewRedis starts an embedded Redis server on first call and returns a
// client bound to it. Refresh tokens and cached exchange rates live here for
// the duration of the suite.
func NewRedis() *redis.Client {
	redisOnce.Do(func() {
		server, err := miniredis.Run()
		if err != nil {
			panic(err)
		}
		redisClient = redis.NewClient(&redis.Options{
			Addr: server.Addr(),
		})
	})
	return redisClient
}

// ClearRedis drops all keys, including live refresh tokens and cached rates.
func ClearRedis(client *redis.Client) error {
	return client.FlushAll(context.Background()).Err()
}
