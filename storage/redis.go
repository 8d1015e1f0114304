package storage

import (
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

var Redis *redis.Client

func InitializeRedis(addr string) *redis.Client {
	Redis = redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})

	log.Info().Str("addr", addr).Msg("redis initialized")
	return Redis
}
