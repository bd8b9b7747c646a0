package database

import (
	"context"
	"os"
	"strconv"

	"esport-accounts/logger"

	"github.com/redis/go-redis/v9"
)

// InitRedis connects to the redis instance backing the token denylist, the
// reset grants and the OTP cooldown bookkeeping.
func InitRedis() (*redis.Client, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logger.Error("Failed to connect to redis", err)
		return nil, err
	}
	logger.Success("Successfully connected to redis")
	return rdb, nil
}
