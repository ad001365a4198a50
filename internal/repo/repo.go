package repo

import (
	"context"

	"go.uber.org/zap"
)

type Repository struct {
	log    *zap.Logger
	client *RedisClient

	Revocations *RevocationRepository
}

func NewRepository(log *zap.Logger, redisAddr string) *Repository {
	log = log.Named("repo")
	client := newRedisClient(redisAddr, 0, log)

	return &Repository{
		log,
		client,
		newRevocationRepository(log, client),
	}
}

// Ping reports whether Redis is reachable.
func (r *Repository) Ping(ctx context.Context) error { return r.client.Ping(ctx) }

func (r *Repository) Close() error { return r.client.Close() }
