package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/patrickprogramme/subtrad/pkg/model"
)

// RedisOptions décrit la connexion et le préfixe des clés.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

// Redis stocke les catalogues en JSON, avec expiration côté serveur.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// ConnectRedis ouvre la connexion et la vérifie par un PING.
func ConnectRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis %s: %w", opts.Addr, err)
	}
	return &Redis{client: client, prefix: opts.Prefix, ttl: opts.TTL}, nil
}

func (r *Redis) key(videoID string) string {
	return r.prefix + videoID
}

func (r *Redis) Get(ctx context.Context, videoID string) (*model.Catalog, bool, error) {
	data, err := r.client.Get(ctx, r.key(videoID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", videoID, err)
	}

	var cat model.Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		// entrée illisible : on la traite comme absente, elle sera réécrite
		return nil, false, nil
	}
	return &cat, true, nil
}

func (r *Redis) Set(ctx context.Context, videoID string, cat *model.Catalog) error {
	data, err := json.Marshal(cat)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog to JSON: %w", err)
	}
	if err := r.client.Set(ctx, r.key(videoID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", videoID, err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
