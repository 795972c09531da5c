package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/rubricai-api/internal/models"
)

// EvaluationCache remembers evaluations for identical submissions.
type EvaluationCache interface {
	Get(ctx context.Context, model, pseudocode string) (models.Evaluation, bool, error)
	Set(ctx context.Context, model, pseudocode string, evaluation models.Evaluation) error
}

type redisEvaluationCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisEvaluationCache stores evaluations in Redis for ttl.
func NewRedisEvaluationCache(client *redis.Client, ttl time.Duration) EvaluationCache {
	return &redisEvaluationCache{client: client, ttl: ttl}
}

func (c *redisEvaluationCache) Get(ctx context.Context, model, pseudocode string) (models.Evaluation, bool, error) {
	value, err := c.client.Get(ctx, evaluationCacheKey(model, pseudocode)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return models.Evaluation(value), true, nil
}

func (c *redisEvaluationCache) Set(ctx context.Context, model, pseudocode string, evaluation models.Evaluation) error {
	return c.client.Set(ctx, evaluationCacheKey(model, pseudocode), []byte(evaluation), c.ttl).Err()
}

func evaluationCacheKey(model, pseudocode string) string {
	sum := sha256.Sum256([]byte(pseudocode))
	return fmt.Sprintf("rubricai:evaluation:%s:%s", model, hex.EncodeToString(sum[:]))
}
