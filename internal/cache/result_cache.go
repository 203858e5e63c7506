package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SAP-F-2025/challenge-service/internal/models"
	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

// ResultCache keeps resolved session results for a limited time, indexed by
// session and by test.
type ResultCache interface {
	Set(ctx context.Context, result models.SessionResult) error
	Get(ctx context.Context, sessionID string) (*models.SessionResult, error)
	ListByTest(ctx context.Context, testID string) ([]models.SessionResult, error)
	Delete(ctx context.Context, sessionID string) error
}

type resultCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewResultCache(client *redis.Client, ttl time.Duration) ResultCache {
	return &resultCache{
		client: client,
		ttl:    ttl,
	}
}

func resultKey(sessionID string) string {
	return "result:" + sessionID
}

func testResultsKey(testID string) string {
	return fmt.Sprintf("test:%s:results", testID)
}

func (c *resultCache) Set(ctx context.Context, result models.SessionResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, resultKey(result.SessionID), data, c.ttl)
		if result.TestID != "" {
			pipe.SAdd(ctx, testResultsKey(result.TestID), result.SessionID)
			pipe.Expire(ctx, testResultsKey(result.TestID), c.ttl)
		}
		return nil
	})
	return err
}

func (c *resultCache) Get(ctx context.Context, sessionID string) (*models.SessionResult, error) {
	data, err := c.client.Get(ctx, resultKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var result models.SessionResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListByTest returns the results still cached for a test. Index entries whose
// result already expired are skipped.
func (c *resultCache) ListByTest(ctx context.Context, testID string) ([]models.SessionResult, error) {
	ids, err := c.client.SMembers(ctx, testResultsKey(testID)).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.SessionResult{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = resultKey(id)
	}
	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	results := make([]models.SessionResult, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var result models.SessionResult
		if err := json.Unmarshal([]byte(s), &result); err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

func (c *resultCache) Delete(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, resultKey(sessionID)).Err()
}
