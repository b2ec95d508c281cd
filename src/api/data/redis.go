package data

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/OneOfOne/xxhash"
	"github.com/redis/go-redis/v9"
)

const (
	analysisPrefix = "analysis:"
	newsPrefix     = "news:"
)

func MustRedis(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	return redis.NewClient(opt)
}

// AnalysisKey derives the cache key for an article text. Hashing keeps keys
// bounded and avoids storing raw article text in key space.
func AnalysisKey(text string) string {
	return fmt.Sprintf("%s%x", analysisPrefix, xxhash.ChecksumString64(text))
}

// CacheJSON stores v as a JSON blob with a TTL.
func CacheJSON(ctx context.Context, rdb *redis.Client, key string, v any, ttl time.Duration) error {
	blob, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, blob, ttl).Err()
}

// GetJSON loads a cached JSON blob into out; found is false on a miss.
func GetJSON(ctx context.Context, rdb *redis.Client, key string, out any) (bool, error) {
	blob, err := rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(blob, out)
}

// NewsKey is the cache key for a news topic.
func NewsKey(topic string) string {
	return newsPrefix + topic
}
