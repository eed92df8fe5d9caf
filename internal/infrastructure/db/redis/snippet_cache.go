package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/snipbox/snippet-api/internal/core/domain"
)

const defaultSnippetTTL = 5 * time.Minute

// SnippetCache is a read-through cache of bare snippets.
// Key format: snippet:<id>
//
// Redis failures behave like misses and are only logged at debug level.
//
// Entries are written with SET NX so a fill never replaces an existing entry.
// A reader that loaded the row before a concurrent update can still fill the
// key after the update invalidated it; that stale entry lives at most one ttl.
type SnippetCache struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewSnippetCache wraps client. A non-positive ttl falls back to five minutes.
func NewSnippetCache(client *redis.Client, ttl time.Duration, log zerolog.Logger) *SnippetCache {
	if ttl <= 0 {
		ttl = defaultSnippetTTL
	}
	return &SnippetCache{client: client, ttl: ttl, log: log}
}

func (c *SnippetCache) Get(ctx context.Context, id int64) (*domain.Snippet, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, snippetKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Debug().Err(err).Int64("snippet_id", id).Msg("snippet cache read failed")
		}
		return nil, false
	}

	var s domain.Snippet
	if err := json.Unmarshal(raw, &s); err != nil {
		c.log.Debug().Err(err).Int64("snippet_id", id).Msg("snippet cache entry corrupt")
		return nil, false
	}
	return &s, true
}

// Set stores the snippet without its author unless the key is already filled.
func (c *SnippetCache) Set(ctx context.Context, s *domain.Snippet) {
	if c == nil || c.client == nil || s == nil {
		return
	}

	bare := *s
	bare.Author = nil
	raw, err := json.Marshal(bare)
	if err != nil {
		return
	}
	if err := c.client.SetNX(ctx, snippetKey(s.ID), raw, c.ttl).Err(); err != nil {
		c.log.Debug().Err(err).Int64("snippet_id", s.ID).Msg("snippet cache write failed")
	}
}

func (c *SnippetCache) Invalidate(ctx context.Context, ids ...int64) {
	if c == nil || c.client == nil || len(ids) == 0 {
		return
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = snippetKey(id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn().Err(err).Int("keys", len(keys)).Msg("snippet cache invalidation failed")
	}
}

func snippetKey(id int64) string {
	return fmt.Sprintf("snippet:%d", id)
}
