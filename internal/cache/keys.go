package cache

import (
	"context"
	"strconv"
	"time"
)

// Entity is a read-through cache namespace for rows looked up by id.
type Entity struct {
	prefix string
	TTL    time.Duration
}

// Cached entities. A post entry embeds its likes and replies, so every
// write to either must invalidate it.
var (
	Users      = Entity{prefix: "user", TTL: 5 * time.Minute}
	Posts      = Entity{prefix: "post", TTL: 30 * time.Minute}
	MatchPosts = Entity{prefix: "matchpost", TTL: 30 * time.Minute}
)

// Key returns the Redis key for id, e.g. "post:42".
func (e Entity) Key(id uint) string {
	return e.prefix + ":" + strconv.FormatUint(uint64(id), 10)
}

// Load fills dest from the cache or, on a miss, from fetch.
func (e Entity) Load(ctx context.Context, id uint, dest any, fetch func() error) error {
	return Aside(ctx, e.Key(id), dest, e.TTL, fetch)
}

// Invalidate drops the entries for ids.
func (e Entity) Invalidate(ctx context.Context, ids ...uint) {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, e.Key(id))
	}
	Invalidate(ctx, keys...)
}

// Invalidate deletes keys in one round trip. Failures only cost a stale
// read until the TTL runs out.
func Invalidate(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	_ = client.Del(ctx, keys...).Err()
}
