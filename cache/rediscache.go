// Package cache implements an optional, non-core memoizing parse cache:
// a caller that repeatedly parses the same templated SQL text (a service
// re-running a handful of report queries, say) can sit a RedisParseCache
// in front of parser.Parse instead of calling it directly.
//
// The cache never hands out a shared AST: two callers that hit the same
// key each get a tree built fresh by parser.ParseTokens, which keeps
// every caller's tree independently owned while still skipping the
// tokenizer pass on a hit. That is the part of parsing a repeated
// templated query actually wastes work on; the recursive-descent walk
// itself is cheap by comparison and runs every time regardless.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sqlrefine/sqlrefine/ast"
	"github.com/sqlrefine/sqlrefine/internal/obs"
	"github.com/sqlrefine/sqlrefine/lexer"
	"github.com/sqlrefine/sqlrefine/parser"
)

// RedisParseCache wraps a *redis.Client: a thin struct over the
// connection plus the namespacing this package needs.
type RedisParseCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisParseCache builds a cache over an existing Redis connection.
// ttl of zero means entries never expire (Redis default).
func NewRedisParseCache(rdb *redis.Client, ttl time.Duration) *RedisParseCache {
	return &RedisParseCache{rdb: rdb, ttl: ttl, prefix: "sqlrefine:tokens:"}
}

// Parse returns the AST for sql, tokenizing via Redis-cached lexemes when
// available. Any Redis error (miss aside) is logged and treated as a
// cache miss rather than propagated — a caller's parse should never fail
// because the cache is unreachable.
func (c *RedisParseCache) Parse(ctx context.Context, sql string) (ast.Node, error) {
	toks, err := c.tokens(ctx, sql)
	if err != nil {
		return nil, err
	}
	return parser.ParseTokens(toks)
}

func (c *RedisParseCache) tokens(ctx context.Context, sql string) ([]lexer.Token, error) {
	key := c.key(sql)

	if raw, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var toks []lexer.Token
		if jsonErr := json.Unmarshal(raw, &toks); jsonErr == nil {
			return toks, nil
		}
		obs.L().Debugw("parse cache: corrupt entry, reparsing", "key", key)
	} else if err != redis.Nil {
		obs.L().Debugw("parse cache: redis get failed, falling back to tokenize", "error", err)
	}

	toks, err := lexer.Tokenize(sql)
	if err != nil {
		return nil, err
	}
	if raw, jsonErr := json.Marshal(toks); jsonErr == nil {
		if setErr := c.rdb.Set(ctx, key, raw, c.ttl).Err(); setErr != nil {
			obs.L().Debugw("parse cache: redis set failed", "error", setErr)
		}
	}
	return toks, nil
}

func (c *RedisParseCache) key(sql string) string {
	sum := sha256.Sum256([]byte(sql))
	return c.prefix + hex.EncodeToString(sum[:])
}

// Invalidate removes a cached token stream for sql, e.g. after a caller
// learns its template text changed upstream.
func (c *RedisParseCache) Invalidate(ctx context.Context, sql string) error {
	return c.rdb.Del(ctx, c.key(sql)).Err()
}
