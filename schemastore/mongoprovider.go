// Package schemastore implements collector.TableColumnResolver and
// transform.SchemaProvider against a MongoDB-backed metadata collection,
// an alternative to an in-memory map for installations large enough that
// schema metadata doesn't fit in a caller's process. One document per
// table: {table, columns: [...], uniqueKeys: [[...], ...]}.
package schemastore

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sqlrefine/sqlrefine/collector"
	"github.com/sqlrefine/sqlrefine/internal/obs"
)

type tableDoc struct {
	Table      string     `bson:"table"`
	Columns    []string   `bson:"columns"`
	UniqueKeys [][]string `bson:"uniqueKeys"`
}

// MongoProvider answers schema questions for the unused-LEFT-JOIN pruner
// (transform.SchemaProvider) and the selectable-column collector's
// upstream wildcard expansion (collector.TableColumnResolver) from a
// Mongo collection, mirroring a simple Client.mongoFind query shape
// (bson.M filter, cursor-free single-document lookup per call).
type MongoProvider struct {
	coll *mongo.Collection
	ctx  context.Context

	mu    sync.RWMutex
	cache map[string]tableDoc
}

// NewMongoProvider wraps an existing collection. ctx is used for every
// lookup; pass context.Background() for a provider with no per-call
// deadline, or build a fresh provider per request if the host process
// wants per-request cancellation.
func NewMongoProvider(coll *mongo.Collection, ctx context.Context) *MongoProvider {
	return &MongoProvider{coll: coll, ctx: ctx, cache: map[string]tableDoc{}}
}

// Columns implements collector.TableColumnResolver's shape (as a method;
// see Resolver for the function-typed adapter) and transform.SchemaProvider.
func (p *MongoProvider) Columns(table string) []string {
	doc, ok := p.fetch(table)
	if !ok {
		return nil
	}
	return doc.Columns
}

// UniqueKeys implements transform.SchemaProvider.
func (p *MongoProvider) UniqueKeys(table string) [][]string {
	doc, ok := p.fetch(table)
	if !ok {
		return nil
	}
	return doc.UniqueKeys
}

// Resolver adapts Columns to collector.TableColumnResolver's function
// type, for passing into collector.Options.Resolver.
func (p *MongoProvider) Resolver() collector.TableColumnResolver {
	return p.Columns
}

// Invalidate drops a table's cached document, e.g. after the caller knows
// its schema collection changed out from under a long-lived provider.
func (p *MongoProvider) Invalidate(table string) {
	p.mu.Lock()
	delete(p.cache, lower(table))
	p.mu.Unlock()
}

func (p *MongoProvider) fetch(table string) (tableDoc, bool) {
	key := lower(table)

	p.mu.RLock()
	doc, ok := p.cache[key]
	p.mu.RUnlock()
	if ok {
		return doc, true
	}

	var out tableDoc
	err := p.coll.FindOne(p.ctx, bson.M{"table": table}).Decode(&out)
	if err != nil {
		if err != mongo.ErrNoDocuments {
			obs.L().Errorw("schemastore: mongo lookup failed", "table", table, "error", err)
		}
		return tableDoc{}, false
	}

	p.mu.Lock()
	p.cache[key] = out
	p.mu.Unlock()
	return out, true
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 32
		}
	}
	return string(b)
}
