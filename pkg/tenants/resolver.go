// Package tenants resolves tenant identity attributes for report composers.
//
// # Overview
//
// Composers frequently need a display name for a batch of tenant IDs, for
// example when labeling the top-traffic leaderboard. NameResolver answers
// those lookups from a small in-process LRU and falls back to a single
// batched query against the tenants table for the misses.
//
// # Related Packages
//
//   - pkg/pageviews: labels the top-tenants leaderboard via this resolver
//   - pkg/storage/postgres: connection management for the backing database
package tenants

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lib/pq"
)

// defaultCacheSize bounds the in-process name cache
const defaultCacheSize = 4096

// NameResolver resolves tenant display names with an LRU front cache
type NameResolver struct {
	db    *sql.DB
	cache *lru.Cache[string, string]
}

// NewNameResolver creates a resolver backed by the given database. A
// non-positive cacheSize falls back to the default.
func NewNameResolver(db *sql.DB, cacheSize int) (*NameResolver, error) {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	cache, err := lru.New[string, string](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create tenant name cache: %w", err)
	}
	return &NameResolver{db: db, cache: cache}, nil
}

// ResolveNames returns a display name for each requested tenant ID. IDs with
// no matching tenant row are mapped to the ID itself so callers always get a
// printable label.
func (r *NameResolver) ResolveNames(ctx context.Context, tenantIDs []string) (map[string]string, error) {
	names := make(map[string]string, len(tenantIDs))

	var misses []string
	for _, id := range tenantIDs {
		if name, ok := r.cache.Get(id); ok {
			names[id] = name
			continue
		}
		misses = append(misses, id)
	}

	if len(misses) > 0 {
		resolved, err := r.queryNames(ctx, misses)
		if err != nil {
			return nil, err
		}
		for id, name := range resolved {
			r.cache.Add(id, name)
			names[id] = name
		}
	}

	// Unknown IDs degrade to the raw identifier rather than an empty label
	for _, id := range tenantIDs {
		if _, ok := names[id]; !ok {
			names[id] = id
		}
	}

	return names, nil
}

// queryNames fetches display names for the given IDs in one batched query
func (r *NameResolver) queryNames(ctx context.Context, tenantIDs []string) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name FROM tenants WHERE id = ANY($1)",
		pq.Array(tenantIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query tenant names: %w", err)
	}
	defer rows.Close()

	names := make(map[string]string, len(tenantIDs))
	for rows.Next() {
		var id string
		var name sql.NullString
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan tenant name: %w", err)
		}
		if name.Valid && strings.TrimSpace(name.String) != "" {
			names[id] = name.String
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tenant names: %w", err)
	}

	return names, nil
}
