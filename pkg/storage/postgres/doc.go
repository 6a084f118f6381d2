// Package postgres provides PostgreSQL and Redis connectivity for the
// analytics subsystem: a primary/replica connection manager, the schema
// bootstrap for every aggregation source, and the Redis client backing the
// platform KPI cache.
//
// Composers are pure readers and run against Replica(); the page-view
// recorder is the only writer and uses Primary().
package postgres
