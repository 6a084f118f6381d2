// Package config loads application configuration from SITEFORGE_* environment
// variables with validated defaults: HTTP server, PostgreSQL primary and
// replicas, Redis, the platform KPI cache, and observability settings.
package config
