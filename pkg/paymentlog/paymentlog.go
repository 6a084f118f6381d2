// Package paymentlog provides the payment gateway transaction log consumed by
// the platform KPI composer's payments-health section.
//
// The log is a non-persistent, bounded capability fed by gateway callbacks.
// Time-ranged, status-filtered queries run inside the provider so composers
// never replay the whole log in memory.
package paymentlog

import (
	"context"
	"sync"
	"time"
)

// Entry statuses recorded by payment gateways
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusPending = "pending"
)

// Entry is one payment gateway transaction log record
type Entry struct {
	TransactionID string    `json:"transactionId"`
	GatewayName   string    `json:"gatewayName"`
	Status        string    `json:"status"`
	Error         string    `json:"error,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Provider is the payment-log query capability
type Provider interface {
	// Append records a gateway transaction outcome
	Append(ctx context.Context, entry Entry) error
	// RecentFailures returns up to n failed entries, newest first
	RecentFailures(ctx context.Context, n int) ([]Entry, error)
	// CountByStatusSince counts entries with the given status created at or
	// after since
	CountByStatusSince(ctx context.Context, status string, since time.Time) (int64, error)
}

// MemoryProvider is a bounded in-memory Provider. Entries beyond the capacity
// are dropped oldest-first.
type MemoryProvider struct {
	mu       sync.RWMutex
	entries  []Entry
	capacity int
}

// DefaultCapacity bounds the in-memory log when no capacity is given
const DefaultCapacity = 10000

// NewMemoryProvider creates a bounded in-memory payment log
func NewMemoryProvider(capacity int) *MemoryProvider {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryProvider{
		entries:  make([]Entry, 0),
		capacity: capacity,
	}
}

// Append records a gateway transaction outcome
func (p *MemoryProvider) Append(_ context.Context, entry Entry) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.entries = append(p.entries, entry)
	if len(p.entries) > p.capacity {
		p.entries = p.entries[len(p.entries)-p.capacity:]
	}
	return nil
}

// RecentFailures returns up to n failed entries, newest first
func (p *MemoryProvider) RecentFailures(_ context.Context, n int) ([]Entry, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	failures := make([]Entry, 0, n)
	for i := len(p.entries) - 1; i >= 0 && len(failures) < n; i-- {
		if p.entries[i].Status == StatusFailed {
			failures = append(failures, p.entries[i])
		}
	}
	return failures, nil
}

// CountByStatusSince counts entries with the given status created at or after since
func (p *MemoryProvider) CountByStatusSince(_ context.Context, status string, since time.Time) (int64, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var count int64
	for _, entry := range p.entries {
		if entry.Status == status && !entry.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}
