// Package orders composes tenant- and date-filtered dashboard statistics
// across the two order types: point-of-sale orders and domain-reseller
// orders. Both aggregations run concurrently under one shared predicate;
// each type reports against its own fixed status vocabulary.
package orders
