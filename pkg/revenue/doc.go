// Package revenue composes the platform-wide revenue snapshot: rolling paid
// totals, monthly paid revenue over the trailing year, per-currency and
// per-status breakdowns, and the MRR/ARR approximation.
//
// The MRR month is strictly the most recently completed calendar month; the
// current partial month never contributes. ARR is MRR times twelve, a fixed
// heuristic rather than a true annualized run rate.
package revenue
