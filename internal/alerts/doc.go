// Package alerts defines the alert model shared by the push-channel client,
// the aggregator, and the analysis backend clients.
//
// An Alert is immutable once decoded. Timestamps carry one of two
// representations: a video-relative offset in seconds (JSON number) or an
// absolute instant (JSON string); the distinction is preserved through
// decode/encode so display code can format each correctly.
package alerts
