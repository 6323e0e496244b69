// Package stream implements the push-channel client for live activity
// alerts.
//
// The client owns the full connection lifecycle: connect, receive, error,
// disconnect, reconnect after a fixed delay. It retries indefinitely for
// the lifetime of the subscription; errors are transient states of the same
// loop, never terminal. A malformed message fails that message only - it is
// dropped and logged while the connection keeps receiving. Stopping the
// subscription cancels any armed reconnect timer and guarantees no further
// callbacks fire.
package stream
