// Package console wires the monitoring session together: the push-channel
// client feeding the alert aggregator and room registry, escalation
// notifications, and the single-instance lock.
//
// Live alerts are attributed to the room selected at the moment of receipt.
// The session enforces one running console per log directory via a lock
// file.
package console
