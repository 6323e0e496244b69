// Package rooms owns the fixed set of monitored rooms and their mutable
// state: status, attached media reference, last alert, and the client-local
// selection pointer.
//
// Status transitions are one-directional by policy: once a room escalates to
// warning or alert it stays there until an operator acts outside this core.
// ApplyAlertStatus is the only path into the warning/alert states for live
// alerts; ApplyBatchStatus records the outcome of a processed video batch.
package rooms
