// Package aggregate owns the ordered alert log and its derived statistics.
//
// Ingest applies three effects as one unit: the log prepend, the counter
// bump, and the target room's status update. Snapshots taken at any point
// observe either none or all of them, and the invariant
// total == len(log) == sum(per-type counts) holds at every instant.
package aggregate
