// Package wardcheck runs the two-image occupancy comparison workflow and
// retains the most recent report for display.
//
// Concurrent checks are allowed; when runs overlap, the report of the run
// that completes last wins.
package wardcheck
