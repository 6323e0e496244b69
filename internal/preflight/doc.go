// Package preflight provides readiness checks for the analysis backend and
// the filesystem paths wardwatch depends on.
//
// The CLI "wardwatch status" command uses these checks to display service
// health, and "wardwatch watch" runs them before opening the push channel so
// an unreachable backend surfaces immediately instead of as a reconnect
// loop.
package preflight
