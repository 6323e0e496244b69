// Package services defines the shared failure taxonomy for remote workflow
// calls.
//
// Every workflow failure is either a transport fault (the request never
// reached a server decision) or an application fault (the server explicitly
// declined). The two are always distinguished so callers can report
// infrastructure problems separately from content problems, and each error
// carries the most specific message available.
package services
