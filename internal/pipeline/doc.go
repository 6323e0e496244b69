// Package pipeline runs the two-stage video analysis workflow: upload the
// recording, then request processing of the uploaded file.
//
// The two stages are distinct failure domains. A processing failure after a
// successful upload leaves the uploaded file attached to the room but keeps
// the alert log untouched; the alert log is replaced exactly once, and only
// on full success. One run executes at a time per runner.
package pipeline
