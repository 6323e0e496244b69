// Package analysis implements the HTTP client for the remote analysis
// backend: video upload and processing, ward image comparison, and the
// health probe.
//
// Responses share one envelope shape: {success: bool, ..., error?: string}.
// A non-2xx status maps to the transport-fault sentinel for the operation;
// a 2xx response with success=false maps to the rejected sentinel, carrying
// the server's error message.
package analysis
