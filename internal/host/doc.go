// Package host owns the native messaging process lifecycle.
//
// Ownership boundary:
// - read one request frame from stdin
// - hand the decoded request to an Applier
// - write exactly one response frame to stdout and flush it
// - convert parse errors, frame errors and panics into failure responses
// - exit cleanly on SIGINT/SIGTERM without splitting a frame
//
// Nothing but the response frame is ever written to the output stream.
package host
