// Package protocol owns the host wire contract.
//
// Ownership boundary:
// - frame primitives (subpackage frame)
// - request/response message shapes
// - request and edit validation entry points
//
// One request frame is read per process; one response frame is written.
package protocol
