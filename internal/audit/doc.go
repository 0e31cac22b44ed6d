// Package audit records admin actions into an append-only activity log.
//
// A terminal middleware observes every mutating request after its handler
// has answered, derives the action, resource type and resource id from the
// route, redacts credential material from the captured request body, and
// hands the finished record to a Recorder. The Recorder persists records
// on background goroutines so request latency never includes the audit
// write; a failed write is logged and dropped, it never fails the request
// it describes.
//
// GET requests, health probes and the logout endpoint are never recorded
// here. Logout writes its own record from the handler because the session
// identity is gone by the time terminal middleware runs.
package audit
