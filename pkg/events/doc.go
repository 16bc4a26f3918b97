// Package events provides the small hot-stream toolkit used by form bindings:
// multicast subjects, read-time merging, and idempotent subscriptions.
// Handlers run synchronously on the emitting goroutine, in subscription order.
package events
