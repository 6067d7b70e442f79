// Package session manages downstream WebSocket subscribers.
//
// A Session wraps one client connection: a buffered send channel drained by a
// write pump, keepalive pings, and an idempotent close. Send never blocks;
// when a client cannot keep up its buffer fills and frames are dropped for
// that client only. The Registry tracks live sessions for fan-out.
package session
