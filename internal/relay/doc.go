// Package relay fans one feed connection out to many downstream subscribers.
//
// Every event frame from the feed is delivered byte-for-byte to every open
// session. Client control frames are interpreted, not trusted: subscribe
// requests pass through verbatim, auth requests are replaced with the relay's
// own credential, and anything else is dropped. The feed link outlives the
// subscribers; the last client leaving does not tear it down.
package relay
