// Package writer implements the batch archiver for raw feed frames.
//
// The FrameWriter consumes frames handed off by the relay and inserts
// them into the feed_frames table (TimescaleDB) in batches. Enqueueing
// never blocks: when the inbound buffer is full the frame is dropped
// and counted, so a slow database can never stall the broadcast path.
//
// Writes use append-only semantics (never update, only insert).
package writer
