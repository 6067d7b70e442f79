package writer

import (
	"time"
)

// WriterConfig contains configuration for the frame writer.
type WriterConfig struct {
	// BatchSize is the number of rows to accumulate before flushing.
	BatchSize int

	// FlushInterval is the maximum time between flushes.
	FlushInterval time.Duration

	// BufferSize is the capacity of the inbound frame channel.
	BufferSize int
}

// DefaultWriterConfig returns sensible defaults.
func DefaultWriterConfig() WriterConfig {
	return WriterConfig{
		BatchSize:     1000,
		FlushInterval: 1 * time.Second,
		BufferSize:    10000,
	}
}

// frameRow represents a row to be inserted into the feed_frames table.
type frameRow struct {
	ReceivedAt int64 // Microseconds
	Payload    []byte
}

// WriterMetrics holds metrics for the writer.
type WriterMetrics struct {
	Inserts int64
	Dropped int64
	Errors  int64
	Flushes int64
}
