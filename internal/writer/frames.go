package writer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jrooker06/orb-scanner-api-Realtime/internal/metrics"
)

// insertTimeout bounds a single batch insert so a stuck database cannot
// wedge the flush loop. The final flush during Stop also relies on this.
const insertTimeout = 10 * time.Second

// FrameWriter consumes raw feed frames and writes them to the feed_frames table.
type FrameWriter struct {
	cfg    WriterConfig
	logger *slog.Logger

	// Inbound frames from the relay
	input chan frameRow

	// Database
	db *pgxpool.Pool

	// Batching
	batch       []frameRow
	batchMu     sync.Mutex
	flushTicker *time.Ticker

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Metrics
	metrics WriterMetrics
}

// NewFrameWriter creates a new FrameWriter.
func NewFrameWriter(cfg WriterConfig, db *pgxpool.Pool, logger *slog.Logger) *FrameWriter {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultWriterConfig().BufferSize
	}
	return &FrameWriter{
		cfg:    cfg,
		db:     db,
		logger: logger,
		input:  make(chan frameRow, cfg.BufferSize),
		batch:  make([]frameRow, 0, cfg.BatchSize),
	}
}

// Start begins consuming frames and writing to the database.
func (w *FrameWriter) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.flushTicker = time.NewTicker(w.cfg.FlushInterval)

	// Consumer goroutine
	w.wg.Add(1)
	go w.consumeLoop()

	// Flush ticker goroutine
	w.wg.Add(1)
	go w.flushLoop()

	w.logger.Info("frame writer started",
		"batch_size", w.cfg.BatchSize,
		"flush_interval", w.cfg.FlushInterval,
	)
	return nil
}

// Stop gracefully shuts down the writer.
func (w *FrameWriter) Stop(ctx context.Context) error {
	w.logger.Info("stopping frame writer")

	if w.cancel != nil {
		w.cancel()
	}

	if w.flushTicker != nil {
		w.flushTicker.Stop()
	}

	// Wait for goroutines
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("frame writer stopped")
	case <-ctx.Done():
		w.logger.Warn("frame writer stop timed out")
	}

	// Final flush
	w.flush()

	return nil
}

// Archive queues a frame for insertion. It never blocks: when the input
// channel is full the frame is dropped and counted.
func (w *FrameWriter) Archive(data []byte, receivedAt time.Time) {
	row := frameRow{
		ReceivedAt: receivedAt.UnixMicro(),
		Payload:    data,
	}

	select {
	case w.input <- row:
	default:
		metrics.ArchiveDroppedTotal.Inc()
		w.batchMu.Lock()
		w.metrics.Dropped++
		w.batchMu.Unlock()
		w.logger.Debug("archive buffer full, dropping frame")
	}
}

// Stats returns current metrics.
func (w *FrameWriter) Stats() WriterMetrics {
	w.batchMu.Lock()
	defer w.batchMu.Unlock()
	return w.metrics
}

// consumeLoop reads from the input channel and accumulates batches.
func (w *FrameWriter) consumeLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case row := <-w.input:
			w.handleRow(row)
		}
	}
}

// flushLoop periodically flushes the batch.
func (w *FrameWriter) flushLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.flushTicker.C:
			w.flush()
		}
	}
}

// handleRow adds a row to the batch.
func (w *FrameWriter) handleRow(row frameRow) {
	w.batchMu.Lock()
	w.batch = append(w.batch, row)
	shouldFlush := len(w.batch) >= w.cfg.BatchSize
	w.batchMu.Unlock()

	if shouldFlush {
		w.flush()
	}
}

// flush writes the current batch to the database.
func (w *FrameWriter) flush() {
	w.batchMu.Lock()
	if len(w.batch) == 0 {
		w.batchMu.Unlock()
		return
	}

	// Take ownership of current batch
	batch := w.batch
	w.batch = make([]frameRow, 0, w.cfg.BatchSize)
	w.batchMu.Unlock()

	start := time.Now()

	// Insert under its own deadline so the final flush still runs after
	// the writer context is canceled.
	ctx, cancel := context.WithTimeout(context.Background(), insertTimeout)
	defer cancel()

	if err := w.batchInsert(ctx, batch); err != nil {
		w.logger.Error("batch insert failed", "error", err, "count", len(batch))
		metrics.ArchiveErrorsTotal.Inc()
		w.batchMu.Lock()
		w.metrics.Errors++
		w.batchMu.Unlock()
		return
	}

	metrics.ArchivedFramesTotal.Add(float64(len(batch)))
	w.batchMu.Lock()
	w.metrics.Inserts += int64(len(batch))
	w.metrics.Flushes++
	w.batchMu.Unlock()

	w.logger.Debug("flushed frames",
		"count", len(batch),
		"duration", time.Since(start),
	)
}

// batchInsert inserts rows using pgx.Batch.
func (w *FrameWriter) batchInsert(ctx context.Context, rows []frameRow) error {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
			INSERT INTO feed_frames (received_at, payload)
			VALUES ($1, $2)
		`, r.ReceivedAt, r.Payload)
	}

	results := w.db.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}

	return nil
}
