package db

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// drainTimeout bounds how long Run keeps writing queued records after its
// context is canceled.
const drainTimeout = 5 * time.Second

// EncounterWriter stores encounter records. Implemented by RunRepository.
type EncounterWriter interface {
	RecordEncounter(ctx context.Context, runID uuid.UUID, rec EncounterRecord) error
}

// Recorder moves encounter records off the tick goroutine: Submit never
// blocks, Run writes them in order.
type Recorder struct {
	writer  EncounterWriter
	runID   uuid.UUID
	queue   chan EncounterRecord
	dropped atomic.Int64
	written atomic.Int64
}

// NewRecorder creates a recorder with a queue of the given size.
func NewRecorder(writer EncounterWriter, runID uuid.UUID, size int) *Recorder {
	return &Recorder{
		writer: writer,
		runID:  runID,
		queue:  make(chan EncounterRecord, size),
	}
}

// Submit enqueues rec. It returns false and drops the record when the queue is full.
func (r *Recorder) Submit(rec EncounterRecord) bool {
	select {
	case r.queue <- rec:
		return true
	default:
		r.dropped.Add(1)
		slog.Warn("encounter record dropped", "run", r.runID, "scene", rec.Scene)
		return false
	}
}

// Run writes queued records until ctx is canceled, then drains what is left
// (blocks).
func (r *Recorder) Run(ctx context.Context) error {
	// a record already dequeued is written even if ctx is canceled meanwhile
	writeCtx := context.WithoutCancel(ctx)
	for {
		select {
		case <-ctx.Done():
			r.drain()
			return nil
		case rec := <-r.queue:
			r.write(writeCtx, rec)
		}
	}
}

func (r *Recorder) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	for {
		select {
		case rec := <-r.queue:
			r.write(ctx, rec)
		default:
			return
		}
	}
}

func (r *Recorder) write(ctx context.Context, rec EncounterRecord) {
	if err := r.writer.RecordEncounter(ctx, r.runID, rec); err != nil {
		slog.Error("recording encounter", "run", r.runID, "scene", rec.Scene, "error", err)
		return
	}
	r.written.Add(1)
}

// Dropped returns how many records were discarded because the queue was full.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

// Written returns how many records were stored.
func (r *Recorder) Written() int64 {
	return r.written.Load()
}
