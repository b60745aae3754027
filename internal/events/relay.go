package events

import (
	"context"
	"log"
	"time"
)

// Relay forwards event_log rows to a Publisher in seq order and persists
// its position, so every logged event is published at least once.
type Relay struct {
	Log       *Log
	Publisher Publisher
	Name      string
	Interval  time.Duration
	BatchSize int
}

// Run polls until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) {
	interval := r.Interval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		if _, err := r.Flush(ctx); err != nil && ctx.Err() == nil {
			log.Printf("event relay %s: %v", r.Name, err)
		}
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

// Flush publishes one batch and returns how many events went out.
func (r *Relay) Flush(ctx context.Context) (int, error) {
	after, err := r.Log.Cursor(ctx, r.Name)
	if err != nil {
		return 0, err
	}
	batch, err := r.Log.Since(ctx, after, r.BatchSize)
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, e := range batch {
		if err := r.Publisher.Publish(ctx, e); err != nil {
			return sent, err
		}
		if err := r.Log.SetCursor(ctx, r.Name, e.Seq); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}
