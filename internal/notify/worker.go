package notify

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"talentflow-engine/internal/store"
)

// Worker periodically retries notifications that are still queued or failed.
// Redelivery is idempotent at the audit level (same dedup key), so running it
// alongside foreground sends is safe.
type Worker struct {
	DB       *store.DB
	Service  Service
	Interval time.Duration
	Batch    int
}

func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.tick(ctx); err != nil && ctx.Err() == nil {
				log.Printf("notify worker: tick error err=%v", err)
			}
		}
	}
}

func (w *Worker) tick(ctx context.Context) error {
	pending, err := store.ListUndeliveredNotifications(ctx, w.DB.Pool, w.Batch)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}
	log.Printf("notify worker: retrying count=%d", len(pending))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, n := range pending {
		n := n
		g.Go(func() error {
			if err := w.Service.Redeliver(gctx, n); err != nil {
				// Already recorded on the audit row; keep going.
				log.Printf("notify worker: redeliver failed dedup=%s attempts=%d err=%v",
					n.DedupKey, n.Attempts+1, err)
			}
			return nil
		})
	}
	return g.Wait()
}
