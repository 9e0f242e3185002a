package snapshot

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Wilfred007/ink-project/internal/service"
	"github.com/Wilfred007/ink-project/internal/store"
)

// Writer flushes the service's state to a snapshot store in the
// background. Persistence is write-behind: mutations never wait for the
// database, the ticker picks them up on the next interval, and Stop
// performs a final flush.
type Writer struct {
	svc      *service.TaskService
	snaps    Store
	logger   *zap.Logger
	interval time.Duration
	wg       sync.WaitGroup
	stop     chan struct{}

	// Last snapshot that failed to save; retried on the next flush.
	// Touched only by the run goroutine and by Stop after wg.Wait.
	pending *store.State
}

func NewWriter(svc *service.TaskService, snaps Store, logger *zap.Logger, interval time.Duration) *Writer {
	return &Writer{
		svc:      svc,
		snaps:    snaps,
		logger:   logger,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

func (w *Writer) Start(ctx context.Context) {
	w.logger.Info("Starting snapshot writer", zap.Duration("interval", w.interval))

	w.wg.Add(1)
	go w.run(ctx)
}

func (w *Writer) Stop() {
	w.logger.Info("Stopping snapshot writer...")
	close(w.stop)
	w.wg.Wait()

	// Final flush so a clean shutdown loses nothing.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := w.Flush(ctx); err != nil {
		w.logger.Error("final flush failed", zap.Error(err))
	}
	w.logger.Info("Snapshot writer stopped")
}

func (w *Writer) run(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.Flush(ctx); err != nil {
				w.logger.Error("snapshot flush failed", zap.Error(err))
			}
		}
	}
}

// Flush saves the current state if it changed since the last snapshot,
// or retries a previously failed save.
func (w *Writer) Flush(ctx context.Context) error {
	st, dirty := w.svc.Snapshot()
	if !dirty {
		if w.pending == nil {
			return nil
		}
		st = *w.pending
	}

	if err := w.snaps.Save(ctx, st); err != nil {
		w.pending = &st
		return err
	}
	w.pending = nil

	w.logger.Info("State snapshot saved",
		zap.Int("tasks", len(st.Tasks)),
		zap.Uint32("next_id", st.NextID),
	)
	return nil
}
