package journey

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/evelinavait/fleettrack/internal/apperr"
)

// SubmitFunc pushes one coordinate sample through the same ingestion path
// external clients use.
type SubmitFunc func(ctx context.Context, journeyID string, recordedAt time.Time, lat, lng float64) error

// Registry owns one background sampler task per open journey, keyed by
// journey id. Closing a journey cancels its task; Shutdown cancels the root
// context and every task with it.
type Registry struct {
	mu      sync.Mutex
	cancels map[string]context.CancelFunc
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	logger  *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Registry{
		cancels: map[string]context.CancelFunc{},
		ctx:     ctx,
		cancel:  cancel,
		logger:  logger,
	}
}

// Start launches the sampler for a journey. A second start for the same
// journey is a no-op, as is any start after Shutdown.
func (r *Registry) Start(journeyID string, interval time.Duration, submit SubmitFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ctx.Err() != nil {
		return
	}
	if _, running := r.cancels[journeyID]; running {
		return
	}

	ctx, cancel := context.WithCancel(r.ctx)
	r.cancels[journeyID] = cancel
	r.wg.Add(1)
	go r.run(ctx, journeyID, interval, submit)
}

// Stop cancels the sampler for one journey. Unknown ids are ignored.
func (r *Registry) Stop(journeyID string) {
	r.mu.Lock()
	cancel, ok := r.cancels[journeyID]
	r.mu.Unlock()
	if ok {
		cancel()
	}
}

// Shutdown cancels every live sampler and waits for them to exit.
func (r *Registry) Shutdown() {
	r.cancel()
	r.wg.Wait()
}

// Active returns the number of live sampler tasks.
func (r *Registry) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cancels)
}

func (r *Registry) remove(journeyID string) {
	r.mu.Lock()
	if cancel, ok := r.cancels[journeyID]; ok {
		cancel()
		delete(r.cancels, journeyID)
	}
	r.mu.Unlock()
}

func (r *Registry) run(ctx context.Context, journeyID string, interval time.Duration, submit SubmitFunc) {
	defer r.wg.Done()
	defer r.remove(journeyID)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.logger.Info("sampler started",
		slog.String("journey_id", journeyID),
		slog.Duration("interval", interval),
	)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("sampler stopped", slog.String("journey_id", journeyID))
			return
		case <-ticker.C:
			now := time.Now()
			lat, lng := SimulatedCoordinate(now)
			err := submit(ctx, journeyID, now, lat, lng)
			switch {
			case err == nil:
			case errors.Is(err, apperr.ErrConflict), errors.Is(err, apperr.ErrNotFound):
				// Journey closed (or gone) since the last tick.
				r.logger.Info("journey closed, sampler exiting",
					slog.String("journey_id", journeyID),
				)
				return
			case ctx.Err() != nil:
				return
			default:
				r.logger.Error("sample submit failed, retrying next tick",
					slog.String("journey_id", journeyID),
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

// SimulatedCoordinate derives a synthetic position near Vilnius from the
// clock. Real devices post their own coordinates through the same endpoint.
func SimulatedCoordinate(now time.Time) (lat, lng float64) {
	drift := math.Mod(float64(now.UnixNano())/float64(time.Second), 0.01)
	return 54.6872 + drift, 25.2797 + drift
}
