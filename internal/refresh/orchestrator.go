// Package refresh tracks upstream liveness and drives the periodic refresh
// cycle shared by independent producers.
package refresh

import (
	"context"
	"fmt"
	"sync"
	"time"

	"token-pulse/internal/domain"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const DefaultInterval = 30 * time.Second

// Prober is the lightweight connectivity check. A nil error means live.
type Prober interface {
	Ping(ctx context.Context) error
}

// Callback is a producer's companion refresh action.
type Callback func(ctx context.Context) error

type State string

const (
	StateIdle     State = "idle"
	StateChecking State = "checking"
)

// Orchestrator owns the liveness flag and a single callback slot. Build one
// with New; it is torn down by cancelling the context passed to Start.
type Orchestrator struct {
	tracer   trace.Tracer
	prober   Prober
	interval time.Duration
	now      func() time.Time
	logger   zerolog.Logger

	mu         sync.RWMutex
	isLive     bool
	inFlight   int
	lastUpdate time.Time
	callback   Callback
}

func New(tracer trace.Tracer, prober Prober, interval time.Duration) *Orchestrator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Orchestrator{
		tracer:   tracer,
		prober:   prober,
		interval: interval,
		now:      time.Now,
		logger:   log.With().Str("component", "refresh").Logger(),
	}
}

// Start runs one cycle immediately and then one per interval until ctx is
// cancelled. Probing continues while offline.
func (o *Orchestrator) Start(ctx context.Context) {
	o.logger.Info().Dur("interval", o.interval).Msg("refresh orchestrator starting")

	o.tick(ctx)

	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			o.logger.Info().Msg("refresh orchestrator stopped")
			return
		case <-ticker.C:
			o.tick(ctx)
		}
	}
}

func (o *Orchestrator) tick(ctx context.Context) {
	if err := o.RefreshNow(ctx); err != nil {
		o.logger.Warn().Err(err).Msg("refresh cycle finished with callback error")
	}
}

// RefreshNow runs the liveness probe and the registered callback side by side
// and returns once both finish. Probe failures only clear the live flag; the
// returned error is the callback's. Overlapping calls are allowed and the
// last probe to finish wins.
func (o *Orchestrator) RefreshNow(ctx context.Context) error {
	ctx, span := o.tracer.Start(ctx, "refresh.refresh-now")
	defer span.End()

	o.begin()
	defer o.end()

	cb := o.currentCallback()

	var (
		wg    sync.WaitGroup
		cbErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		o.checkLiveness(ctx)
	}()
	if cb != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cbErr = runCallback(ctx, cb)
		}()
	}
	wg.Wait()

	span.SetAttributes(
		attribute.Bool("live", o.Status().IsLive),
		attribute.Bool("callback", cb != nil),
	)
	return cbErr
}

func (o *Orchestrator) checkLiveness(ctx context.Context) {
	ctx, span := o.tracer.Start(ctx, "refresh.check-liveness")
	defer span.End()

	err := o.prober.Ping(ctx)

	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		if o.isLive {
			o.logger.Warn().Err(err).Msg("upstream went offline")
		}
		o.isLive = false
		span.RecordError(err)
		return
	}
	if !o.isLive {
		o.logger.Info().Msg("upstream is live")
	}
	o.isLive = true
	o.lastUpdate = o.now()
}

func runCallback(ctx context.Context, cb Callback) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("refresh callback panicked: %v", r)
		}
	}()
	return cb(ctx)
}

// RegisterRefreshCallback installs cb, replacing any previous callback.
func (o *Orchestrator) RegisterRefreshCallback(cb Callback) {
	o.mu.Lock()
	o.callback = cb
	o.mu.Unlock()
}

// UnregisterRefreshCallback clears the slot; later cycles only probe.
func (o *Orchestrator) UnregisterRefreshCallback() {
	o.mu.Lock()
	o.callback = nil
	o.mu.Unlock()
}

// Status returns a consistent snapshot of the liveness state.
func (o *Orchestrator) Status() domain.RefreshStatus {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return domain.RefreshStatus{
		IsLive:     o.isLive,
		IsLoading:  o.inFlight > 0,
		LastUpdate: o.lastUpdate,
	}
}

func (o *Orchestrator) State() State {
	if o.Status().IsLoading {
		return StateChecking
	}
	return StateIdle
}

func (o *Orchestrator) Interval() time.Duration { return o.interval }

func (o *Orchestrator) currentCallback() Callback {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.callback
}

func (o *Orchestrator) begin() {
	o.mu.Lock()
	o.inFlight++
	o.mu.Unlock()
}

func (o *Orchestrator) end() {
	o.mu.Lock()
	o.inFlight--
	o.mu.Unlock()
}
