// Package daemon holds the background pieces of a running ghost: detaching
// from the terminal and keeping placement state in line with the window.
package daemon

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/1broseidon/ghostdock/internal/placement"
)

// DefaultReconcileInterval is used when the configured interval is zero.
const DefaultReconcileInterval = 5 * time.Second

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Reconciler periodically reads the window position back so the last known
// position follows moves the controller did not make.
type Reconciler struct {
	interval time.Duration
	disp     *placement.Dispatcher
	logger   *slog.Logger
}

// NewReconciler creates a reconciler that runs its reads through disp.
func NewReconciler(cfg ReconcilerConfig, disp *placement.Dispatcher) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultReconcileInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Reconciler{
		interval: interval,
		disp:     disp,
		logger:   logger,
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-ticker.C:
			r.reconcile(ctx)
		}
	}
}

// reconcile performs a single reconciliation pass. A drag in progress owns
// the position, so the pass is skipped.
func (r *Reconciler) reconcile(ctx context.Context) {
	if r.disp.Controller().Snapshot().Dragging {
		r.logger.Debug("reconciler: drag in progress, skipping")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, r.interval)
	defer cancel()

	err := r.disp.Do(ctx, "reconcile position", func(ctx context.Context, c *placement.Controller) error {
		_, err := c.RefreshPosition(ctx)
		return err
	})
	switch {
	case err == nil:
	case errors.Is(err, placement.ErrDispatcherClosed), errors.Is(err, context.Canceled):
		r.logger.Debug("reconciler: dispatcher unavailable", "error", err)
	default:
		r.logger.Warn("reconciler: failed to refresh position", "error", err)
	}
}

// ReconcileNow triggers an immediate reconciliation pass.
func (r *Reconciler) ReconcileNow(ctx context.Context) {
	r.reconcile(ctx)
}
