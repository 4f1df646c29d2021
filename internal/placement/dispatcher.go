package placement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ErrDispatcherClosed is returned by Do after Close.
var ErrDispatcherClosed = errors.New("placement dispatcher closed")

// Op is a unit of work executed against the controller.
type Op func(ctx context.Context, c *Controller) error

type job struct {
	name string
	op   Op
	done chan error
}

// Dispatcher runs controller operations one at a time on a dedicated
// goroutine. Posting never blocks, so UI callbacks, timers and IPC handlers
// can hand work off without waiting on the windowing runtime.
type Dispatcher struct {
	ctrl   *Controller
	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc

	cond    *sync.Cond
	pending []job
	closed  bool
	stopped chan struct{}
}

// NewDispatcher starts the execution goroutine for ctrl.
func NewDispatcher(ctrl *Controller, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		ctrl:    ctrl,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		cond:    sync.NewCond(&sync.Mutex{}),
		stopped: make(chan struct{}),
	}
	go d.run()
	return d
}

// Controller returns the controller this dispatcher serializes.
func (d *Dispatcher) Controller() *Controller {
	return d.ctrl
}

// Post queues op without waiting for it. Failures are logged.
func (d *Dispatcher) Post(name string, op Op) {
	d.enqueue(job{name: name, op: op})
}

// Do queues op and waits for its result or for ctx to end.
func (d *Dispatcher) Do(ctx context.Context, name string, op Op) error {
	done := make(chan error, 1)
	if !d.enqueue(job{name: name, op: op, done: done}) {
		return ErrDispatcherClosed
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) enqueue(j job) bool {
	d.cond.L.Lock()
	defer d.cond.L.Unlock()
	if d.closed {
		d.logger.Warn("dropping placement op after close", "op", j.name)
		if j.done != nil {
			j.done <- ErrDispatcherClosed
		}
		return false
	}
	d.pending = append(d.pending, j)
	d.cond.Signal()
	return true
}

// Close stops accepting work, cancels the context queued operations run
// with and waits for the queue to drain.
func (d *Dispatcher) Close() {
	d.cond.L.Lock()
	if !d.closed {
		d.closed = true
		d.cancel()
		d.cond.Signal()
	}
	d.cond.L.Unlock()

	<-d.stopped
}

func (d *Dispatcher) run() {
	defer close(d.stopped)
	for {
		d.cond.L.Lock()
		for len(d.pending) == 0 && !d.closed {
			d.cond.Wait()
		}
		if len(d.pending) == 0 && d.closed {
			d.cond.L.Unlock()
			return
		}
		j := d.pending[0]
		d.pending[0] = job{}
		d.pending = d.pending[1:]
		d.cond.L.Unlock()

		err := d.execute(j)
		if j.done != nil {
			j.done <- err
		} else if err != nil {
			d.logger.Warn("placement op failed", "op", j.name, "error", err)
		}
	}
}

func (d *Dispatcher) execute(j job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("placement op panic recovered", "op", j.name, "panic", r)
			err = fmt.Errorf("%s: panic: %v", j.name, r)
		}
	}()
	return j.op(d.ctx, d.ctrl)
}

// ScheduleInitialPlacement arranges a single deferred PlaceInitial. When the
// runtime offers a readiness signal and waitForReady is set, the placement
// follows that signal; otherwise it runs after the startup delay. There is no
// retry: one query, one placement attempt.
func (d *Dispatcher) ScheduleInitialPlacement(ctx context.Context) {
	opts := d.ctrl.Options()
	place := func(trigger string) {
		d.Post("initial placement", func(ctx context.Context, c *Controller) error {
			c.logger.Debug("running initial placement", "trigger", trigger)
			_, err := c.PlaceInitial(ctx)
			return err
		})
	}

	if notifier, ok := d.ctrl.rt.(ReadyNotifier); ok && opts.WaitForReady {
		if ready := notifier.Ready(); ready != nil {
			go func() {
				select {
				case <-ready:
					place("ready")
				case <-ctx.Done():
				}
			}()
			return
		}
	}

	fired := make(chan struct{})
	timer := time.AfterFunc(opts.StartupDelay, func() {
		close(fired)
		place("delay")
	})
	go func() {
		select {
		case <-ctx.Done():
			timer.Stop()
		case <-fired:
		}
	}()
}
