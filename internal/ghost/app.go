// Package ghost runs the ghost window: an ebiten game that draws the keyed
// sprite, feeds pointer gestures to placement, and serves IPC commands.
package ghost

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/1broseidon/ghostdock/internal/ipc"
	"github.com/1broseidon/ghostdock/internal/placement"
	"github.com/1broseidon/ghostdock/internal/platform"
	"github.com/1broseidon/ghostdock/internal/pose"
)

// DefaultTitle is the window title; the X11 backend finds the window by it.
const DefaultTitle = "ghostdock"

// Options configures an App.
type Options struct {
	Title     string
	SessionID string
	Placement placement.Options
	// DeadZone is the drag threshold in pixels. Negative selects the default.
	DeadZone float64
	// Backend, when set, drives placement through the window manager instead
	// of ebiten's window functions.
	Backend         platform.Backend
	BackendName     string
	RespectWorkArea bool
}

// App ties the pose set, the placement dispatcher and the game together.
type App struct {
	opts    Options
	logger  *slog.Logger
	started time.Time

	poses *pose.Set
	win   window
	disp  *placement.Dispatcher
	game  *Game
}

var _ ipc.Handler = (*App)(nil)

// New creates the app. Nothing is shown until Run.
func New(poses *pose.Set, opts Options, logger *slog.Logger) (*App, error) {
	return newApp(ebitenWindow{}, poses, opts, logger)
}

func newApp(win window, poses *pose.Set, opts Options, logger *slog.Logger) (*App, error) {
	if poses == nil {
		return nil, errors.New("pose set is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.BackendName == "" {
		opts.BackendName = "ebiten"
	}

	ebRT := newEbitenRuntime(win)
	var rt placement.Runtime = ebRT
	if opts.Backend != nil {
		rt = platform.NewWindowRuntime(opts.Backend, platform.RuntimeOptions{
			Title:           opts.Title,
			RespectWorkArea: opts.RespectWorkArea,
			Ready:           ebRT.Ready(),
		}, logger.With("component", "platform"))
	}

	ctrl := placement.New(rt, opts.Placement, logger.With("component", "placement"))
	disp := placement.NewDispatcher(ctrl, logger.With("component", "dispatcher"))
	game := newGame(context.Background(), ebRT, poses, disp, opts.DeadZone, logger.With("component", "game"))
	game.onFirstFrame = ebRT.MarkReady

	return &App{
		opts:    opts,
		logger:  logger,
		started: time.Now(),
		poses:   poses,
		win:     win,
		disp:    disp,
		game:    game,
	}, nil
}

// Run opens the window and blocks until it is closed or ctx ends.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.game.ctx = ctx
	a.game.showPose(a.poses.Current())
	if a.game.NoSprite() {
		opts := pose.DefaultOptions()
		a.win.SetSize(paddedSize(opts.MaxWidth, opts.MaxHeight))
	}

	onTop := a.disp.Controller().Snapshot().AlwaysOnTop
	ebiten.SetWindowTitle(a.opts.Title)
	ebiten.SetWindowDecorated(false)
	ebiten.SetWindowFloating(onTop)
	ebiten.SetRunnableOnUnfocused(true)

	a.disp.ScheduleInitialPlacement(ctx)

	a.logger.Info("ghost window starting",
		"session", a.opts.SessionID,
		"backend", a.opts.BackendName,
		"ghost", a.poses.Ghost(),
		"always_on_top", onTop)

	err := ebiten.RunGameWithOptions(a.game, &ebiten.RunGameOptions{ScreenTransparent: true})
	if errors.Is(err, ebiten.Termination) {
		err = nil
	}
	if err != nil {
		return fmt.Errorf("run ghost window: %w", err)
	}
	return nil
}

// Close stops the placement dispatcher.
func (a *App) Close() {
	a.disp.Close()
}

func (a *App) doPlacement(ctx context.Context, name string, fn func(context.Context, *placement.Controller) (placement.Position, error)) (placement.Position, error) {
	var pos placement.Position
	err := a.disp.Do(ctx, name, func(ctx context.Context, c *placement.Controller) error {
		p, err := fn(ctx, c)
		pos = p
		return err
	})
	return pos, err
}

// Snap implements ipc.Handler.
func (a *App) Snap(ctx context.Context, anchor placement.Anchor) (placement.Position, error) {
	return a.doPlacement(ctx, "snap "+anchor.String(), func(ctx context.Context, c *placement.Controller) (placement.Position, error) {
		return c.SnapTo(ctx, anchor)
	})
}

// Dock implements ipc.Handler.
func (a *App) Dock(ctx context.Context) (placement.Position, error) {
	return a.doPlacement(ctx, "dock", func(ctx context.Context, c *placement.Controller) (placement.Position, error) {
		return c.PlaceInitial(ctx)
	})
}

// SetTopmost implements ipc.Handler.
func (a *App) SetTopmost(ctx context.Context, enabled bool) (bool, error) {
	err := a.disp.Do(ctx, "set topmost", func(ctx context.Context, c *placement.Controller) error {
		return c.SetAlwaysOnTop(ctx, enabled)
	})
	return a.disp.Controller().Snapshot().AlwaysOnTop, err
}

// ToggleTopmost implements ipc.Handler.
func (a *App) ToggleTopmost(ctx context.Context) (bool, error) {
	var enabled bool
	err := a.disp.Do(ctx, "toggle topmost", func(ctx context.Context, c *placement.Controller) error {
		v, err := c.ToggleAlwaysOnTop(ctx)
		enabled = v
		return err
	})
	return enabled, err
}

// NextPose implements ipc.Handler. Pose changes run on the game loop.
func (a *App) NextPose(ctx context.Context) (ipc.PoseData, error) {
	return a.poseCall(ctx, func(g *Game) ipc.PoseData { return g.advancePose() })
}

// SetPose implements ipc.Handler. An index outside the set is a missing
// pose and falls back like any other.
func (a *App) SetPose(ctx context.Context, index int) (ipc.PoseData, error) {
	return a.poseCall(ctx, func(g *Game) ipc.PoseData { return g.showPose(index) })
}

func (a *App) poseCall(ctx context.Context, fn func(*Game) ipc.PoseData) (ipc.PoseData, error) {
	var data ipc.PoseData
	if err := a.game.call(ctx, func(g *Game) { data = fn(g) }); err != nil {
		return ipc.PoseData{}, err
	}
	return data, nil
}

// Status implements ipc.Handler.
func (a *App) Status(ctx context.Context) (ipc.StatusData, error) {
	state := a.disp.Controller().Snapshot()
	status := ipc.StatusData{
		SessionID:     a.opts.SessionID,
		PID:           os.Getpid(),
		Backend:       a.opts.BackendName,
		Ghost:         a.poses.Ghost(),
		Pose:          a.poses.Current(),
		PoseCount:     a.poses.Count(),
		AlwaysOnTop:   state.AlwaysOnTop,
		Dragging:      state.Dragging,
		PositionKnown: state.Known,
		NoSprite:      a.game.NoSprite(),
		UptimeSeconds: int64(time.Since(a.started).Seconds()),
	}
	if state.Known {
		status.X = state.LastKnown.X
		status.Y = state.LastKnown.Y
	}
	return status, nil
}

// Dispatcher returns the placement dispatcher, for background work that
// must share the placement execution context.
func (a *App) Dispatcher() *placement.Dispatcher {
	return a.disp
}
