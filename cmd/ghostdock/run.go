package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/1broseidon/ghostdock/internal/config"
	"github.com/1broseidon/ghostdock/internal/daemon"
	"github.com/1broseidon/ghostdock/internal/ghost"
	"github.com/1broseidon/ghostdock/internal/hotkeys"
	"github.com/1broseidon/ghostdock/internal/ipc"
	"github.com/1broseidon/ghostdock/internal/platform"
	"github.com/1broseidon/ghostdock/internal/pose"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Show the ghost",
	Long: `Opens the ghost window and serves hotkeys and IPC commands until the window
is closed or the process is interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// GetBool cannot fail for defined flags
		detach, _ := cmd.Flags().GetBool("detach")

		res, err := loadConfig()
		if err != nil {
			return err
		}

		if detach {
			d, err := daemon.NewDetacher(os.Args)
			if err != nil {
				return err
			}
			if !daemon.IsChild() {
				if proc, ok := d.Running(); ok {
					return fmt.Errorf("ghost already running (pid %d)", proc.Pid)
				}
			}
			child, err := d.Detach()
			if err != nil {
				return fmt.Errorf("failed to start ghost in background: %w", err)
			}
			if child != nil {
				fmt.Printf("ghost started in background (pid %d, log %s)\n", child.Pid, d.LogFile())
				return nil
			}
			defer func() { _ = d.Release() }()
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runGhost(ctx, res.Config)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolP("detach", "d", false, "run in the background")
}

// useX11Placement decides whether the window manager drives placement.
func useX11Placement(backend config.Backend, goos, display string) bool {
	switch backend {
	case config.BackendX11:
		return true
	case config.BackendEbiten:
		return false
	default:
		return goos == "linux" && display != ""
	}
}

func runGhost(ctx context.Context, cfg *config.Config) error {
	sessionID := uuid.NewString()
	logger := newLogger(os.Stderr, cfg).With("session", sessionID)
	slog.SetDefault(logger)

	assetDir, err := config.ExpandPath(cfg.AssetDir)
	if err != nil {
		return err
	}
	poses, err := pose.NewSet(pose.DirSource{Root: assetDir}, cfg.PoseOptions(), logger.With("component", "pose"))
	if err != nil {
		return err
	}

	if cfg.XAuthority != "" {
		if xauth, err := config.ExpandPath(cfg.XAuthority); err == nil {
			os.Setenv("XAUTHORITY", xauth)
		}
	}
	display := cfg.Display
	if display == "" {
		display = os.Getenv("DISPLAY")
	}

	// The X connection serves hotkeys whenever a display is reachable, and
	// placement when the backend selects it.
	var x11b *platform.X11Backend
	if runtime.GOOS == "linux" && display != "" {
		x11b, err = platform.NewX11BackendFromDisplay(cfg.Display)
		if err != nil {
			if cfg.Backend == config.BackendX11 {
				return fmt.Errorf("failed to connect to display: %w", err)
			}
			logger.Warn("X11 unavailable, hotkeys disabled", "display", display, "error", err)
			x11b = nil
		} else {
			defer x11b.Disconnect()
		}
	} else if cfg.Backend == config.BackendX11 {
		return errors.New("backend x11 requires a display (set DISPLAY or display in config)")
	}

	opts := ghost.Options{
		SessionID:       sessionID,
		Placement:       cfg.PlacementOptions(),
		DeadZone:        cfg.DragDeadZone,
		RespectWorkArea: cfg.Placement.RespectWorkArea,
	}
	if x11b != nil && useX11Placement(cfg.Backend, runtime.GOOS, display) {
		opts.Backend = x11b
		opts.BackendName = string(config.BackendX11)
	} else {
		opts.BackendName = string(config.BackendEbiten)
	}

	app, err := ghost.New(poses, opts, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	server, err := ipc.NewServer(app, logger.With("component", "ipc"))
	if err != nil {
		return err
	}
	if err := server.Start(); err != nil {
		return fmt.Errorf("failed to start IPC server: %w", err)
	}
	defer server.Stop()

	if x11b != nil {
		h := hotkeys.NewHandler(x11b, logger.With("component", "hotkeys"))
		if err := h.RegisterAll(hotkeys.Bindings(cfg.Hotkeys, app)); err != nil {
			logger.Warn("failed to register hotkeys", "error", err)
		}
		go x11b.EventLoop()
		defer x11b.StopEventLoop()
	}

	if interval := cfg.RefreshInterval(); interval > 0 {
		r := daemon.NewReconciler(daemon.ReconcilerConfig{
			Interval: interval,
			Logger:   logger.With("component", "reconciler"),
		}, app.Dispatcher())
		go r.Run(ctx)
	}

	logger.Info("ghostdock started", "backend", opts.BackendName, "socket", server.SocketPath())
	if err := app.Run(ctx); err != nil {
		return err
	}
	logger.Info("ghostdock stopped")
	return nil
}
