// Package hotkeys binds global X11 key sequences to ghost commands.
package hotkeys

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/ghostdock/internal/config"
	"github.com/1broseidon/ghostdock/internal/ipc"
	"github.com/1broseidon/ghostdock/internal/placement"
)

// commandTimeout bounds a single hotkey action.
const commandTimeout = 5 * time.Second

// Commands is the part of the ghost a hotkey can drive.
type Commands interface {
	Snap(ctx context.Context, anchor placement.Anchor) (placement.Position, error)
	Dock(ctx context.Context) (placement.Position, error)
	ToggleTopmost(ctx context.Context) (bool, error)
	NextPose(ctx context.Context) (ipc.PoseData, error)
}

// Binding ties a key sequence to an action.
type Binding struct {
	Name     string
	Sequence string
	Action   func(ctx context.Context) error
}

// Bindings returns the configured bindings. Entries with an empty sequence
// are left out.
func Bindings(keys config.Hotkeys, cmds Commands) []Binding {
	snap := func(a placement.Anchor) func(context.Context) error {
		return func(ctx context.Context) error {
			_, err := cmds.Snap(ctx, a)
			return err
		}
	}

	all := []Binding{
		{Name: "snap top-left", Sequence: keys.SnapTopLeft, Action: snap(placement.TopLeft)},
		{Name: "snap top-right", Sequence: keys.SnapTopRight, Action: snap(placement.TopRight)},
		{Name: "snap bottom-left", Sequence: keys.SnapBottomLeft, Action: snap(placement.BottomLeft)},
		{Name: "snap bottom-right", Sequence: keys.SnapBottomRight, Action: snap(placement.BottomRight)},
		{Name: "dock", Sequence: keys.Dock, Action: func(ctx context.Context) error {
			_, err := cmds.Dock(ctx)
			return err
		}},
		{Name: "toggle topmost", Sequence: keys.ToggleTopmost, Action: func(ctx context.Context) error {
			_, err := cmds.ToggleTopmost(ctx)
			return err
		}},
		{Name: "next pose", Sequence: keys.NextPose, Action: func(ctx context.Context) error {
			_, err := cmds.NextPose(ctx)
			return err
		}},
	}

	out := all[:0]
	for _, b := range all {
		if b.Sequence != "" {
			out = append(out, b)
		}
	}
	return out
}

// X11Accessor is implemented by backends that expose X11 internals.
type X11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	logger *slog.Logger
}

var ignoreModsOnce sync.Once

// NewHandler creates a hotkey handler on the backend's X connection.
func NewHandler(backend X11Accessor, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	xu := backend.XUtil()

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &Handler{
		xu:     xu,
		root:   backend.RootWindow(),
		logger: logger,
	}
}

// RegisterAll grabs every binding. It stops at the first sequence that
// cannot be grabbed.
func (h *Handler) RegisterAll(bindings []Binding) error {
	for _, b := range bindings {
		if err := h.Register(b); err != nil {
			return err
		}
		h.logger.Info("hotkey registered", "action", b.Name, "keys", b.Sequence)
	}
	return nil
}

// Register grabs one binding. The action runs off the X event loop so a slow
// window manager cannot stall key handling.
func (h *Handler) Register(b Binding) error {
	if err := h.RegisterFunc(b.Sequence, func() {
		go h.run(b)
	}); err != nil {
		return fmt.Errorf("failed to register %s hotkey %q: %w", b.Name, b.Sequence, err)
	}
	return nil
}

func (h *Handler) run(b Binding) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	h.logger.Debug("hotkey triggered", "action", b.Name)
	if err := b.Action(ctx); err != nil {
		h.logger.Warn("hotkey action failed", "action", b.Name, "error", err)
	}
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")
	xevent.IgnoreMods = ignoreMasks(caps, numLock, scrollLock)
}

// ignoreMasks returns every combination of the lock modifiers, including
// none, so a hotkey fires regardless of lock state.
func ignoreMasks(caps, numLock, scrollLock uint16) []uint16 {
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	unique := map[uint16]struct{}{0: {}}
	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		unique[mask] = struct{}{}
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}
	return ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
