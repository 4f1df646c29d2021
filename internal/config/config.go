package config

import (
	"fmt"
	"image/color"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/1broseidon/ghostdock/internal/chromakey"
	"github.com/1broseidon/ghostdock/internal/gesture"
	"github.com/1broseidon/ghostdock/internal/placement"
	"github.com/1broseidon/ghostdock/internal/pose"
)

// Backend selects which windowing runtime drives placement.
type Backend string

const (
	BackendAuto   Backend = "auto"
	BackendX11    Backend = "x11"
	BackendEbiten Backend = "ebiten"
)

// ChromaKey configures the transparency key.
type ChromaKey struct {
	// Color is a #rrggbb hex string.
	Color         string `yaml:"color"`
	LowThreshold  int    `yaml:"low_threshold"`
	HighThreshold int    `yaml:"high_threshold"`
}

// Placement configures window positioning.
type Placement struct {
	Margin         int   `yaml:"margin"`
	DockMargin     int   `yaml:"dock_margin"`
	StartupDelayMS int   `yaml:"startup_delay_ms"`
	AlwaysOnTop    *bool `yaml:"always_on_top"`
	// RespectWorkArea shrinks the screen by panels and docks before snapping.
	RespectWorkArea bool `yaml:"respect_work_area"`
	// WaitForReady places the window on the runtime's first-layout signal
	// instead of after StartupDelayMS, when the runtime provides one.
	WaitForReady bool `yaml:"wait_for_ready"`
	// RefreshIntervalMS is how often the window position is read back.
	// Zero disables it.
	RefreshIntervalMS int `yaml:"refresh_interval_ms"`
}

// Hotkeys holds X11 key sequences in xgbutil keybind syntax. An empty value
// disables that binding.
type Hotkeys struct {
	SnapTopLeft     string `yaml:"snap_top_left"`
	SnapTopRight    string `yaml:"snap_top_right"`
	SnapBottomLeft  string `yaml:"snap_bottom_left"`
	SnapBottomRight string `yaml:"snap_bottom_right"`
	Dock            string `yaml:"dock"`
	ToggleTopmost   string `yaml:"toggle_topmost"`
	NextPose        string `yaml:"next_pose"`
}

// Config holds the application configuration.
type Config struct {
	Ghost        string    `yaml:"ghost"`
	AssetDir     string    `yaml:"asset_dir"`
	SurfaceCount int       `yaml:"surface_count"`
	MaxWidth     int       `yaml:"max_width"`
	MaxHeight    int       `yaml:"max_height"`
	ChromaKey    ChromaKey `yaml:"chroma_key"`
	Placement    Placement `yaml:"placement"`
	Backend      Backend   `yaml:"backend"`
	DragDeadZone float64   `yaml:"drag_dead_zone"`
	Display      string    `yaml:"display,omitempty"`
	XAuthority   string    `yaml:"xauthority,omitempty"`
	Hotkeys      Hotkeys   `yaml:"hotkeys"`
	LogLevel     string    `yaml:"log_level"`
}

func DefaultConfig() *Config {
	onTop := true
	return &Config{
		Ghost:        pose.DefaultGhost,
		AssetDir:     "~/.local/share/ghostdock/ghost",
		SurfaceCount: pose.DefaultCount,
		MaxWidth:     pose.DefaultMaxWidth,
		MaxHeight:    pose.DefaultMaxHeight,
		ChromaKey: ChromaKey{
			Color:         "#00ff00",
			LowThreshold:  int(chromakey.DefaultTolerance.Low),
			HighThreshold: int(chromakey.DefaultTolerance.High),
		},
		Placement: Placement{
			Margin:         placement.DefaultMargin,
			DockMargin:     placement.DefaultDockMargin,
			StartupDelayMS: int(placement.DefaultStartupDelay / time.Millisecond),
			AlwaysOnTop:    &onTop,
			WaitForReady:   true,

			RefreshIntervalMS: 5000,
		},
		Backend:      BackendAuto,
		DragDeadZone: gesture.DefaultDeadZone,
		Hotkeys: Hotkeys{
			SnapTopLeft:     "Mod4-Mod1-u",
			SnapTopRight:    "Mod4-Mod1-i",
			SnapBottomLeft:  "Mod4-Mod1-j",
			SnapBottomRight: "Mod4-Mod1-k",
			Dock:            "Mod4-Mod1-h",
			ToggleTopmost:   "Mod4-Mod1-a",
			NextPose:        "Mod4-Mod1-p",
		},
		LogLevel: "info",
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Ghost) == "" {
		return &ValidationError{Path: "ghost", Err: fmt.Errorf("ghost is required")}
	}
	if strings.TrimSpace(c.AssetDir) == "" {
		return &ValidationError{Path: "asset_dir", Err: fmt.Errorf("asset_dir is required")}
	}
	if c.SurfaceCount < 1 {
		return &ValidationError{Path: "surface_count", Err: fmt.Errorf("surface_count must be >= 1")}
	}
	if c.MaxWidth < 0 {
		return &ValidationError{Path: "max_width", Err: fmt.Errorf("max_width must be >= 0")}
	}
	if c.MaxHeight < 0 {
		return &ValidationError{Path: "max_height", Err: fmt.Errorf("max_height must be >= 0")}
	}
	if _, err := ParseHexColor(c.ChromaKey.Color); err != nil {
		return &ValidationError{Path: "chroma_key.color", Err: err}
	}
	if !inByteRange(c.ChromaKey.LowThreshold) {
		return &ValidationError{Path: "chroma_key.low_threshold", Err: fmt.Errorf("low_threshold must be between 0 and 255")}
	}
	if !inByteRange(c.ChromaKey.HighThreshold) {
		return &ValidationError{Path: "chroma_key.high_threshold", Err: fmt.Errorf("high_threshold must be between 0 and 255")}
	}
	if c.Placement.Margin < 0 {
		return &ValidationError{Path: "placement.margin", Err: fmt.Errorf("margin must be >= 0")}
	}
	if c.Placement.DockMargin < 0 {
		return &ValidationError{Path: "placement.dock_margin", Err: fmt.Errorf("dock_margin must be >= 0")}
	}
	if c.Placement.StartupDelayMS < 0 {
		return &ValidationError{Path: "placement.startup_delay_ms", Err: fmt.Errorf("startup_delay_ms must be >= 0")}
	}
	if c.Placement.RefreshIntervalMS < 0 {
		return &ValidationError{Path: "placement.refresh_interval_ms", Err: fmt.Errorf("refresh_interval_ms must be >= 0")}
	}
	switch c.Backend {
	case BackendAuto, BackendX11, BackendEbiten:
	default:
		return &ValidationError{Path: "backend", Err: fmt.Errorf("backend must be one of: auto, x11, ebiten")}
	}
	if c.DragDeadZone < 0 {
		return &ValidationError{Path: "drag_dead_zone", Err: fmt.Errorf("drag_dead_zone must be >= 0")}
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return &ValidationError{Path: "log_level", Err: err}
	}
	return nil
}

func inByteRange(v int) bool {
	return v >= 0 && v <= 255
}

// ChromaKeyFilter returns the key used to make sprite backgrounds transparent.
func (c *Config) ChromaKeyFilter() chromakey.Key {
	key := chromakey.DefaultKey()
	if col, err := ParseHexColor(c.ChromaKey.Color); err == nil {
		key.Color = col
	}
	key.Tolerance = chromakey.Tolerance{
		Low:  uint8(clampByte(c.ChromaKey.LowThreshold)),
		High: uint8(clampByte(c.ChromaKey.HighThreshold)),
	}
	return key
}

func clampByte(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// PlacementOptions converts the placement section for the controller.
func (c *Config) PlacementOptions() placement.Options {
	return placement.Options{
		Margin:       c.Placement.Margin,
		DockMargin:   c.Placement.DockMargin,
		StartupDelay: time.Duration(c.Placement.StartupDelayMS) * time.Millisecond,
		WaitForReady: c.Placement.WaitForReady,
		AlwaysOnTop:  c.Placement.AlwaysOnTop,
	}
}

// PoseOptions converts the sprite settings for the pose set.
func (c *Config) PoseOptions() pose.Options {
	opts := pose.DefaultOptions()
	opts.Ghost = c.Ghost
	opts.Count = c.SurfaceCount
	opts.MaxWidth = c.MaxWidth
	opts.MaxHeight = c.MaxHeight
	opts.Key = c.ChromaKeyFilter()
	return opts
}

// RefreshInterval returns the position read-back interval; zero means off.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Placement.RefreshIntervalMS) * time.Millisecond
}

// GetAlwaysOnTop returns the configured initial topmost flag, defaulting to true.
func (c *Config) GetAlwaysOnTop() bool {
	if c == nil || c.Placement.AlwaysOnTop == nil {
		return true
	}
	return *c.Placement.AlwaysOnTop
}

// ParseHexColor parses #rrggbb (the leading # is optional).
func ParseHexColor(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("color %q must be #rrggbb", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("color %q must be #rrggbb", s)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// ParseLogLevel maps the log_level setting to a slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log_level must be one of: debug, info, warning, error")
	}
}
