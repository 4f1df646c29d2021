package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/ghostdock/internal/config"
	"github.com/1broseidon/ghostdock/internal/ipc"
)

func TestUseX11Placement(t *testing.T) {
	tests := []struct {
		backend config.Backend
		goos    string
		display string
		want    bool
	}{
		{config.BackendX11, "linux", "", true},
		{config.BackendEbiten, "linux", ":0", false},
		{config.BackendAuto, "linux", ":0", true},
		{config.BackendAuto, "linux", "", false},
		{config.BackendAuto, "darwin", ":0", false},
		{config.BackendAuto, "windows", "", false},
	}
	for _, tt := range tests {
		if got := useX11Placement(tt.backend, tt.goos, tt.display); got != tt.want {
			t.Errorf("useX11Placement(%s, %s, %q) = %v, want %v", tt.backend, tt.goos, tt.display, got, tt.want)
		}
	}
}

func TestPrintPose(t *testing.T) {
	tests := []struct {
		data ipc.PoseData
		want string
	}{
		{ipc.PoseData{Index: 3, Count: 12}, "pose 3/12\n"},
		{ipc.PoseData{Index: 0, Count: 12, FellBack: true}, "pose 0/12 (requested pose unavailable)\n"},
		{ipc.PoseData{Index: 0, Count: 12, NoSprite: true}, "pose 0/12: no sprite available\n"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		printPose(&buf, &tt.data)
		if buf.String() != tt.want {
			t.Errorf("printPose(%+v) = %q, want %q", tt.data, buf.String(), tt.want)
		}
	}
}

func TestPrintPosition(t *testing.T) {
	tests := []struct {
		label string
		data  ipc.PositionData
		want  string
	}{
		{"bottom-right", ipc.PositionData{X: 1700, Y: 760}, "bottom-right: (1700, 760)\n"},
		{"docked", ipc.PositionData{X: 0, Y: 730, Unconfirmed: true}, "docked: (0, 730) requested, final position unconfirmed\n"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		printPosition(&buf, tt.label, &tt.data)
		if buf.String() != tt.want {
			t.Errorf("printPosition(%+v) = %q, want %q", tt.data, buf.String(), tt.want)
		}
	}
}

func TestPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	printStatus(&buf, &ipc.StatusData{
		SessionID:     "abc",
		Pose:          2,
		PoseCount:     12,
		PositionKnown: true,
		X:             20,
		Y:             760,
		UptimeSeconds: 90,
	})
	out := buf.String()
	for _, want := range []string{"session:        abc", "pose:           2/12", "position:       (20, 760)", "uptime:         1m30s"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	buf.Reset()
	printStatus(&buf, &ipc.StatusData{PoseCount: 12, NoSprite: true})
	if !strings.Contains(buf.String(), "no sprite available") || !strings.Contains(buf.String(), "position:       unknown") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestLoadConfig_UsesFlagPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("placement:\n  margin: 32\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	configPath = path
	t.Cleanup(func() { configPath = "" })

	res, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if res.Config.Placement.Margin != 32 || res.File == "" {
		t.Fatalf("expected margin 32 from %s, got %+v", path, res.Config.Placement)
	}
}

func TestConfigExplainCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log_level: debug\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"--config", path, "config", "explain", "log_level"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		configPath = ""
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("config explain: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "log_level = debug (") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestNewLogger_VerboseWins(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LogLevel = "error"

	verbose = true
	t.Cleanup(func() { verbose = false })

	var buf bytes.Buffer
	newLogger(&buf, cfg).Debug("hello")
	if !strings.Contains(buf.String(), "hello") {
		t.Fatalf("expected debug output with --verbose, got %q", buf.String())
	}
}
