package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/1broseidon/ghostdock/internal/ipc"
	"github.com/1broseidon/ghostdock/internal/placement"
)

var snapCmd = &cobra.Command{
	Use:       "snap <corner>",
	Short:     "Snap the ghost to a screen corner",
	Long:      `Moves the running ghost to top-left, top-right, bottom-left or bottom-right (tl, tr, bl, br).`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"top-left", "top-right", "bottom-left", "bottom-right"},
	RunE: func(cmd *cobra.Command, args []string) error {
		anchor, err := placement.ParseAnchor(args[0])
		if err != nil {
			return err
		}
		pos, err := ipc.NewClient().Snap(anchor)
		if err != nil {
			return err
		}
		printPosition(cmd.OutOrStdout(), anchor.String(), pos)
		return nil
	},
}

var dockCmd = &cobra.Command{
	Use:   "dock",
	Short: "Move the ghost to its startup position",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pos, err := ipc.NewClient().Dock()
		if err != nil {
			return err
		}
		printPosition(cmd.OutOrStdout(), "docked", pos)
		return nil
	},
}

func printPosition(w io.Writer, label string, pos *ipc.PositionData) {
	if pos.Unconfirmed {
		fmt.Fprintf(w, "%s: (%d, %d) requested, final position unconfirmed\n", label, pos.X, pos.Y)
		return
	}
	fmt.Fprintf(w, "%s: (%d, %d)\n", label, pos.X, pos.Y)
}

var topmostCmd = &cobra.Command{
	Use:       "topmost <on|off|toggle>",
	Short:     "Keep the ghost above other windows",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off", "toggle"},
	RunE: func(cmd *cobra.Command, args []string) error {
		client := ipc.NewClient()
		var (
			enabled bool
			err     error
		)
		switch args[0] {
		case "on":
			enabled, err = client.SetTopmost(true)
		case "off":
			enabled, err = client.SetTopmost(false)
		case "toggle":
			enabled, err = client.ToggleTopmost()
		default:
			return fmt.Errorf("unknown topmost mode %q (expected on, off or toggle)", args[0])
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "always_on_top: %v\n", enabled)
		return nil
	},
}

var poseCmd = &cobra.Command{
	Use:   "pose",
	Short: "Change the ghost's pose",
}

var poseNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show the next pose",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := ipc.NewClient().NextPose()
		if err != nil {
			return err
		}
		printPose(cmd.OutOrStdout(), data)
		return nil
	},
}

var poseSetCmd = &cobra.Command{
	Use:   "set <index>",
	Short: "Show a specific pose",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid pose index %q: %w", args[0], err)
		}
		data, err := ipc.NewClient().SetPose(index)
		if err != nil {
			return err
		}
		printPose(cmd.OutOrStdout(), data)
		return nil
	},
}

func printPose(w io.Writer, data *ipc.PoseData) {
	switch {
	case data.NoSprite:
		fmt.Fprintf(w, "pose %d/%d: no sprite available\n", data.Index, data.Count)
	case data.FellBack:
		fmt.Fprintf(w, "pose %d/%d (requested pose unavailable)\n", data.Index, data.Count)
	default:
		fmt.Fprintf(w, "pose %d/%d\n", data.Index, data.Count)
	}
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running ghost's status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// GetBool cannot fail for defined flags
		asJSON, _ := cmd.Flags().GetBool("json")

		status, err := ipc.NewClient().GetStatus()
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(cmd.OutOrStdout(), status)
		}
		printStatus(cmd.OutOrStdout(), status)
		return nil
	},
}

func printStatus(w io.Writer, s *ipc.StatusData) {
	fmt.Fprintf(w, "session:        %s\n", s.SessionID)
	fmt.Fprintf(w, "pid:            %d\n", s.PID)
	fmt.Fprintf(w, "backend:        %s\n", s.Backend)
	fmt.Fprintf(w, "ghost:          %s\n", s.Ghost)
	if s.NoSprite {
		fmt.Fprintf(w, "pose:           %d/%d (no sprite available)\n", s.Pose, s.PoseCount)
	} else {
		fmt.Fprintf(w, "pose:           %d/%d\n", s.Pose, s.PoseCount)
	}
	fmt.Fprintf(w, "always_on_top:  %v\n", s.AlwaysOnTop)
	fmt.Fprintf(w, "dragging:       %v\n", s.Dragging)
	if s.PositionKnown {
		fmt.Fprintf(w, "position:       (%d, %d)\n", s.X, s.Y)
	} else {
		fmt.Fprintln(w, "position:       unknown")
	}
	fmt.Fprintf(w, "uptime:         %s\n", time.Duration(s.UptimeSeconds)*time.Second)
}

func init() {
	rootCmd.AddCommand(snapCmd, dockCmd, topmostCmd, poseCmd, statusCmd)
	poseCmd.AddCommand(poseNextCmd, poseSetCmd)
	statusCmd.Flags().Bool("json", false, "print status as JSON")
}
