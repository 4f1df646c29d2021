package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/ghostdock/internal/ipc"
	"github.com/1broseidon/ghostdock/internal/placement"
)

func (s *Server) handleSnapToCorner(_ context.Context, _ *mcpsdk.CallToolRequest, args SnapToCornerInput) (*mcpsdk.CallToolResult, PositionOutput, error) {
	anchor, err := placement.ParseAnchor(args.Corner)
	if err != nil {
		return nil, PositionOutput{}, err
	}
	pos, err := s.ghost.Snap(anchor)
	if err != nil {
		s.logger.Warn("snap_to_corner failed", "corner", args.Corner, "error", err)
		return nil, PositionOutput{}, fmt.Errorf("snap to %s: %w", anchor, err)
	}
	s.logger.Info("snap_to_corner", "corner", anchor.String(), "x", pos.X, "y", pos.Y, "unconfirmed", pos.Unconfirmed)
	return positionResult(pos)
}

func (s *Server) handleDock(_ context.Context, _ *mcpsdk.CallToolRequest, _ DockInput) (*mcpsdk.CallToolResult, PositionOutput, error) {
	pos, err := s.ghost.Dock()
	if err != nil {
		s.logger.Warn("dock failed", "error", err)
		return nil, PositionOutput{}, fmt.Errorf("dock: %w", err)
	}
	return positionResult(pos)
}

func positionResult(pos *ipc.PositionData) (*mcpsdk.CallToolResult, PositionOutput, error) {
	out := PositionOutput{X: pos.X, Y: pos.Y, Unconfirmed: pos.Unconfirmed}
	if !pos.Unconfirmed {
		return nil, out, nil
	}
	note := fmt.Sprintf("Moved towards (%d, %d) but the final window position could not be read back.", pos.X, pos.Y)
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: note}},
	}, out, nil
}

func (s *Server) handleSetAlwaysOnTop(_ context.Context, _ *mcpsdk.CallToolRequest, args SetAlwaysOnTopInput) (*mcpsdk.CallToolResult, TopmostOutput, error) {
	var (
		enabled bool
		err     error
	)
	if args.Toggle {
		enabled, err = s.ghost.ToggleTopmost()
	} else {
		enabled, err = s.ghost.SetTopmost(args.Enabled)
	}
	if err != nil {
		s.logger.Warn("set_always_on_top failed", "toggle", args.Toggle, "error", err)
		return nil, TopmostOutput{}, fmt.Errorf("set always on top: %w", err)
	}
	return nil, TopmostOutput{Enabled: enabled}, nil
}

func (s *Server) handleNextPose(_ context.Context, _ *mcpsdk.CallToolRequest, _ NextPoseInput) (*mcpsdk.CallToolResult, PoseOutput, error) {
	data, err := s.ghost.NextPose()
	if err != nil {
		return nil, PoseOutput{}, fmt.Errorf("next pose: %w", err)
	}
	return poseResult(data)
}

func (s *Server) handleSetPose(_ context.Context, _ *mcpsdk.CallToolRequest, args SetPoseInput) (*mcpsdk.CallToolResult, PoseOutput, error) {
	data, err := s.ghost.SetPose(args.Index)
	if err != nil {
		return nil, PoseOutput{}, fmt.Errorf("set pose %d: %w", args.Index, err)
	}
	return poseResult(data)
}

// poseResult adds a note when the ghost could not show the pose it was
// asked for; the structured output carries the same flags.
func poseResult(data *ipc.PoseData) (*mcpsdk.CallToolResult, PoseOutput, error) {
	out := poseOutput(data)
	var note string
	switch {
	case out.NoSprite:
		note = "No sprite available: neither the requested pose nor pose 0 could be loaded."
	case out.FellBack:
		note = "Requested pose could not be loaded; showing pose 0."
	default:
		return nil, out, nil
	}
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: note}},
	}, out, nil
}

func poseOutput(data *ipc.PoseData) PoseOutput {
	return PoseOutput{
		Index:    data.Index,
		Count:    data.Count,
		FellBack: data.FellBack,
		NoSprite: data.NoSprite,
	}
}

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	st, err := s.ghost.GetStatus()
	if err != nil {
		return nil, StatusOutput{}, fmt.Errorf("get status: %w", err)
	}
	return nil, statusOutput(st), nil
}

func statusOutput(st *ipc.StatusData) StatusOutput {
	out := StatusOutput{
		SessionID: st.SessionID,
		PID:       st.PID,
		Backend:   st.Backend,
		Ghost:     st.Ghost,
		Pose: PoseOutput{
			Index:    st.Pose,
			Count:    st.PoseCount,
			NoSprite: st.NoSprite,
		},
		AlwaysOnTop:   st.AlwaysOnTop,
		Dragging:      st.Dragging,
		UptimeSeconds: st.UptimeSeconds,
	}
	if st.PositionKnown {
		out.Position = &PositionOutput{X: st.X, Y: st.Y}
	}
	return out
}
