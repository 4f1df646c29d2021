package ipc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/1broseidon/ghostdock/internal/placement"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandSnap          CommandType = "SNAP"
	CommandDock          CommandType = "DOCK"
	CommandSetTopmost    CommandType = "SET_TOPMOST"
	CommandToggleTopmost CommandType = "TOGGLE_TOPMOST"
	CommandNextPose      CommandType = "NEXT_POSE"
	CommandSetPose       CommandType = "SET_POSE"
	CommandGetStatus     CommandType = "GET_STATUS"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// SnapPayload is the payload for SNAP.
type SnapPayload struct {
	Anchor string `json:"anchor"`
}

// SetTopmostPayload is the payload for SET_TOPMOST.
type SetTopmostPayload struct {
	Enabled bool `json:"enabled"`
}

// SetPosePayload is the payload for SET_POSE.
type SetPosePayload struct {
	Index int `json:"index"`
}

// PositionData is returned by SNAP and DOCK: where the window actually ended
// up. Unconfirmed means the move was requested but the position could not be
// read back, so X and Y are the target.
type PositionData struct {
	X           int  `json:"x"`
	Y           int  `json:"y"`
	Unconfirmed bool `json:"unconfirmed,omitempty"`
}

// TopmostData is returned by SET_TOPMOST and TOGGLE_TOPMOST.
type TopmostData struct {
	Enabled bool `json:"enabled"`
}

// PoseData is returned by NEXT_POSE and SET_POSE.
type PoseData struct {
	Index    int  `json:"index"`
	Count    int  `json:"count"`
	FellBack bool `json:"fell_back,omitempty"`
	NoSprite bool `json:"no_sprite,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	SessionID     string `json:"session_id"`
	PID           int    `json:"pid"`
	Backend       string `json:"backend"`
	Ghost         string `json:"ghost"`
	Pose          int    `json:"pose"`
	PoseCount     int    `json:"pose_count"`
	NoSprite      bool   `json:"no_sprite"`
	AlwaysOnTop   bool   `json:"always_on_top"`
	Dragging      bool   `json:"dragging"`
	PositionKnown bool   `json:"position_known"`
	X             int    `json:"x"`
	Y             int    `json:"y"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// Handler executes commands inside the running ghost.
type Handler interface {
	Snap(ctx context.Context, anchor placement.Anchor) (placement.Position, error)
	Dock(ctx context.Context) (placement.Position, error)
	SetTopmost(ctx context.Context, enabled bool) (bool, error)
	ToggleTopmost(ctx context.Context) (bool, error)
	NextPose(ctx context.Context) (PoseData, error)
	SetPose(ctx context.Context, index int) (PoseData, error)
	Status(ctx context.Context) (StatusData, error)
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
