package mcp

// SnapToCornerInput is the input for the snap_to_corner tool.
type SnapToCornerInput struct {
	Corner string `json:"corner" jsonschema:"Screen corner: top-left, top-right, bottom-left or bottom-right"`
}

// PositionOutput is where the ghost window actually ended up. It can differ
// from the requested target when the window manager adjusts the move.
type PositionOutput struct {
	X           int  `json:"x"`
	Y           int  `json:"y"`
	Unconfirmed bool `json:"unconfirmed,omitempty" jsonschema:"The move was requested but the final position could not be read back; x and y are the target"`
}

// DockInput is the input for the dock tool.
type DockInput struct{}

// SetAlwaysOnTopInput is the input for the set_always_on_top tool.
type SetAlwaysOnTopInput struct {
	// Enabled is ignored when Toggle is set.
	Enabled bool `json:"enabled,omitempty" jsonschema:"Keep the ghost above other windows"`
	Toggle  bool `json:"toggle,omitempty" jsonschema:"Flip the current setting instead of using enabled"`
}

// TopmostOutput is the output for the set_always_on_top tool.
type TopmostOutput struct {
	Enabled bool `json:"enabled"`
}

// NextPoseInput is the input for the next_pose tool.
type NextPoseInput struct{}

// SetPoseInput is the input for the set_pose tool.
type SetPoseInput struct {
	Index int `json:"index" jsonschema:"Pose index, starting at 0"`
}

// PoseOutput describes the pose being shown.
type PoseOutput struct {
	Index    int  `json:"index"`
	Count    int  `json:"count"`
	FellBack bool `json:"fell_back"`
	NoSprite bool `json:"no_sprite"`
}

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// StatusOutput is the output for the get_status tool.
type StatusOutput struct {
	SessionID     string          `json:"session_id"`
	PID           int             `json:"pid"`
	Backend       string          `json:"backend"`
	Ghost         string          `json:"ghost"`
	Pose          PoseOutput      `json:"pose"`
	AlwaysOnTop   bool            `json:"always_on_top"`
	Dragging      bool            `json:"dragging"`
	Position      *PositionOutput `json:"position,omitempty"`
	UptimeSeconds int64           `json:"uptime_seconds"`
}
