package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/ghostdock/internal/placement"
	"github.com/1broseidon/ghostdock/internal/runtimepath"
)

// Client talks to a running ghost.
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the standard socket path.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for socketPath.
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    DefaultRequestTimeout,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ghost: %w (is `ghostdock run` active?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout + time.Second))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("ghost error: %s", resp.Error)
	}

	return &resp, nil
}

func (c *Client) call(cmd CommandType, payload any, out any) error {
	req := &Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", cmd, err)
		}
		req.Payload = data
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", cmd, err)
	}
	return nil
}

// Snap moves the ghost to a screen corner.
func (c *Client) Snap(anchor placement.Anchor) (*PositionData, error) {
	var data PositionData
	if err := c.call(CommandSnap, SnapPayload{Anchor: anchor.String()}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Dock moves the ghost to its startup dock position.
func (c *Client) Dock() (*PositionData, error) {
	var data PositionData
	if err := c.call(CommandDock, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// SetTopmost sets the always-on-top flag.
func (c *Client) SetTopmost(enabled bool) (bool, error) {
	var data TopmostData
	if err := c.call(CommandSetTopmost, SetTopmostPayload{Enabled: enabled}, &data); err != nil {
		return false, err
	}
	return data.Enabled, nil
}

// ToggleTopmost flips the always-on-top flag and returns the new value.
func (c *Client) ToggleTopmost() (bool, error) {
	var data TopmostData
	if err := c.call(CommandToggleTopmost, nil, &data); err != nil {
		return false, err
	}
	return data.Enabled, nil
}

// NextPose advances to the next pose.
func (c *Client) NextPose() (*PoseData, error) {
	var data PoseData
	if err := c.call(CommandNextPose, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// SetPose shows a specific pose.
func (c *Client) SetPose(index int) (*PoseData, error) {
	var data PoseData
	if err := c.call(CommandSetPose, SetPosePayload{Index: index}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetStatus retrieves the ghost's status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Ping checks if the ghost is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
