package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/agausmann/river-layouts/internal/runtimepath"
)

// Client talks to a running generator's control socket
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a control client for one generator namespace
func NewClient(namespace string) *Client {
	socketPath, err := runtimepath.SocketPath(namespace)
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}

	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	// Connect to socket
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to generator: %w (is it running?)", err)
	}
	defer conn.Close()

	// Set deadline
	conn.SetDeadline(time.Now().Add(c.timeout))

	// Marshal request
	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	// Send request
	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	// Read response
	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// Parse response
	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	// Check for error response
	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("generator error: %s", resp.Error)
	}

	return &resp, nil
}

// Ping checks if the generator is responding
func (c *Client) Ping() error {
	req := &Request{
		Command: CommandPing,
	}

	_, err := c.sendRequest(req)
	return err
}

// GetStatus retrieves the session's phase and output count
func (c *Client) GetStatus() (*StatusData, error) {
	req := &Request{
		Command: CommandGetStatus,
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}

	return &status, nil
}

// GetOutputs retrieves per-output generator state
func (c *Client) GetOutputs() (*OutputsData, error) {
	req := &Request{
		Command: CommandGetOutputs,
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return nil, err
	}

	var outputs OutputsData
	if err := json.Unmarshal(resp.Data, &outputs); err != nil {
		return nil, fmt.Errorf("failed to parse outputs data: %w", err)
	}

	return &outputs, nil
}

// GetConfig retrieves the generator's effective configuration
func (c *Client) GetConfig() (*ConfigData, error) {
	req := &Request{
		Command: CommandGetConfig,
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return nil, err
	}

	var data ConfigData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse config data: %w", err)
	}

	return &data, nil
}
