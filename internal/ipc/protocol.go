package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandPing       CommandType = "PING"
	CommandGetStatus  CommandType = "GET_STATUS"
	CommandGetOutputs CommandType = "GET_OUTPUTS"
	CommandGetConfig  CommandType = "GET_CONFIG"
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

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Namespace     string `json:"namespace"`
	Phase         string `json:"phase"`
	OutputCount   int    `json:"output_count"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// CarouselState is the per-output carousel state reported by
// GET_OUTPUTS. Generators without per-output state omit it.
type CarouselState struct {
	MainCount     int     `json:"main_count"`
	MainRatio     float64 `json:"main_ratio"`
	ScrollOffset  float64 `json:"scroll_offset"`
	MaxOffset     float64 `json:"max_offset"`
	ColumnWidth   string  `json:"column_width"`
	Gap           int     `json:"gap"`
	MainLocation  string  `json:"main_location"`

	// Last demand seen for the output.
	LastViewCount    int `json:"last_view_count"`
	LastUsableWidth  int `json:"last_usable_width"`
	LastUsableHeight int `json:"last_usable_height"`
}

// OutputInfo represents one output known to the generator
type OutputInfo struct {
	Name     string         `json:"name"`
	Carousel *CarouselState `json:"carousel,omitempty"`
}

// OutputsData represents the data returned by GET_OUTPUTS
type OutputsData struct {
	Outputs []OutputInfo `json:"outputs"`
}

// ConfigData represents the effective configuration returned by
// GET_CONFIG
type ConfigData struct {
	LogLevel    string            `json:"log_level"`
	Carousel    CarouselConfig    `json:"carousel"`
	UniformGrid UniformGridConfig `json:"uniform_grid"`
}

type CarouselConfig struct {
	MainRatio    float64 `json:"main_ratio"`
	MainCount    int     `json:"main_count"`
	ColumnWidth  string  `json:"column_width"`
	Gap          int     `json:"gap"`
	MainLocation string  `json:"main_location"`
}

type UniformGridConfig struct {
	TargetAspect float64 `json:"target_aspect"`
	Gap          int     `json:"gap"`
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
