package ipc

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/agausmann/river-layouts/internal/carousel"
	"github.com/agausmann/river-layouts/internal/config"
	"github.com/agausmann/river-layouts/internal/generator"
	"github.com/agausmann/river-layouts/internal/runtimepath"
)

// requestTimeout bounds one client exchange, including the wait for
// the generator's event loop.
const requestTimeout = 5 * time.Second

// Session is the running generator session the server reports on.
// Query serializes fn against the session's event loop; machine state
// must only be read inside it.
type Session interface {
	Query(ctx context.Context, fn func()) error
	Machine() *generator.Machine
}

// Server answers status queries on the control socket
type Server struct {
	socketPath   string
	listener     net.Listener
	logger       *log.Logger
	namespace    string
	cfg          *config.Config
	session      Session
	car          *carousel.Carousel
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a control server for one generator namespace. car
// may be nil for generators without per-output state.
func NewServer(namespace string, cfg *config.Config, session Session, car *carousel.Carousel, logger *log.Logger) (*Server, error) {
	socketPath, err := runtimepath.SocketPath(namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve control socket path: %w", err)
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		logger:     logger,
		namespace:  namespace,
		cfg:        cfg,
		session:    session,
		car:        car,
		startTime:  time.Now(),
	}, nil
}

// Start begins listening for control connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create control socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Debug("control server listening", "socket", s.socketPath)

	// Accept connections
	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			s.logger.Warn("control accept error", "err", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single control connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("control read error", "err", err)
		return
	}

	// Parse request
	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	// Handle command
	resp := s.handleCommand(ctx, req)

	// Send response
	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Warn("failed to marshal response", "err", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send response", "err", err)
	}
}

// handleCommand processes a control command and returns a response
func (s *Server) handleCommand(ctx context.Context, req *Request) *Response {
	switch req.Command {
	case CommandPing:
		resp, _ := NewOKResponse(nil)
		return resp
	case CommandGetStatus:
		return s.handleGetStatus(ctx)
	case CommandGetOutputs:
		return s.handleGetOutputs(ctx)
	case CommandGetConfig:
		return s.handleGetConfig()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

// handleGetStatus returns the session's lifecycle phase and output
// count
func (s *Server) handleGetStatus(ctx context.Context) *Response {
	var (
		phase   generator.Phase
		outputs []string
	)
	err := s.session.Query(ctx, func() {
		phase = s.session.Machine().Phase()
		outputs = s.session.Machine().OutputNames()
	})
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to query session: %v", err))
	}

	status := StatusData{
		Namespace:     s.namespace,
		Phase:         phase.String(),
		OutputCount:   len(outputs),
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
	}

	resp, _ := NewOKResponse(status)
	return resp
}

// handleGetOutputs returns every known output, with carousel state
// where the generator keeps some
func (s *Server) handleGetOutputs(ctx context.Context) *Response {
	var (
		names []string
		snap  []carousel.OutputState
	)
	err := s.session.Query(ctx, func() {
		names = s.session.Machine().OutputNames()
		if s.car != nil {
			snap = s.car.Snapshot()
		}
	})
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to query session: %v", err))
	}

	byOutput := make(map[string]carousel.OutputState, len(snap))
	for _, st := range snap {
		byOutput[st.Output] = st
	}

	infos := make([]OutputInfo, len(names))
	for i, name := range names {
		infos[i] = OutputInfo{Name: name}
		if st, ok := byOutput[name]; ok {
			infos[i].Carousel = &CarouselState{
				MainCount:        st.State.MainCount,
				MainRatio:        st.State.MainRatio,
				ScrollOffset:     st.State.ScrollOffset,
				MaxOffset:        st.MaxOffset,
				ColumnWidth:      st.State.ColumnWidth.String(),
				Gap:              st.State.Gap,
				MainLocation:     string(st.State.MainLocation),
				LastViewCount:    st.State.LastViewCount,
				LastUsableWidth:  st.State.LastUsableWidth,
				LastUsableHeight: st.State.LastUsableHeight,
			}
		}
	}

	resp, _ := NewOKResponse(OutputsData{Outputs: infos})
	return resp
}

// handleGetConfig returns the effective configuration
func (s *Server) handleGetConfig() *Response {
	data := ConfigData{
		LogLevel: s.cfg.LogLevel,
		Carousel: CarouselConfig{
			MainRatio:    s.cfg.Carousel.MainRatio,
			MainCount:    s.cfg.Carousel.MainCount,
			ColumnWidth:  s.cfg.Carousel.ColumnWidth.String(),
			Gap:          s.cfg.Carousel.Gap,
			MainLocation: string(s.cfg.Carousel.MainLocation),
		},
		UniformGrid: UniformGridConfig{
			TargetAspect: s.cfg.UniformGrid.TargetAspect,
			Gap:          s.cfg.UniformGrid.Gap,
		},
	}

	resp, _ := NewOKResponse(data)
	return resp
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the control server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
