package toolserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/cory-johannsen/worldbible/internal/game/worlds"
)

// Transports.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

const instructions = "Generate a world with generate_world, then add characters with create_character. " +
	"Errors are reported as <KIND>: <detail>, naming the offending field."

// Server is an MCP server exposing the world operations.
type Server struct {
	mcp    *mcp.Server
	logger *zap.Logger
}

// New creates a Server with every world tool and resource registered.
//
// Precondition: svc and logger must be non-nil.
func New(svc *worlds.Service, logger *zap.Logger, version string) *Server {
	s := mcp.NewServer(&mcp.Implementation{Name: "worldbible", Version: version}, &mcp.ServerOptions{
		Instructions: instructions,
	})
	s.AddReceivingMiddleware(loggingMiddleware(logger))

	mcp.AddTool(s, generateWorldTool(), generateWorldHandler(svc))
	mcp.AddTool(s, createCharacterTool(), createCharacterHandler(svc))
	mcp.AddTool(s, readWorldTool(), readWorldHandler(svc))
	mcp.AddTool(s, updateCharacterTool(), updateCharacterHandler(svc))
	mcp.AddTool(s, assignProtagonistTool(), assignProtagonistHandler(svc))
	mcp.AddTool(s, listWorldsTool(), listWorldsHandler(svc))
	s.AddResourceTemplate(WorldResourceTemplate(), WorldResourceHandler(svc))

	return &Server{mcp: s, logger: logger}
}

// MCP returns the underlying MCP server.
func (s *Server) MCP() *mcp.Server { return s.mcp }

// Serve runs the server on transport until ctx ends or the client disconnects.
func (s *Server) Serve(ctx context.Context, transport mcp.Transport) error {
	err := s.mcp.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

// StdioService runs the server over stdin/stdout as a lifecycle service.
// Start returns when the client closes the stream.
type StdioService struct {
	server *Server

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewStdioService creates a StdioService.
func NewStdioService(s *Server) *StdioService {
	return &StdioService{server: s}
}

// Start serves on stdio until Stop or end of input.
func (st *StdioService) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	st.mu.Lock()
	st.cancel = cancel
	st.mu.Unlock()
	defer cancel()

	st.server.logger.Info("mcp server listening", zap.String("transport", TransportStdio))
	return st.server.Serve(ctx, &mcp.StdioTransport{})
}

// Stop cancels a running Start.
func (st *StdioService) Stop() {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.cancel != nil {
		st.cancel()
	}
}

// HTTPService serves the streamable HTTP transport at /mcp.
type HTTPService struct {
	addr   string
	logger *zap.Logger
	srv    *http.Server

	mu       sync.Mutex
	listener net.Listener
	ready    chan struct{}
}

// NewHTTPService creates an HTTPService listening on addr.
func NewHTTPService(s *Server, addr string) *HTTPService {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return s.mcp }, nil)
	mux := http.NewServeMux()
	mux.Handle("/mcp", handler)
	return &HTTPService{
		addr:   addr,
		logger: s.logger,
		srv: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		ready: make(chan struct{}),
	}
}

// Start listens and serves until Stop is called.
func (h *HTTPService) Start() error {
	ln, err := net.Listen("tcp", h.addr)
	if err != nil {
		return err
	}
	h.mu.Lock()
	h.listener = ln
	h.mu.Unlock()
	close(h.ready)

	h.logger.Info("mcp server listening",
		zap.String("transport", TransportHTTP),
		zap.String("addr", ln.Addr().String()),
	)
	if err := h.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Addr blocks until the service is listening and returns its address.
func (h *HTTPService) Addr() string {
	<-h.ready
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.listener.Addr().String()
}

// Stop shuts the HTTP server down, waiting up to five seconds for open requests.
func (h *HTTPService) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.srv.Shutdown(ctx); err != nil {
		h.logger.Warn("mcp server shutdown", zap.Error(err))
	}
}
