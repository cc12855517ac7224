package gameserver

import (
	"net"
	"sync"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
)

// Listener runs a grpc.Server on a TCP address as a lifecycle service.
type Listener struct {
	addr   string
	srv    *grpc.Server
	health *health.Server
	logger *zap.Logger

	mu    sync.Mutex
	ln    net.Listener
	ready chan struct{}
}

// NewListener creates a Listener serving srv on addr. hs may be nil.
func NewListener(addr string, srv *grpc.Server, hs *health.Server, logger *zap.Logger) *Listener {
	return &Listener{addr: addr, srv: srv, health: hs, logger: logger, ready: make(chan struct{})}
}

// Start listens on the configured address and serves until Stop.
func (l *Listener) Start() error {
	ln, err := net.Listen("tcp", l.addr)
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.ln = ln
	l.mu.Unlock()
	close(l.ready)

	l.logger.Info("grpc server listening", zap.String("addr", ln.Addr().String()))
	return l.srv.Serve(ln)
}

// Addr blocks until the listener is bound and returns its address.
func (l *Listener) Addr() string {
	<-l.ready
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ln.Addr().String()
}

// Stop marks the server NOT_SERVING and drains in-flight calls.
func (l *Listener) Stop() {
	if l.health != nil {
		l.health.Shutdown()
	}
	l.srv.GracefulStop()
}
